package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)

	Me(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)

	// Moderation (manager and above)
	LockUser(w http.ResponseWriter, r *http.Request)
	UnlockUser(w http.ResponseWriter, r *http.Request)
	SetProfessionalStatus(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Accounts AccountHandler

	AuthMW    func(http.Handler) http.Handler
	ManagerMW func(http.Handler) http.Handler

	// Optional per-route rate limits; nil means unlimited.
	RegisterLimitMW func(http.Handler) http.Handler
	LoginLimitMW    func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Accounts == nil {
		return nil, fmt.Errorf("nil Accounts handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.ManagerMW == nil {
		return nil, fmt.Errorf("nil Manager middleware")
	}

	passthrough := func(next http.Handler) http.Handler { return next }
	if deps.RegisterLimitMW == nil {
		deps.RegisterLimitMW = passthrough
	}
	if deps.LoginLimitMW == nil {
		deps.LoginLimitMW = passthrough
	}

	r := chi.NewRouter()
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/accounts/v1", func(r chi.Router) {
		r.With(deps.RegisterLimitMW).Post("/register", deps.Accounts.Register)
		r.With(deps.LoginLimitMW).Post("/login", deps.Accounts.Login)
		r.Post("/verify-email", deps.Accounts.VerifyEmail)

		r.With(deps.AuthMW).Get("/me", deps.Accounts.Me)
		r.With(deps.AuthMW).Patch("/me/profile", deps.Accounts.UpdateProfile)

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Use(deps.ManagerMW)

			r.Get("/users/{id}", deps.Accounts.GetUser)
			r.Post("/users/{id}/lock", deps.Accounts.LockUser)
			r.Post("/users/{id}/unlock", deps.Accounts.UnlockUser)
			r.Post("/users/{id}/professional", deps.Accounts.SetProfessionalStatus)
		})
	})

	return r, nil
}
