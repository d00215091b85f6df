package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"useraccounts/internal/application/auth"
	"useraccounts/internal/domain"
	"useraccounts/internal/logger"
	"useraccounts/internal/transport/http/dto"
	"useraccounts/internal/transport/http/middleware"
	"useraccounts/internal/transport/http/response"
)

type AccountHandler struct {
	svc *auth.Service
}

func NewAccountHandler(svc *auth.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:             req.Email,
		Nickname:          req.Nickname,
		Password:          req.Password,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Bio:               req.Bio,
		ProfilePictureURL: req.ProfilePictureURL,
		LinkedInURL:       req.LinkedInURL,
		GitHubURL:         req.GitHubURL,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	lg := logger.WithCtx(r.Context())
	lg.Info().
		Str("user_id", res.User.ID).
		Str("nickname", res.User.Nickname).
		Msg("user_registered")

	response.Created(w, dto.RegisterData{User: dto.NewUserView(res.User)})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	lg := logger.WithCtx(r.Context())
	lg.Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.AuthData{
		User:   dto.NewUserView(res.User),
		Tokens: dto.NewTokensView(res.Tokens),
	})
}

func (h *AccountHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), req.UserID, req.Token); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.VerifyEmailData{Status: "verified"})
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), userID, req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

// -------- Moderation --------

func (h *AccountHandler) LockUser(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, ok := actor(r)
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	targetID := chi.URLParam(r, "id")

	if err := h.svc.LockUser(r.Context(), actorID, actorRole, targetID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	lg := logger.WithCtx(r.Context())
	lg.Info().
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Msg("user_locked")

	response.OK(w, dto.ModerationData{Status: "locked", UserID: targetID})
}

func (h *AccountHandler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, ok := actor(r)
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	targetID := chi.URLParam(r, "id")

	if err := h.svc.UnlockUser(r.Context(), actorID, actorRole, targetID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	lg := logger.WithCtx(r.Context())
	lg.Info().
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Msg("user_unlocked")

	response.OK(w, dto.ModerationData{Status: "unlocked", UserID: targetID})
}

func (h *AccountHandler) SetProfessionalStatus(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, ok := actor(r)
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	targetID := chi.URLParam(r, "id")

	var req dto.SetProfessionalRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.SetProfessionalStatus(r.Context(), actorID, actorRole, targetID, *req.Professional)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	u, err := h.svc.GetUserByID(r.Context(), targetID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

func actor(r *http.Request) (id, role string, ok bool) {
	id, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	role, ok = middleware.RoleFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	return id, role, true
}
