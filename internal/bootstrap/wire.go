package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"useraccounts/internal/application/auth"
	"useraccounts/internal/audit"
	"useraccounts/internal/config"
	"useraccounts/internal/domain"
	"useraccounts/internal/infrastructure/db/postgres"
	"useraccounts/internal/infrastructure/memory"
	rabbitmq_pub "useraccounts/internal/infrastructure/messaging/rabbitmq"
	"useraccounts/internal/infrastructure/redis"
	"useraccounts/internal/infrastructure/security"
	"useraccounts/internal/logger"
	http_handlers "useraccounts/internal/transport/http/handlers"
	"useraccounts/internal/transport/http/middleware"
	"useraccounts/internal/transport/http/response"
	"useraccounts/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (DBCloser, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type DBCloser interface {
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface{}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	// 2) user repo
	sqlDB, ok := db.(*sql.DB)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
	}

	userRepo := postgres.NewUserRepo(sqlDB)

	// 3) redis (best-effort, only used for rate limiting)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) publisher
	var pub Publisher
	if cfg.RabbitURL != "" {
		pub, err = deps.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
				pub = memory.NoopPublisher{}
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		}
	} else {
		logger.Logger.Warn().Msg("no RABBIT_URL configured; using noop publisher")
		pub = memory.NoopPublisher{}
	}

	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	eventPub, ok := pub.(auth.EventPublisher)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: publisher does not implement auth.EventPublisher")
	}

	// 5) security
	hasher := security.NewBcryptHasher(12)
	policy := security.NewPasswordPolicy(security.DefaultMinEntropy)
	signer := security.NewJWTSigner(cfg.JWTSecret, "useraccounts")

	// 6) service
	auditLog := audit.New(logger.Logger)
	svc := auth.NewService(
		userRepo,
		hasher,
		policy,
		signer,
		eventPub,
		auditLog,
		auth.Config{
			AccessTTL:          cfg.AccessTokenTTL,
			MaxLoginAttempts:   cfg.MaxLoginAttempts,
			VerifyEmailBaseURL: cfg.VerifyEmailBaseURL,
		},
	)

	// 7) handlers + middleware
	accountsH := http_handlers.NewAccountHandler(svc)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, response.WriteError)
	managerMW := middleware.RequireAtLeast(string(domain.RoleManager), response.WriteError)

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if rc, ok := redisCli.(*redis.Client); ok {
		fwLimiter = redis.NewFixedWindowLimiter(rc)
	}

	rl := func(key string, limit int) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   cfg.RateLimitWindow,
			},
			response.WriteError,
		)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   healthH,
		Accounts: accountsH,

		AuthMW:    authMW,
		ManagerMW: managerMW,

		RegisterLimitMW: rl("accounts.register", cfg.RegisterRateLimit),
		LoginLimitMW:    rl("accounts.login", cfg.LoginRateLimit),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      middleware.RequestID(mux),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string) (DBCloser, error) {
			return config.NewDB(addr)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
