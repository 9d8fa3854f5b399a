package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/infra/config"
	"github.com/arklim/social-platform-accounts/internal/transport/http/handlers"
	"github.com/arklim/social-platform-accounts/internal/transport/http/middleware"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// Rate limit rule names, shared with the throttle store's retention table.
const (
	LoginRateLimitRule         = "auth_login_ip"
	RegisterRateLimitRule      = "register_ip"
	PasswordResetRateLimitRule = "password_reset_ip"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Accounts      *usecase.AccountService
	Registration  *usecase.RegistrationService
	Auth          *usecase.AuthService
	PasswordReset *usecase.PasswordResetService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))
	r.Use(middleware.AccessLog(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		if mw := buildLoginMiddlewares(deps); len(mw) > 0 {
			authGroup.Use(mw...)
		}
		handlers.NewAuthHandler(deps.Services.Auth).RegisterRoutes(authGroup)

		accountsGroup := api.Group("/accounts")

		registrationGroup := accountsGroup.Group("")
		if mw := buildRegisterMiddlewares(deps); len(mw) > 0 {
			registrationGroup.Use(mw...)
		}
		handlers.NewRegistrationHandler(deps.Services.Registration).RegisterRoutes(registrationGroup)

		passwordGroup := accountsGroup.Group("")
		if mw := buildPasswordResetMiddlewares(deps); len(mw) > 0 {
			passwordGroup.Use(mw...)
		}
		handlers.NewPasswordHandler(deps.Services.PasswordReset).RegisterRoutes(passwordGroup)

		handlers.NewAccountHandler(deps.Services.Accounts).RegisterRoutes(accountsGroup)
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	return buildRateLimitMiddlewares(deps, LoginRateLimitRule, func(cfg config.RateLimitSettings) int {
		return cfg.LoginMaxAttempts
	}, time.Minute)
}

func buildRegisterMiddlewares(deps Dependencies) []gin.HandlerFunc {
	return buildRateLimitMiddlewares(deps, RegisterRateLimitRule, func(cfg config.RateLimitSettings) int {
		return cfg.RegisterMaxAttempts
	}, time.Minute)
}

func buildPasswordResetMiddlewares(deps Dependencies) []gin.HandlerFunc {
	return buildRateLimitMiddlewares(deps, PasswordResetRateLimitRule, func(cfg config.RateLimitSettings) int {
		return cfg.PasswordResetMaxAttempts
	}, time.Hour)
}

func buildRateLimitMiddlewares(deps Dependencies, name string, limitOf func(config.RateLimitSettings) int, fallbackWindow time.Duration) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := limitOf(deps.Config.RateLimit)
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = fallbackWindow
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
