package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lambojac/mirriora/internal/infra/config"
	"github.com/lambojac/mirriora/internal/transport/http/handlers"
	"github.com/lambojac/mirriora/internal/transport/http/middleware"
	"github.com/lambojac/mirriora/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	PasswordReset *usecase.PasswordResetService
	Account       *usecase.AccountService
	Journals      *usecase.JournalService
	Challenges    *usecase.ChallengeService
	Surveys       *usecase.SurveyService
	Scans         *usecase.ScanService
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
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if deps.Config != nil && len(deps.Config.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

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
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration)
		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, deps.Services.Account)
		accountHandler := handlers.NewAccountHandler(deps.Services.Account)

		loginLimit := buildRateLimit(deps, "auth_login_ip", rateLimitLogin)
		registerLimit := buildRateLimit(deps, "auth_register_ip", rateLimitRegister)
		resetLimit := buildRateLimit(deps, "password_reset_ip", rateLimitPasswordReset)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", withLimit(registerLimit, authHandler.Register)...)
			authGroup.POST("/login", withLimit(loginLimit, authHandler.Login)...)
			authGroup.GET("/logout", authHandler.Logout)
			authGroup.POST("/verify-otp", authHandler.VerifyOTP)
			authGroup.POST("/resend-verification-otp", authHandler.ResendVerificationOTP)

			authGroup.POST("/request-password-reset", withLimit(resetLimit, passwordHandler.RequestPasswordReset)...)
			authGroup.POST("/verify-reset-otp", passwordHandler.VerifyResetOTP)
			authGroup.POST("/reset-password", passwordHandler.ResetPassword)
			authGroup.POST("/resend-password-reset-otp", withLimit(resetLimit, passwordHandler.ResendResetOTP)...)

			authGroup.POST("/change-password", authMiddleware, passwordHandler.ChangePassword)
			authGroup.GET("/profile", authMiddleware, accountHandler.Profile)
			authGroup.DELETE("/account", authMiddleware, accountHandler.DeleteAccount)
		}

		journalHandler := handlers.NewJournalHandler(deps.Services.Journals)
		journalGroup := api.Group("/journals")
		journalGroup.Use(authMiddleware)
		{
			journalGroup.POST("", journalHandler.Create)
			journalGroup.GET("", journalHandler.List)
			journalGroup.GET("/:id", journalHandler.Get)
			journalGroup.PUT("/:id", journalHandler.Update)
			journalGroup.DELETE("/:id", journalHandler.Delete)
		}

		challengeHandler := handlers.NewChallengeHandler(deps.Services.Challenges)
		challengeGroup := api.Group("/challenges")
		challengeGroup.Use(authMiddleware)
		{
			challengeGroup.POST("", challengeHandler.Create)
			challengeGroup.GET("", challengeHandler.List)
			challengeGroup.GET("/:id", challengeHandler.Get)
			challengeGroup.DELETE("/:id", challengeHandler.Delete)
			challengeGroup.PATCH("/:id/note", challengeHandler.UpdateNote)
			challengeGroup.PATCH("/:id/tasks/:index/complete", challengeHandler.CompleteTask)
			challengeGroup.DELETE("/:id/tasks/:index", challengeHandler.DeleteTask)
		}

		surveyHandler := handlers.NewSurveyHandler(deps.Services.Surveys)
		surveyGroup := api.Group("/survey")
		surveyGroup.Use(authMiddleware)
		{
			surveyGroup.GET("/questions", surveyHandler.Questions)
			surveyGroup.GET("/questions/unanswered", surveyHandler.Unanswered)
			surveyGroup.GET("/questions/next", surveyHandler.NextQuestion)
			surveyGroup.GET("/answers", surveyHandler.Answers)
			surveyGroup.POST("/answers", surveyHandler.SubmitAnswer)
		}

		scanHandler := handlers.NewScanHandler(deps.Services.Scans)
		scanGroup := api.Group("/scans")
		scanGroup.Use(authMiddleware)
		{
			scanGroup.POST("", scanHandler.Upload)
			scanGroup.GET("", scanHandler.List)
			scanGroup.GET("/:id", scanHandler.Get)
			scanGroup.GET("/:id/download", scanHandler.Download)
			scanGroup.DELETE("/:id", scanHandler.Delete)
		}
	}

	handlers.RegisterSwagger(r)

	return r
}

type rateLimitKind int

const (
	rateLimitLogin rateLimitKind = iota
	rateLimitRegister
	rateLimitPasswordReset
)

func buildRateLimit(deps Dependencies, name string, kind rateLimitKind) gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	var limit int
	switch kind {
	case rateLimitLogin:
		limit = deps.Config.RateLimit.LoginMaxAttempts
	case rateLimitRegister:
		limit = deps.Config.RateLimit.RegisterMaxAttempts
	case rateLimitPasswordReset:
		limit = deps.Config.RateLimit.PasswordResetMaxAttempts
	}
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return deps.RateLimiter.RateLimit(rule)
}

func withLimit(limit gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{limit, handler}
}
