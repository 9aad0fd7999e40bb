package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/AthrunAshy/flasky/internal/api/handler"
	"github.com/AthrunAshy/flasky/internal/api/middleware"
	"github.com/AthrunAshy/flasky/internal/core/domain"
	"github.com/AthrunAshy/flasky/internal/core/ports"
	"github.com/AthrunAshy/flasky/internal/core/service"
	"github.com/AthrunAshy/flasky/internal/core/token"
	"github.com/AthrunAshy/flasky/internal/infrastructure/config"
	"github.com/AthrunAshy/flasky/internal/infrastructure/db/gormdb"
	redisdb "github.com/AthrunAshy/flasky/internal/infrastructure/db/redis"
	"github.com/AthrunAshy/flasky/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; login throttling is skipped in that case.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("flasky"))

	// --- Dependencies ---
	userRepo := gormdb.NewUserRepository(db)
	roleRepo := gormdb.NewRoleRepository(db)

	var limiter ports.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginLimiter(rdb, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	}

	codec := token.NewCodec(cfg.SecretKey, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, roleRepo, limiter, cfg.SecretKey, cfg.AdminEmail, cfg.SessionTTL, log)
	accountService := service.NewAccountService(userRepo, codec, log)

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService)
	moderationHandler := handler.NewModerationHandler()
	authMiddleware := middleware.Auth(cfg.SecretKey)

	// --- Auth routes (no session required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/reset", accountHandler.RequestReset)
	e.POST("/auth/reset/:token", accountHandler.ResetPassword)

	// --- Account routes (session required) ---
	account := e.Group("/account", authMiddleware)
	account.POST("/confirm", accountHandler.ResendConfirmation)
	account.POST("/confirm/:token", accountHandler.Confirm)
	account.POST("/email", accountHandler.RequestEmailChange)
	account.POST("/email/:token", accountHandler.ChangeEmail)

	// --- Moderation surface: permission-gated group ---
	mod := e.Group("/moderate", authMiddleware, middleware.RequirePermission(domain.PermissionModerate))
	mod.GET("", moderationHandler.Overview)

	// --- Observability & health (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
