package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filmstore/rental-system/internal/api/handler"
	"github.com/filmstore/rental-system/internal/api/middleware"
	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/guard"
	"github.com/filmstore/rental-system/internal/core/ports"
	"github.com/filmstore/rental-system/internal/core/session"
)

// RouterConfig carries the built components the router exposes.
type RouterConfig struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Users     ports.UserStore
	Admins    ports.AdminStore
	Sessions  *session.Container
	Profiles  ports.ProfileService
	Evaluator *guard.Evaluator
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("rental"))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(cfg.Profiles, cfg.Sessions, cfg.Evaluator, cfg.JWTSecret, cfg.TokenTTL)
	profileHandler := handler.NewProfileHandler(cfg.Profiles, cfg.Sessions)
	identityHandler := handler.NewIdentityHandler(cfg.Users, cfg.Admins, cfg.Profiles)
	adminOnly := []echo.MiddlewareFunc{middleware.Auth(cfg.JWTSecret), middleware.RBAC(string(domain.RoleAdmin))}

	// --- Session core ---
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Current)
	e.GET("/session/can-activate", sessionHandler.CanActivate)

	// --- Profile mutations (current identity) ---
	profile := e.Group("/profile")
	profile.PUT("/email", profileHandler.ChangeEmail)
	profile.PUT("/first-name", profileHandler.ChangeFirstName)
	profile.PUT("/last-name", profileHandler.ChangeLastName)
	profile.PUT("/dni", profileHandler.ChangeDNI)
	profile.PUT("/address", profileHandler.ChangeAddress)
	profile.PUT("/password", profileHandler.ChangePassword)
	profile.PUT("/card", profileHandler.SetCard)
	profile.DELETE("/card", profileHandler.DeleteCard)
	profile.POST("/library", profileHandler.AddToLibrary)
	profile.PUT("/library", profileHandler.ReplaceLibrary)
	profile.PUT("/favourites", profileHandler.ReplaceFavourites)
	profile.DELETE("", profileHandler.DeleteAccount)

	// --- Record collections (json-server shape, addressed by numeric id) ---
	e.GET("/users", identityHandler.ListUsers)
	e.GET("/users/:id", identityHandler.GetUser)
	e.POST("/users", identityHandler.CreateUser)
	e.PATCH("/users/:id", identityHandler.ReplaceUser)
	e.DELETE("/users/:id", identityHandler.DeleteUser)
	e.GET("/admins", identityHandler.ListAdmins)

	// --- Admin operations (bearer token required) ---
	e.GET("/admin/users/:id/library", identityHandler.GetUserLibrary, adminOnly...)
	e.DELETE("/admin/users/:id", identityHandler.DeleteUser, adminOnly...)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if cfg.DB != nil && cfg.Redis != nil {
		readiness := handler.NewReadinessHandler(cfg.DB, cfg.Redis)
		e.GET("/health/ready", readiness.Readiness)
	}

	return e
}
