package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/memberhub/accounts/docs"
	"github.com/memberhub/accounts/internal/api/handler"
	"github.com/memberhub/accounts/internal/api/metrics"
	"github.com/memberhub/accounts/internal/api/middleware"
	"github.com/memberhub/accounts/internal/core/ports"
	"github.com/memberhub/accounts/internal/core/token"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	DB *mongo.Database
	// Redis is nil when the refresh denylist is disabled.
	Redis        *redis.Client
	Auth         ports.AuthService
	Registration ports.RegistrationService
	Tokens       *token.Issuer
	Cookie       handler.CookieSettings
	Log          zerolog.Logger

	// Registerer and Gatherer default to the Prometheus default registry.
	// Both the HTTP middleware and the custom accounts metrics use them.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	metrics.MustRegister(d.Registerer)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: d.Registerer,
	}))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	registerHandler := handler.NewRegisterHandler(d.Registration)

	e.POST("/register", registerHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.POST("/token/refresh", authHandler.Refresh)
	e.GET("/me", authHandler.Me, middleware.Auth(d.Tokens))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
