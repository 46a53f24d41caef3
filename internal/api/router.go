package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/microtasks/docs"
	"github.com/99minutos/microtasks/internal/api/handler"
	"github.com/99minutos/microtasks/internal/api/middleware"
	"github.com/99minutos/microtasks/internal/core/domain"
	"github.com/99minutos/microtasks/internal/core/ports"
)

const defaultBodyLimit = "1M"

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Log         zerolog.Logger
	JWTSecret   string
	CORSOrigins []string
	BodyLimit   string

	AuthService       ports.AuthService
	TaskService       ports.TaskService
	SubmissionService ports.SubmissionService

	// LoginLimiter may be nil, which disables login throttling.
	LoginLimiter middleware.RateLimiter
	LoginLimit   middleware.FixedWindowConfig

	HealthChecks map[string]handler.CheckFunc

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.BodyLimit == "" {
		deps.BodyLimit = defaultBodyLimit
	}
	if len(deps.CORSOrigins) == 0 {
		deps.CORSOrigins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			handler.IdempotencyHeader,
		},
	}))
	e.Use(echomiddleware.BodyLimit(deps.BodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:          "http",
		Registerer:         deps.Registerer,
		StatusCodeResolver: metricsStatus,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	taskHandler := handler.NewTaskHandler(deps.TaskService)
	submissionHandler := handler.NewSubmissionHandler(deps.SubmissionService)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	authMiddleware := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	loginLimit := deps.LoginLimit
	if loginLimit.RouteKey == "" {
		loginLimit.RouteKey = "login"
	}

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login, middleware.RateLimit(deps.LoginLimiter, loginLimit, deps.Log))

	// --- Task routes ---
	api.GET("/tasks", taskHandler.List)
	api.POST("/tasks", taskHandler.Create, authMiddleware, adminOnly)

	// --- Submission routes ---
	subs := api.Group("/submissions", authMiddleware)
	subs.POST("", submissionHandler.Create)
	subs.GET("", submissionHandler.List)
	subs.GET("/mine", submissionHandler.Mine)
	subs.PUT("/:id", submissionHandler.Review, adminOnly)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
