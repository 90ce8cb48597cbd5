package api

import (
	"github.com/Conceptual-Machines/alpacka-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/alpacka-api/internal/api/middleware"
	"github.com/Conceptual-Machines/alpacka-api/internal/config"
	"github.com/Conceptual-Machines/alpacka-api/internal/logger"
	"github.com/Conceptual-Machines/alpacka-api/internal/metrics"
	"github.com/Conceptual-Machines/alpacka-api/internal/middleware"
	webhandlers "github.com/Conceptual-Machines/alpacka-api/internal/web/handlers"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OptimizationService is what the HTTP layer needs from services.OptimizationService
type OptimizationService interface {
	handlers.Optimizer
	handlers.CredentialChecker
}

// UserService is what the HTTP layer needs from services.UserService
type UserService interface {
	middleware.UserStore
	handlers.UserUpserter
}

// Dependencies are the collaborators built in main
type Dependencies struct {
	DB            *gorm.DB // nil runs without persistence
	Config        *config.Config
	Version       string
	Model         string
	Provider      string
	Optimizations OptimizationService
	Users         UserService // nil when DB is nil
	Recorder      metrics.Recorder
	Prometheus    *metrics.Prometheus
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSOrigins))

	// Sign-in needs somewhere to keep users
	authDisabled := cfg.IsAuthDisabled() || deps.Users == nil
	if authDisabled && !cfg.IsAuthDisabled() {
		logger.Warn("No database configured, running without sign-in", logger.Fields{"auth_mode": cfg.AuthMode})
	}

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Optimizations, deps.Model)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoints
	metricsHandler := handlers.NewMetricsHandler(deps.Version, deps.Model, deps.Provider)
	router.GET("/api/metrics", metricsHandler.GetMetrics)
	if deps.Prometheus != nil {
		router.GET("/metrics", gin.WrapH(deps.Prometheus.Handler()))
	}

	// Web pages
	webHandler := webhandlers.NewWebHandler(deps.Optimizations)
	pageAuth := apimiddleware.NoAuth()
	if !authDisabled {
		pageAuth = middleware.OptionalJWTAuth(deps.Users, cfg.JWTSecret)
	}
	router.GET("/", pageAuth, webHandler.Home)
	router.POST("/optimize", pageAuth, webHandler.Optimize)

	// Auth routes (public)
	auth := router.Group("/api/auth")
	{
		authHandler := handlers.NewAuthHandler(cfg)
		auth.POST("/logout", authHandler.Logout)

		if !authDisabled {
			oauthHandler := handlers.NewOAuthHandler(deps.Users, cfg)
			auth.GET("/:provider", oauthHandler.BeginAuth)
			auth.GET("/:provider/callback", oauthHandler.Callback)
		}
	}

	// Protected API routes v1
	v1 := router.Group("/api/v1")
	if authDisabled {
		v1.Use(apimiddleware.NoAuth())
	} else {
		v1.Use(middleware.JWTAuth(deps.Users, cfg.JWTSecret))
	}
	{
		v1.GET("/me", handlers.GetProfile)
		v1.GET("/options", handlers.GetOptions)

		optimizationHandler := handlers.NewOptimizationHandler(deps.Optimizations)
		v1.POST("/optimizations", optimizationHandler.Create)
		v1.GET("/optimizations", optimizationHandler.List)
	}

	return router
}
