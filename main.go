package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/api"
	"github.com/Conceptual-Machines/alpacka-api/internal/config"
	"github.com/Conceptual-Machines/alpacka-api/internal/database"
	"github.com/Conceptual-Machines/alpacka-api/internal/llm"
	"github.com/Conceptual-Machines/alpacka-api/internal/metrics"
	"github.com/Conceptual-Machines/alpacka-api/internal/observability"
	"github.com/Conceptual-Machines/alpacka-api/internal/optimizer"
	"github.com/Conceptual-Machines/alpacka-api/internal/prompt"
	"github.com/Conceptual-Machines/alpacka-api/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	shutdownTimeout       = 30 * time.Second
	readHeaderTimeout     = 10 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "alpacka-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	ctx := context.Background()

	db := openDatabase(cfg)

	promptBuilder, err := prompt.NewPromptBuilder()
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to load prompt templates:", err)
	}

	// Metrics fan out to every configured backend
	prom := metrics.NewPrometheus()
	recorder := metrics.NewMulti(prom, metrics.NewSentryMetrics(), metrics.NewCloudWatch(ctx, cfg.Environment))

	lf := observability.NewLangfuse(ctx, cfg)
	defer lf.Flush(context.Background())

	providerName := llm.ResolveProviderName(cfg.GenerationModel, cfg.GenerationProvider)
	client := optimizer.NewClient(optimizer.Config{
		APIKey:   cfg.GenerationCredential(providerName),
		Model:    cfg.GenerationModel,
		Provider: providerName,
	}, promptBuilder, optimizer.WithObserver(observability.NewGenerationObserver(lf, recorder)))

	if !client.HasCredential() {
		log.Printf("⚠️  No API key for provider %s, optimizations will fail until one is configured", providerName)
	}

	deps := api.Dependencies{
		DB:         db,
		Config:     cfg,
		Version:    GetVersion(),
		Model:      cfg.GenerationModel,
		Provider:   providerName,
		Recorder:   recorder,
		Prometheus: prom,
	}
	if db != nil {
		deps.Users = services.NewUserService(db)
		deps.Optimizations = services.NewOptimizationService(client, services.NewUsageService(db))
	} else {
		deps.Optimizations = services.NewOptimizationService(client, nil)
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.SetupRouter(deps),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Printf("🚀 Starting server on port %s (model: %s, provider: %s)", cfg.Port, cfg.GenerationModel, providerName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sentry.CaptureException(err)
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

// openDatabase connects and migrates when DATABASE_URL is set.
// Without it the service runs with no sign-in and no history.
func openDatabase(cfg *config.Config) *gorm.DB {
	db, err := database.Connect(cfg.DatabaseURL)
	if errors.Is(err, database.ErrNotConfigured) {
		log.Println("⚠️  DATABASE_URL not set, running without persistence")
		return nil
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to run migrations:", err)
	}
	return db
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
