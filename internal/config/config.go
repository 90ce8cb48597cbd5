package config

import (
	"os"
	"strings"
)

const (
	// DefaultGenerationModel is the endpoint model used when GENERATION_MODEL is not set
	DefaultGenerationModel = "gemini-2.5-flash-lite"

	authModeNone  = "none"
	authModeOAuth = "oauth"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string
	BaseURL     string // Public base URL, used for OAuth callbacks

	// Generation endpoint
	GeminiAPIKey       string // Google Gemini API key
	OpenAIAPIKey       string // OpenAI API key (only when GENERATION_MODEL is a gpt-* model)
	GenerationModel    string // Model id sent to the generation endpoint
	GenerationProvider string // Optional explicit provider: "gemini" or "openai"

	// Persistence
	DatabaseURL string

	// Identity provider / sessions
	GoogleClientID     string
	GoogleClientSecret string
	JWTSecret          string
	SessionSecret      string
	CookieDomain       string

	// HTTP
	CORSOrigins []string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Auth mode
	// - "oauth": Google sign-in, JWT cookie required on /api/v1
	// - "none": No auth (local dev), every request runs as the anonymous user
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		GenerationModel:    getEnv("GENERATION_MODEL", DefaultGenerationModel),
		GenerationProvider: getEnv("GENERATION_PROVIDER", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		SessionSecret:      getEnv("SESSION_SECRET", getEnv("JWT_SECRET", "")),
		CookieDomain:       getEnv("COOKIE_DOMAIN", ""),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:  getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:  getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:       getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:    getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:           getEnv("AUTH_MODE", authModeOAuth),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsAuthDisabled returns true when every request should run as the anonymous user
func (c *Config) IsAuthDisabled() bool {
	return c.AuthMode == authModeNone
}

// GenerationCredential returns the API key matching the resolved generation provider.
// An empty result means the credential is missing; the caller decides what to do with that.
func (c *Config) GenerationCredential(providerName string) string {
	if providerName == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}
