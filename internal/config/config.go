package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	LogLevel string

	// Remote service (auth + listing live on the same base URL)
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Durable session storage
	TokenDBPath string

	// Display
	PageSize int

	// Observability
	OTLPEndpoint string

	// Mock API server
	MockPort      int
	MockJWTSecret string
	MockTokenTTL  time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:  getEnv("PIX_API_URL", "http://localhost:8080"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		TokenDBPath: getEnv("TOKEN_DB_PATH", defaultTokenDBPath()),

		PageSize: getEnvInt("PAGE_SIZE", 10),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		MockPort:      getEnvInt("MOCK_PORT", 8080),
		MockJWTSecret: getEnv("MOCK_JWT_SECRET", "pix-consulta-dev-secret-change-me"),
		MockTokenTTL:  getEnvDuration("MOCK_TOKEN_TTL", 30*time.Minute),
	}
}

func defaultTokenDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(home, ".pix-consulta", "session.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
