package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	ServerPort     int
	DatabasePath   string
	JWTSecret      string
	SnapshotPath   string
	SnapshotCron   string // standard 5-field cron expression
	AllowedOrigins []string
	Production     bool
}

// Load loads configuration from a .env file (if present) and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env file is fine; env vars may be set by the environment.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./notes.db"),
		JWTSecret:      secret,
		SnapshotPath:   getEnv("SNAPSHOT_PATH", "./snapshots"),
		SnapshotCron:   getEnv("SNAPSHOT_CRON", "0 3 * * *"),
		AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		Production:     getEnv("APP_ENV", "development") == "production",
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
