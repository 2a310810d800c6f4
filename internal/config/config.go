package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// ErrMissingJWTSecret is returned when no token signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	StoreDriver  string
	DatabaseURL  string // MongoDB connection string
	DatabaseName string
	DatabasePath string // SQLite file, used when StoreDriver is sqlite
	JWTSecret    string
	CORSOrigins  []string
	LogLevel     string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is applied first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "3001")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	cfg := &Config{
		ServerPort:   port,
		StoreDriver:  strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		DatabaseURL:  getEnv("DB_URL", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DB_NAME", "users"),
		DatabasePath: getEnv("DATABASE_PATH", "./accounts.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.StoreDriver != DriverMongo && cfg.StoreDriver != DriverSQLite {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
