package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aryan0dhankhar/projectmatch/pkg/database"
)

// Config holds the application configuration
type Config struct {
	Environment string
	ServerPort  int
	LogLevel    string

	Database        database.Config
	DBConnectTries  int
	JWTSecret       string
	JWTIssuer       string
	RedisURL        string
	LoginRateLimit  int
	LoginRateWindow time.Duration
	CleanupInterval time.Duration

	CORSAllowedOrigins []string
	ServiceName        string
	OTLPEndpoint       string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	tries, err := getEnvInt("DB_CONNECT_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	loginLimit, err := getEnvInt("LOGIN_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	cleanupMinutes, err := getEnvInt("CLEANUP_INTERVAL_MINUTES", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  port,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: database.Config{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            dbPort,
			User:            getEnv("DB_USER", "projectmatch"),
			Password:        os.Getenv("DB_PASSWORD"),
			Database:        getEnv("DB_NAME", "projectmatch"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		DBConnectTries:     tries,
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          getEnv("JWT_ISSUER", "API team7"),
		RedisURL:           os.Getenv("REDIS_URL"),
		LoginRateLimit:     loginLimit,
		LoginRateWindow:    time.Minute,
		CleanupInterval:    time.Duration(cleanupMinutes) * time.Minute,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ServiceName:        getEnv("SERVICE_NAME", "projectmatch"),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.ServerPort)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid DB_PORT: %d", c.Database.Port)
	}
	if c.Database.Host == "" {
		return errors.New("DB_HOST is required")
	}
	if c.DBConnectTries < 1 {
		return fmt.Errorf("invalid DB_CONNECT_ATTEMPTS: %d", c.DBConnectTries)
	}
	if c.LoginRateLimit < 1 {
		return fmt.Errorf("invalid LOGIN_RATE_LIMIT: %d", c.LoginRateLimit)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("invalid CLEANUP_INTERVAL_MINUTES: %s", c.CleanupInterval)
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
