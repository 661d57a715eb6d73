// Package config loads service settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the advisor engine.
type Config struct {
	// Core settings
	Port     string
	LogLevel string

	// Persistence. An empty DatabaseURL selects the in-memory store; Redis
	// is only used in front of Postgres.
	DatabaseURL   string
	RedisURL      string
	RedisCacheTTL time.Duration

	// CatalogPath overrides the embedded instrument catalog when set.
	CatalogPath string

	// RecommendationCacheTTL bounds how long a stored user's
	// recommendation run is served from memory.
	RecommendationCacheTTL time.Duration

	// HTTP
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables, loading .env first
// if one exists in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("error loading .env file, relying on OS environment", "err", err)
		}
	}

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisCacheTTL:          getEnvAsDuration("REDIS_CACHE_TTL", 30*time.Second),
		CatalogPath:            getEnv("CATALOG_PATH", ""),
		RecommendationCacheTTL: getEnvAsDuration("RECOMMENDATION_CACHE_TTL", 5*time.Minute),
		RateLimitRPS:           getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:         getEnvAsInt("RATE_LIMIT_BURST", 30),
		RequestTimeout:         getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
// An empty variable counts as unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	slog.Warn("invalid integer in environment, using default", "key", key, "value", valueStr, "default", fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	slog.Warn("invalid number in environment, using default", "key", key, "value", valueStr, "default", fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	slog.Warn("invalid duration in environment, using default", "key", key, "value", valueStr, "default", fallback.String())
	return fallback
}
