package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "DATABASE_URL", "REDIS_CACHE_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" || cfg.LogLevel != "info" {
		t.Errorf("expected 8080/info, got %q/%q", cfg.Port, cfg.LogLevel)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected no database, got %q", cfg.DatabaseURL)
	}
	if cfg.RedisCacheTTL != 30*time.Second {
		t.Errorf("expected 30s redis TTL, got %s", cfg.RedisCacheTTL)
	}
	if cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 30 {
		t.Errorf("expected 10 rps / burst 30, got %v / %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.RecommendationCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m recommendation TTL, got %s", cfg.RecommendationCacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_CACHE_TTL", "2m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("CATALOG_PATH", "/etc/advisor/instruments.yaml")

	cfg := Load()
	if cfg.Port != "9090" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected core settings %+v", cfg)
	}
	if cfg.RedisCacheTTL != 2*time.Minute {
		t.Errorf("expected 2m, got %s", cfg.RedisCacheTTL)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 7 {
		t.Errorf("expected 2.5 / 7, got %v / %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.CatalogPath != "/etc/advisor/instruments.yaml" {
		t.Errorf("unexpected catalog path %q", cfg.CatalogPath)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_BURST", "lots")

	cfg := Load()
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected fallback 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.RateLimitBurst != 30 {
		t.Errorf("expected fallback 30, got %d", cfg.RateLimitBurst)
	}
}
