package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE", "")
	t.Setenv("LOCK_TIMEOUT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	if cfg.Store != StorePostgres {
		t.Fatalf("expected postgres store, got %s", cfg.Store)
	}
	if cfg.LockTimeout != 5*time.Second {
		t.Fatalf("expected 5s lock timeout, got %v", cfg.LockTimeout)
	}
	if cfg.CORSOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE", StoreMemory)
	t.Setenv("LOCK_TIMEOUT", "250ms")
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("DEFAULT_AVG_SERVICE_MINUTES", "20")
	t.Setenv("VALIDATE_EMAIL_DOMAIN", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SERVER_PORT", "9090")

	cfg := Load()
	if cfg.Store != StoreMemory {
		t.Fatalf("expected memory store, got %s", cfg.Store)
	}
	if cfg.LockTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", cfg.LockTimeout)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default TTL on bad input, got %v", cfg.TokenTTL)
	}
	if cfg.DefaultAvgServiceMinutes != 20 {
		t.Fatalf("expected 20, got %d", cfg.DefaultAvgServiceMinutes)
	}
	if !cfg.ValidateEmailDomain {
		t.Fatalf("expected domain validation enabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("expected 2 trimmed origins, got %v", cfg.CORSOrigins)
	}
	if cfg.Addr() != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.Addr())
	}
}
