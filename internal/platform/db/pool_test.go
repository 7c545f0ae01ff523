package db

import (
	"testing"
	"time"
)

func TestPoolConfig_Parse_Defaults(t *testing.T) {
	cfg, err := PoolConfig{URL: "postgres://localhost:5432/rounds"}.parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxConnLifetime != defaultMaxConnLifetime {
		t.Errorf("expected default lifetime %v, got %v", defaultMaxConnLifetime, cfg.MaxConnLifetime)
	}
	if cfg.MaxConnIdleTime != defaultMaxConnIdleTime {
		t.Errorf("expected default idle time %v, got %v", defaultMaxConnIdleTime, cfg.MaxConnIdleTime)
	}
	if cfg.HealthCheckPeriod != defaultHealthCheckPeriod {
		t.Errorf("expected default health check period %v, got %v", defaultHealthCheckPeriod, cfg.HealthCheckPeriod)
	}
}

func TestPoolConfig_Parse_Overrides(t *testing.T) {
	cfg, err := PoolConfig{
		URL:             "postgres://localhost:5432/rounds",
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
	}.parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxConns != 10 || cfg.MinConns != 2 {
		t.Errorf("expected pool size 2..10, got %d..%d", cfg.MinConns, cfg.MaxConns)
	}
	if cfg.MaxConnLifetime != time.Hour {
		t.Errorf("expected lifetime override, got %v", cfg.MaxConnLifetime)
	}
}

func TestPoolConfig_Parse_InvalidURL(t *testing.T) {
	if _, err := (PoolConfig{URL: "://not-a-url"}).parse(); err == nil {
		t.Error("expected error for malformed url")
	}
}
