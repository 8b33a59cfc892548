package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" {
		t.Fatalf("backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Fatalf("ttl = %v, want 24h", cfg.Cache.TTL)
	}
	if cfg.Prediction.MinHistory != 30 || cfg.Prediction.MinIntraday != 10 {
		t.Fatalf("prediction limits = %d/%d", cfg.Prediction.MinHistory, cfg.Prediction.MinIntraday)
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	path := writeConfig(t, "environment: test\ncache:\n  backend: memcached\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadMissingEnvironment(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing environment")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	t.Setenv("PORT", "9100")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.local:6380")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "redis" {
		t.Fatalf("backend = %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Host != "redis.local" || cfg.Cache.Redis.Port != 6380 {
		t.Fatalf("redis addr = %s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port)
	}
}
