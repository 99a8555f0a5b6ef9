package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	def := Default()
	if cfg.Addr != def.Addr || cfg.SocketURL != def.SocketURL || cfg.HistoryLimit != def.HistoryLimit {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\nrate_limit: 5\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HAIKU_RATE_LIMIT", "7")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("addr = %q, want :9000", cfg.Addr)
	}
	if cfg.RateLimit != 7 {
		t.Fatalf("rate_limit = %d, want 7 from env", cfg.RateLimit)
	}
}

func TestUpdateFromKeepsZeroValues(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":1234", DialTimeout: time.Second})

	if cfg.Addr != ":1234" || cfg.DialTimeout != time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SocketURL != Default().SocketURL {
		t.Fatalf("zero override replaced socket url: %q", cfg.SocketURL)
	}
}
