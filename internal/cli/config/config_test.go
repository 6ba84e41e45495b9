package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/storage"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Storage.Engine != storage.EngineBadger {
		t.Errorf("Storage.Engine = %q, want badger", cfg.Storage.Engine)
	}
	if !strings.HasSuffix(cfg.Storage.Dir, filepath.Join(".contacts", "session")) {
		t.Errorf("Storage.Dir = %q", cfg.Storage.Dir)
	}
	if !cfg.Session.ClearUserOnLogout {
		t.Error("Session.ClearUserOnLogout should default to true")
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDefaultPaths(t *testing.T) {
	for name, p := range map[string]string{
		"config":  DefaultConfigPath(),
		"session": DefaultSessionDir(),
		"history": DefaultHistoryPath(),
	} {
		if !strings.Contains(p, ".contacts") {
			t.Errorf("%s path %q not under .contacts", name, p)
		}
	}
	if filepath.Base(DefaultConfigPath()) != "cli.yaml" {
		t.Errorf("DefaultConfigPath() = %q", DefaultConfigPath())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "cli.yaml"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestLoad_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
api:
  base_url: https://api.example.com
  timeout: 10s
storage:
  engine: redis
  redis:
    addr: redis:6379
output: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONTACTS_API_RATE_LIMIT", "2.5")
	t.Setenv("CONTACTS_LOG_LEVEL", "debug")

	cfg, err := Load(path, map[string]any{"output": "yaml"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com" || cfg.API.Timeout != 10*time.Second {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.API.RateLimit != 2.5 {
		t.Errorf("API.RateLimit = %v, want 2.5 from env", cfg.API.RateLimit)
	}
	if cfg.Storage.Engine != storage.EngineRedis || cfg.Storage.Redis.Addr != "redis:6379" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Redis.Prefix != "contacts:session:" {
		t.Errorf("Redis.Prefix default lost: %q", cfg.Storage.Redis.Prefix)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, flag override must win", cfg.Output)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]any
	}{
		{"engine", map[string]any{"storage.engine": "sqlite"}},
		{"output", map[string]any{"output": "xml"}},
		{"base url", map[string]any{"api.base_url": ""}},
		{"rate", map[string]any{"api.rate_limit": -1}},
		{"log format", map[string]any{"log.format": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join(t.TempDir(), "cli.yaml"), tt.override)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("Load() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	cfg := Default()
	cfg.API.BaseURL = "https://contacts.internal"
	cfg.Storage.Secret = "s3cret"
	cfg.Session.ClearUserOnLogout = false
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("mode = %o, want 0600", perm)
	}

	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.API.BaseURL != cfg.API.BaseURL || got.Storage.Secret != "s3cret" {
		t.Errorf("round trip lost values: %+v", got)
	}
	if got.Session.ClearUserOnLogout {
		t.Error("ClearUserOnLogout = true after saving false")
	}
	if got.API.Timeout != cfg.API.Timeout {
		t.Errorf("Timeout = %v, want %v", got.API.Timeout, cfg.API.Timeout)
	}
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")

	cfg, err := Set(path, "api.base_url", "https://example.org/api")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.API.BaseURL != "https://example.org/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}

	if _, err := Set(path, "storage.redis.db", "3"); err != nil {
		t.Fatalf("Set(int) error = %v", err)
	}
	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Storage.Redis.DB != 3 || loaded.API.BaseURL != "https://example.org/api" {
		t.Errorf("persisted config = %+v", loaded)
	}

	if _, err := Set(path, "no.such.key", "x"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("unknown key error = %v", err)
	}
	if _, err := Set(path, "output", "xml"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("invalid value error = %v", err)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Storage.Secret = "s3cret"
	cfg.Storage.Redis.Password = "pw"

	r := cfg.Redacted()
	if r.Storage.Secret == "s3cret" || r.Storage.Redis.Password == "pw" {
		t.Error("secrets not masked")
	}
	if cfg.Storage.Secret != "s3cret" {
		t.Error("Redacted() modified the original")
	}
}
