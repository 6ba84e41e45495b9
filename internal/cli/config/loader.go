package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/infra/confloader"
	"github.com/yndnr/contacts-cli/internal/storage"
)

// HomeDir returns ~/.contacts.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".contacts"
	}
	return filepath.Join(home, ".contacts")
}

// DefaultConfigPath returns ~/.contacts/cli.yaml.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), "cli.yaml")
}

// DefaultSessionDir returns ~/.contacts/session.
func DefaultSessionDir() string {
	return filepath.Join(HomeDir(), "session")
}

// DefaultHistoryPath returns ~/.contacts/history.
func DefaultHistoryPath() string {
	return filepath.Join(HomeDir(), "history")
}

// Load layers the file at path (optional), CONTACTS_* environment
// variables and overrides (dotted keys, usually from flags) over Default.
// An empty path means DefaultConfigPath.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	l := confloader.NewLoader(
		confloader.WithConfigFile(path, true),
		confloader.WithEnvKeys(Keys...),
	)
	if err := l.LoadFile(path); err != nil {
		return nil, err
	}
	if err := l.LoadEnv(); err != nil {
		return nil, err
	}
	if err := l.LoadMap(overrides); err != nil {
		return nil, err
	}
	if err := l.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *CLIConfig) Validate() error {
	if c.API.BaseURL == "" {
		return domain.ErrInvalidArgument.WithDetails("api.base_url is empty")
	}
	if c.API.RateLimit < 0 {
		return domain.ErrInvalidArgument.WithDetails("api.rate_limit must not be negative")
	}
	switch c.Storage.Engine {
	case storage.EngineBadger, storage.EngineRedis, storage.EngineMemory:
	default:
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown storage.engine %q", c.Storage.Engine))
	}
	if _, err := output.ParseFormat(c.Output); err != nil {
		return domain.ErrInvalidArgument.WithDetails(err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown log.format %q", c.Log.Format))
	}
	return nil
}

// Save writes cfg as YAML to path with mode 0600. An empty path means
// DefaultConfigPath.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Set loads the file at path, sets one dotted key and saves it back.
// Only keys listed in Keys are accepted. The value is validated by
// decoding the result.
func Set(path, key, value string) (*CLIConfig, error) {
	if !slices.Contains(Keys, key) {
		return nil, domain.ErrInvalidArgument.WithDetails("unknown config key " + key)
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	l := confloader.NewLoader(confloader.WithConfigFile(path, true))
	if err := l.LoadFile(path); err != nil {
		return nil, err
	}
	if err := l.LoadMap(map[string]any{key: value}); err != nil {
		return nil, err
	}
	if err := l.Unmarshal(cfg); err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails(key).WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := Save(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Redacted returns a copy safe to print: secrets are masked.
func (c *CLIConfig) Redacted() *CLIConfig {
	out := *c
	if out.Storage.Secret != "" {
		out.Storage.Secret = "********"
	}
	if out.Storage.Redis.Password != "" {
		out.Storage.Redis.Password = "********"
	}
	return &out
}
