package config

import (
	"time"

	"github.com/yndnr/contacts-cli/internal/storage"
	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
)

// CLIConfig is the configuration of contacts-cli.
type CLIConfig struct {
	API     APIConfig      `koanf:"api" yaml:"api" json:"api"`
	Storage storage.Config `koanf:"storage" yaml:"storage" json:"storage"`
	Session SessionConfig  `koanf:"session" yaml:"session" json:"session"`
	Log     logger.Config  `koanf:"log" yaml:"log" json:"log"`

	// Output is the default output format (table, wide, json, yaml).
	Output string `koanf:"output" yaml:"output" json:"output"`
}

// APIConfig configures the remote contacts API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url" yaml:"base_url" json:"base_url"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`

	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string `koanf:"ca_file" yaml:"ca_file,omitempty" json:"ca_file,omitempty"`

	// RateLimit caps outgoing requests per second. 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`
}

// SessionConfig configures the session store.
type SessionConfig struct {
	// ClearUserOnLogout removes the persisted user id along with the token.
	ClearUserOnLogout bool `koanf:"clear_user_on_logout" yaml:"clear_user_on_logout" json:"clear_user_on_logout"`
}

// Keys lists every settable dotted key.
var Keys = []string{
	"api.base_url",
	"api.timeout",
	"api.ca_file",
	"api.rate_limit",
	"storage.engine",
	"storage.dir",
	"storage.secret",
	"storage.badger.sync_writes",
	"storage.redis.addr",
	"storage.redis.password",
	"storage.redis.db",
	"storage.redis.prefix",
	"session.clear_user_on_logout",
	"log.level",
	"log.format",
	"output",
}

// Default returns the default configuration. Paths are rooted at the
// user's home directory.
func Default() *CLIConfig {
	return &CLIConfig{
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 30 * time.Second,
		},
		Storage: storage.DefaultConfig(DefaultSessionDir()),
		Session: SessionConfig{ClearUserOnLogout: true},
		Log:     logger.DefaultConfig(),
		Output:  "table",
	}
}
