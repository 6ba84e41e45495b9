package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "CONTACTS_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	optional  bool
	envKeys   map[string]string
	loaded    bool
}

// Option configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path. When optional is true
// a missing file is not an error.
func WithConfigFile(path string, optional bool) Option {
	return func(l *Loader) {
		l.filePath = path
		l.optional = optional
	}
}

// WithEnvKeys declares the dotted keys that environment variables map to.
// Keys may contain underscores: "api.base_url" is read from
// CONTACTS_API_BASE_URL. Variables that match no declared key fall back to
// replacing every underscore with a dot.
func WithEnvKeys(keys ...string) Option {
	return func(l *Loader) {
		for _, k := range keys {
			l.envKeys[strings.ReplaceAll(k, ".", "_")] = k
		}
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		envKeys:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file and the environment, then unmarshals into target.
// Fields of target that no source sets keep their current value, so
// callers pass a struct pre-filled with defaults.
func (l *Loader) Load(target any) error {
	if err := l.LoadFile(l.filePath); err != nil {
		return err
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	l.loaded = true
	return nil
}

// LoadFile merges a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if l.optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadEnv merges environment variables carrying the prefix.
// CONTACTS_LOG_LEVEL=debug sets log.level.
func (l *Loader) LoadEnv() error {
	provider := env.Provider(l.envPrefix, ".", l.envKey)
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func (l *Loader) envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	if k, ok := l.envKeys[s]; ok {
		return k
	}
	return strings.ReplaceAll(s, "_", ".")
}

// LoadMap merges flat dotted keys, typically from command-line flags.
func (l *Loader) LoadMap(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal decodes the merged configuration into target using koanf tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// GetString returns a string value by dotted key.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// Exists reports whether any source set key.
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// IsLoaded reports whether Load completed.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}

// All returns the merged configuration as a flat map.
func (l *Loader) All() map[string]any {
	return l.k.All()
}

// Keys returns all set keys.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}
