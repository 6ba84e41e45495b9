// Package storage provides the durable key/value port used by the session store.
package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("storage: key not found")
	ErrClosed      = errors.New("storage: closed")
)

// KV is the narrow durable storage port.
//
// Implementations must be safe for concurrent use and must survive process
// restarts (MemoryKV excepted).
type KV interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Batcher is implemented by backends that can apply several writes
// atomically.
type Batcher interface {
	// Apply stores every entry of sets and deletes every key of removes
	// in a single atomic step.
	Apply(ctx context.Context, sets map[string]string, removes []string) error
}

// Apply writes sets and removes through kv, atomically when kv is a Batcher
// and key by key otherwise. In the fallback path the first error stops the
// sequence.
func Apply(ctx context.Context, kv KV, sets map[string]string, removes []string) error {
	if b, ok := kv.(Batcher); ok {
		return b.Apply(ctx, sets, removes)
	}

	for k, v := range sets {
		if err := kv.Set(ctx, k, v); err != nil {
			return err
		}
	}
	for _, k := range removes {
		if err := kv.Remove(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Engine names accepted by Config.Engine.
const (
	EngineBadger = "badger"
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

// Config configures the durable storage backend.
type Config struct {
	// Engine is one of "badger", "redis", "memory".
	// Default: "badger"
	Engine string `koanf:"engine" yaml:"engine" json:"engine"`

	// Dir is the Badger data directory.
	Dir string `koanf:"dir" yaml:"dir" json:"dir"`

	// Secret enables at-rest encryption of stored values when non-empty.
	Secret string `koanf:"secret" yaml:"secret,omitempty" json:"secret,omitempty"`

	Badger BadgerConfig `koanf:"badger" yaml:"badger" json:"badger"`
	Redis  RedisConfig  `koanf:"redis" yaml:"redis" json:"redis"`
}

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	// SyncWrites fsyncs after each write.
	// Default: true (a session write must survive a crash right after login)
	SyncWrites bool `koanf:"sync_writes" yaml:"sync_writes" json:"sync_writes"`

	// InMemory runs Badger without touching disk. Used by tests.
	InMemory bool `koanf:"in_memory" yaml:"in_memory,omitempty" json:"in_memory,omitempty"`
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr" json:"addr"`
	Password string `koanf:"password" yaml:"password,omitempty" json:"password,omitempty"`
	DB       int    `koanf:"db" yaml:"db" json:"db"`

	// Prefix namespaces the session keys.
	// Default: "contacts:session:"
	Prefix string `koanf:"prefix" yaml:"prefix" json:"prefix"`
}

// DefaultConfig returns the default storage configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Engine: EngineBadger,
		Dir:    dir,
		Badger: BadgerConfig{SyncWrites: true},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "contacts:session:",
		},
	}
}
