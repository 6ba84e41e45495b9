package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
)

// RedisKV implements KV on a Redis instance. Every key is namespaced with
// the configured prefix.
type RedisKV struct {
	client redis.UniversalClient
	prefix string
	logger logger.Logger
}

// NewRedisKV connects to cfg.Redis and verifies the connection.
func NewRedisKV(ctx context.Context, cfg RedisConfig, log logger.Logger) (*RedisKV, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	return NewRedisKVFromClient(client, cfg.Prefix, log), nil
}

// NewRedisKVFromClient wraps an existing client.
func NewRedisKVFromClient(client redis.UniversalClient, prefix string, log logger.Logger) *RedisKV {
	if log == nil {
		log = logger.Default()
	}
	return &RedisKV{client: client, prefix: prefix, logger: log}
}

func (r *RedisKV) key(k string) string {
	return r.prefix + k
}

// Get retrieves a value by key.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, nil
}

// Set stores a key-value pair without expiry.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key.
func (r *RedisKV) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

// Apply writes sets and removes in a MULTI/EXEC transaction.
func (r *RedisKV) Apply(ctx context.Context, sets map[string]string, removes []string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range sets {
			pipe.Set(ctx, r.key(k), v, 0)
		}
		if len(removes) > 0 {
			keys := make([]string, len(removes))
			for i, k := range removes {
				keys[i] = r.key(k)
			}
			pipe.Del(ctx, keys...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: apply: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
