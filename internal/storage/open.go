package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
)

// Open builds the backend named by cfg.Engine and wraps it in a SealedKV
// when cfg.Secret is set.
func Open(ctx context.Context, cfg Config, log logger.Logger) (KV, error) {
	if log == nil {
		log = logger.Default()
	}

	var (
		kv  KV
		err error
	)

	switch strings.ToLower(cfg.Engine) {
	case "", EngineBadger:
		kv, err = NewBadgerKV(cfg, log)
	case EngineRedis:
		kv, err = NewRedisKV(ctx, cfg.Redis, log)
	case EngineMemory:
		kv = NewMemoryKV()
	default:
		return nil, fmt.Errorf("storage: unknown engine %q", cfg.Engine)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Secret != "" {
		sealed, err := NewSealedKV(kv, cfg.Secret)
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		kv = sealed
	}

	log.Debug("storage opened", "engine", cfg.Engine, "sealed", cfg.Secret != "")
	return kv, nil
}
