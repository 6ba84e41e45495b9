// Package storage provides Badger-based KV storage implementation.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
)

// BadgerKV implements KV using Badger v3.
type BadgerKV struct {
	db     *badger.DB
	logger logger.Logger
	closed atomic.Bool
}

// NewBadgerKV opens (or creates) the Badger database at cfg.Dir.
func NewBadgerKV(cfg Config, log logger.Logger) (*BadgerKV, error) {
	if cfg.Dir == "" && !cfg.Badger.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.Badger.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: log.With("component", "badger")}
	opts.SyncWrites = cfg.Badger.SyncWrites
	// Two keys live here; keep the footprint of a CLI small.
	opts.NumVersionsToKeep = 1
	opts.ValueLogFileSize = 16 << 20
	opts.MemTableSize = 8 << 20
	opts.BlockCacheSize = 1 << 20
	opts.IndexCacheSize = 0

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	log.Debug("badger storage opened", "dir", cfg.Dir, "in_memory", cfg.Badger.InMemory)

	return &BadgerKV{db: db, logger: log}, nil
}

// Get retrieves a value by key.
func (e *BadgerKV) Get(_ context.Context, key string) (string, error) {
	if e.closed.Load() {
		return "", ErrClosed
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}

	return string(value), nil
}

// Set stores a key-value pair.
func (e *BadgerKV) Set(_ context.Context, key, value string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

// Remove deletes a key.
func (e *BadgerKV) Remove(_ context.Context, key string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Apply writes sets and removes inside one Badger transaction.
func (e *BadgerKV) Apply(_ context.Context, sets map[string]string, removes []string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		for k, v := range sets {
			if err := txn.Set([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		for _, k := range removes {
			if err := txn.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close gracefully shuts down the database.
func (e *BadgerKV) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := e.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}

	e.logger.Debug("badger storage closed")
	return nil
}

// badgerLogger adapts logger.Logger to Badger's Logger interface.
// Badger is chatty at info level; it is demoted to debug.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
