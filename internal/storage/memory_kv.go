package storage

import (
	"context"
	"sync"
)

// MemoryKV is a process-local KV. It is the in-memory fake of the durable
// storage port.
type MemoryKV struct {
	mu     sync.RWMutex
	items  map[string]string
	closed bool
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrClosed
	}
	v, ok := m.items[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items[key] = value
	return nil
}

// Remove deletes key.
func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Apply applies sets and removes under one lock.
func (m *MemoryKV) Apply(_ context.Context, sets map[string]string, removes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	for k, v := range sets {
		m.items[k] = v
	}
	for _, k := range removes {
		delete(m.items, k)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close marks the store closed. Subsequent calls fail with ErrClosed.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
