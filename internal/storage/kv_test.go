package storage

import (
	"context"
	"errors"
	"testing"
)

// runKVConformance exercises the KV contract against any backend.
func runKVConformance(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get missing key", func(t *testing.T) {
		if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("Set and Get", func(t *testing.T) {
		if err := kv.Set(ctx, "token", "T1"); err != nil {
			t.Fatal(err)
		}
		got, err := kv.Get(ctx, "token")
		if err != nil {
			t.Fatal(err)
		}
		if got != "T1" {
			t.Errorf("Get(token) = %q, want T1", got)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		if err := kv.Set(ctx, "token", "T2"); err != nil {
			t.Fatal(err)
		}
		got, _ := kv.Get(ctx, "token")
		if got != "T2" {
			t.Errorf("Get(token) = %q, want T2", got)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := kv.Remove(ctx, "token"); err != nil {
			t.Fatal(err)
		}
		if _, err := kv.Get(ctx, "token"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get after Remove error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("Remove missing key", func(t *testing.T) {
		if err := kv.Remove(ctx, "never-set"); err != nil {
			t.Errorf("Remove(never-set) = %v, want nil", err)
		}
	})

	t.Run("Apply", func(t *testing.T) {
		if err := kv.Set(ctx, "stale", "x"); err != nil {
			t.Fatal(err)
		}
		err := Apply(ctx, kv, map[string]string{"token": "T3", "userId": "U3"}, []string{"stale"})
		if err != nil {
			t.Fatal(err)
		}
		for k, want := range map[string]string{"token": "T3", "userId": "U3"} {
			if got, _ := kv.Get(ctx, k); got != want {
				t.Errorf("Get(%q) = %q, want %q", k, got, want)
			}
		}
		if _, err := kv.Get(ctx, "stale"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("stale key should be removed, got %v", err)
		}
	})
}

func TestMemoryKV_Conformance(t *testing.T) {
	kv := NewMemoryKV()
	defer kv.Close()
	runKVConformance(t, kv)
}

func TestMemoryKV_Closed(t *testing.T) {
	kv := NewMemoryKV()
	kv.Close()

	if _, err := kv.Get(context.Background(), "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after close = %v, want ErrClosed", err)
	}
}

// plainKV hides the Batcher implementation of MemoryKV.
type plainKV struct{ KV }

func TestApply_FallbackWithoutBatcher(t *testing.T) {
	mem := NewMemoryKV()
	kv := plainKV{mem}
	if _, ok := KV(kv).(Batcher); ok {
		t.Fatal("plainKV must not implement Batcher")
	}
	runKVConformance(t, kv)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		kv, err := Open(ctx, Config{Engine: EngineMemory}, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer kv.Close()
		if _, ok := kv.(*MemoryKV); !ok {
			t.Errorf("Open(memory) = %T, want *MemoryKV", kv)
		}
	})

	t.Run("badger default", func(t *testing.T) {
		cfg := DefaultConfig(t.TempDir())
		cfg.Engine = ""
		kv, err := Open(ctx, cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer kv.Close()
		if _, ok := kv.(*BadgerKV); !ok {
			t.Errorf("Open(\"\") = %T, want *BadgerKV", kv)
		}
	})

	t.Run("sealed", func(t *testing.T) {
		kv, err := Open(ctx, Config{Engine: EngineMemory, Secret: "s3cret"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer kv.Close()
		if _, ok := kv.(*SealedKV); !ok {
			t.Errorf("Open(secret) = %T, want *SealedKV", kv)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		if _, err := Open(ctx, Config{Engine: "etcd"}, nil); err == nil {
			t.Error("expected error for unknown engine")
		}
	})
}
