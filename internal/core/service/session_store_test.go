package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/storage"
	"github.com/yndnr/contacts-cli/internal/telemetry/metric"
)

// mockAuthenticator is a scripted Authenticator.
type mockAuthenticator struct {
	mu     sync.Mutex
	result *domain.AuthResult
	err    error
	calls  int

	// block, when set, holds Authenticate until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	m.mu.Lock()
	m.calls++
	block, entered := m.block, m.entered
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.result, m.err
}

// recordingKV wraps MemoryKV, counting writes and optionally failing them.
type recordingKV struct {
	*storage.MemoryKV
	mu       sync.Mutex
	writes   int
	failSets bool
	failRems bool
}

func newRecordingKV() *recordingKV {
	return &recordingKV{MemoryKV: storage.NewMemoryKV()}
}

var errDiskFull = errors.New("disk full")

func (r *recordingKV) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.writes++
	fail := r.failSets
	r.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return r.MemoryKV.Set(ctx, key, value)
}

func (r *recordingKV) Remove(ctx context.Context, key string) error {
	r.mu.Lock()
	r.writes++
	fail := r.failRems
	r.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return r.MemoryKV.Remove(ctx, key)
}

func (r *recordingKV) Apply(ctx context.Context, sets map[string]string, removes []string) error {
	for k, v := range sets {
		if err := r.Set(ctx, k, v); err != nil {
			return err
		}
	}
	for _, k := range removes {
		if err := r.Remove(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingKV) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func mustGet(t *testing.T, kv storage.KV, key string) string {
	t.Helper()
	v, err := kv.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	return v
}

func assertAbsent(t *testing.T, kv storage.KV, key string) {
	t.Helper()
	if _, err := kv.Get(context.Background(), key); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Get(%q) error = %v, want ErrKeyNotFound", key, err)
	}
}

func TestSessionStore_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty storage is logged out", func(t *testing.T) {
		s := NewSessionStore(storage.NewMemoryKV(), &mockAuthenticator{})
		sess := s.Restore(ctx)
		if sess.Authenticated() || s.Authenticated() {
			t.Error("expected logged out")
		}
		if s.Token() != "" {
			t.Errorf("Token() = %q, want empty", s.Token())
		}
	})

	t.Run("persisted session is restored", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		_ = kv.Set(ctx, domain.KeyToken, "T0")
		_ = kv.Set(ctx, domain.KeyUserID, "U0")

		s := NewSessionStore(kv, &mockAuthenticator{})
		s.Restore(ctx)

		if got := s.Session(); got.Token != "T0" || got.UserID != "U0" {
			t.Errorf("Session() = %+v, want T0/U0", got)
		}
	})

	t.Run("user id without token is logged out", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		_ = kv.Set(ctx, domain.KeyUserID, "U0")

		s := NewSessionStore(kv, &mockAuthenticator{})
		if sess := s.Restore(ctx); !sess.IsZero() {
			t.Errorf("Restore() = %+v, want zero session", sess)
		}
	})

	t.Run("closed storage is logged out", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		_ = kv.Set(ctx, domain.KeyToken, "T0")
		_ = kv.Close()

		s := NewSessionStore(kv, &mockAuthenticator{})
		if s.Restore(ctx).Authenticated() {
			t.Error("expected logged out when storage is unreadable")
		}
	})
}

func TestSessionStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists and names contact list", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		reg := metric.NewRegistry()
		auth := &mockAuthenticator{result: &domain.AuthResult{Token: "T1", User: "U1"}}
		s := NewSessionStore(kv, auth, WithSessionMetrics(reg))

		out, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "pw"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if got := s.Session(); got.Token != "T1" || got.UserID != "U1" {
			t.Errorf("Session() = %+v, want T1/U1", got)
		}
		if got := mustGet(t, kv, domain.KeyToken); got != "T1" {
			t.Errorf("persisted token = %q, want T1", got)
		}
		if got := mustGet(t, kv, domain.KeyUserID); got != "U1" {
			t.Errorf("persisted userId = %q, want U1", got)
		}
		if got := out.Next.String(); got != "/contacts?usuarioId=U1" {
			t.Errorf("Next = %q, want /contacts?usuarioId=U1", got)
		}

		var buf strings.Builder
		if err := reg.WriteText(&buf); err != nil {
			t.Fatalf("WriteText failed: %v", err)
		}
		if !strings.Contains(buf.String(), `contacts_session_login_attempts_total{outcome="success"} 1`) {
			t.Errorf("success not counted:\n%s", buf.String())
		}
	})

	t.Run("rejected credentials write nothing", func(t *testing.T) {
		kv := newRecordingKV()
		auth := &mockAuthenticator{err: domain.ErrAuthFailed}
		s := NewSessionStore(kv, auth)

		out, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "wrong"})
		if !errors.Is(err, domain.ErrAuthFailed) {
			t.Fatalf("Login error = %v, want ErrAuthFailed", err)
		}
		if out != nil {
			t.Errorf("outcome = %+v, want nil", out)
		}
		if s.Authenticated() {
			t.Error("session must stay logged out")
		}
		if n := kv.writeCount(); n != 0 {
			t.Errorf("storage writes = %d, want 0", n)
		}
	})

	t.Run("rejection keeps previous session", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		_ = kv.Set(ctx, domain.KeyToken, "T0")
		_ = kv.Set(ctx, domain.KeyUserID, "U0")
		s := NewSessionStore(kv, &mockAuthenticator{err: domain.ErrAuthFailed})
		s.Restore(ctx)

		if _, err := s.Login(ctx, domain.Credentials{User: "bob", Password: "x"}); err == nil {
			t.Fatal("expected error")
		}
		if got := s.Session(); got.Token != "T0" || got.UserID != "U0" {
			t.Errorf("Session() = %+v, want T0/U0", got)
		}
	})

	t.Run("unavailable api", func(t *testing.T) {
		s := NewSessionStore(storage.NewMemoryKV(), &mockAuthenticator{
			err: domain.ErrAuthUnavailable.WithCause(errors.New("connection refused")),
		})
		_, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "pw"})
		if !errors.Is(err, domain.ErrAuthUnavailable) {
			t.Errorf("Login error = %v, want ErrAuthUnavailable", err)
		}
	})

	t.Run("missing password is rejected before the api", func(t *testing.T) {
		auth := &mockAuthenticator{}
		s := NewSessionStore(storage.NewMemoryKV(), auth)
		_, err := s.Login(ctx, domain.Credentials{User: "alice"})
		if !errors.Is(err, domain.ErrMissingArgument) {
			t.Errorf("Login error = %v, want ErrMissingArgument", err)
		}
		if auth.calls != 0 {
			t.Errorf("Authenticate calls = %d, want 0", auth.calls)
		}
	})

	t.Run("empty token is a rejection", func(t *testing.T) {
		s := NewSessionStore(storage.NewMemoryKV(), &mockAuthenticator{result: &domain.AuthResult{User: "U1"}})
		_, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "pw"})
		if !errors.Is(err, domain.ErrAuthFailed) {
			t.Errorf("Login error = %v, want ErrAuthFailed", err)
		}
		if s.Authenticated() {
			t.Error("session must stay logged out")
		}
	})

	t.Run("persist failure rolls back", func(t *testing.T) {
		kv := newRecordingKV()
		kv.failSets = true
		s := NewSessionStore(kv, &mockAuthenticator{result: &domain.AuthResult{Token: "T1", User: "U1"}})

		out, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "pw"})
		if !errors.Is(err, domain.ErrPersistFailed) {
			t.Fatalf("Login error = %v, want ErrPersistFailed", err)
		}
		if !errors.Is(err, errDiskFull) {
			t.Errorf("cause not preserved: %v", err)
		}
		if out != nil {
			t.Errorf("outcome = %+v, want nil (no navigation)", out)
		}
		if s.Authenticated() {
			t.Error("memory must be rolled back")
		}
		assertAbsent(t, kv, domain.KeyToken)
		assertAbsent(t, kv, domain.KeyUserID)
	})
}

func TestSessionStore_LoginInProgress(t *testing.T) {
	ctx := context.Background()
	auth := &mockAuthenticator{
		result:  &domain.AuthResult{Token: "T1", User: "U1"},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	s := NewSessionStore(storage.NewMemoryKV(), auth)

	done := make(chan error, 1)
	go func() {
		_, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "pw"})
		done <- err
	}()

	select {
	case <-auth.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first login never reached the api")
	}
	if !s.LoginPending() {
		t.Error("LoginPending() = false during authentication")
	}

	_, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "pw"})
	if !errors.Is(err, domain.ErrLoginInProgress) {
		t.Errorf("second Login error = %v, want ErrLoginInProgress", err)
	}

	close(auth.block)
	if err := <-done; err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	if auth.calls != 1 {
		t.Errorf("Authenticate calls = %d, want 1", auth.calls)
	}
	if s.LoginPending() {
		t.Error("LoginPending() = true after completion")
	}
}

func TestSessionStore_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears memory and storage", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		s := NewSessionStore(kv, &mockAuthenticator{result: &domain.AuthResult{Token: "T1", User: "U1"}})
		if _, err := s.Login(ctx, domain.Credentials{User: "alice", Password: "pw"}); err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		out, err := s.Logout(ctx)
		if err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if !out.WasAuthenticated {
			t.Error("WasAuthenticated = false")
		}
		if out.Next.String() != "/login" {
			t.Errorf("Next = %q, want /login", out.Next.String())
		}
		if s.Authenticated() {
			t.Error("still authenticated")
		}
		assertAbsent(t, kv, domain.KeyToken)
		assertAbsent(t, kv, domain.KeyUserID)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := NewSessionStore(storage.NewMemoryKV(), &mockAuthenticator{})
		for i := 0; i < 2; i++ {
			out, err := s.Logout(ctx)
			if err != nil {
				t.Fatalf("Logout #%d failed: %v", i+1, err)
			}
			if out.WasAuthenticated {
				t.Errorf("Logout #%d: WasAuthenticated = true", i+1)
			}
		}
	})

	t.Run("keep user id", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		_ = kv.Set(ctx, domain.KeyToken, "T0")
		_ = kv.Set(ctx, domain.KeyUserID, "U0")
		s := NewSessionStore(kv, &mockAuthenticator{}, WithClearUserOnLogout(false))
		s.Restore(ctx)

		if _, err := s.Logout(ctx); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		assertAbsent(t, kv, domain.KeyToken)
		if got := mustGet(t, kv, domain.KeyUserID); got != "U0" {
			t.Errorf("userId = %q, want U0 kept", got)
		}
	})

	t.Run("storage failure still clears memory", func(t *testing.T) {
		kv := newRecordingKV()
		_ = kv.MemoryKV.Set(ctx, domain.KeyToken, "T0")
		kv.failRems = true
		s := NewSessionStore(kv, &mockAuthenticator{})
		s.Restore(ctx)

		out, err := s.Logout(ctx)
		if !errors.Is(err, domain.ErrStorage) {
			t.Errorf("Logout error = %v, want ErrStorage", err)
		}
		if out == nil || out.Next.Path != domain.PathLogin {
			t.Errorf("outcome = %+v, want Next /login", out)
		}
		if s.Authenticated() {
			t.Error("memory must be cleared")
		}
	})
}

func TestSessionStore_RestoreAfterLogin(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	first := NewSessionStore(kv, &mockAuthenticator{result: &domain.AuthResult{Token: "T1", User: "U1"}})
	if _, err := first.Login(ctx, domain.Credentials{User: "alice", Password: "pw"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	second := NewSessionStore(kv, &mockAuthenticator{})
	if got := second.Restore(ctx); got.Token != "T1" || got.UserID != "U1" {
		t.Errorf("Restore() = %+v, want T1/U1", got)
	}
}
