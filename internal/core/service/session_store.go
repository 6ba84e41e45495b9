// Package service provides the session and navigation services of contacts-cli.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/storage"
	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
	"github.com/yndnr/contacts-cli/internal/telemetry/metric"
)

// Authenticator is the remote API port used to exchange credentials for a
// session token.
type Authenticator interface {
	// Authenticate returns ErrAuthFailed when the credentials are rejected
	// and ErrAuthUnavailable when the API cannot be reached.
	Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
}

// LoginOutcome is the result of a successful login.
type LoginOutcome struct {
	Session domain.Session
	// Next is where the caller should navigate: the contact list of the user.
	Next domain.Location
}

// LogoutOutcome is the result of a logout.
type LogoutOutcome struct {
	// WasAuthenticated reports whether a session existed before the call.
	WasAuthenticated bool
	// Next is where the caller should navigate: the login view.
	Next domain.Location
}

// SessionStore owns the current session and keeps it consistent with
// durable storage.
//
// One store exists per process. Reads are safe from any goroutine; Login
// and Logout run one at a time.
type SessionStore struct {
	kv      storage.KV
	auth    Authenticator
	logger  logger.Logger
	metrics *metric.Registry

	clearUserOnLogout bool

	cycle    sync.Mutex // one login/logout cycle at a time
	inflight atomic.Bool

	mu      sync.RWMutex
	session domain.Session
}

// SessionStoreOption configures a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionLogger sets the logger.
func WithSessionLogger(l logger.Logger) SessionStoreOption {
	return func(s *SessionStore) {
		s.logger = l
	}
}

// WithSessionMetrics records login and logout counters into reg.
func WithSessionMetrics(reg *metric.Registry) SessionStoreOption {
	return func(s *SessionStore) {
		s.metrics = reg
	}
}

// WithClearUserOnLogout controls whether Logout also removes the persisted
// user id. Default: true.
func WithClearUserOnLogout(clear bool) SessionStoreOption {
	return func(s *SessionStore) {
		s.clearUserOnLogout = clear
	}
}

// NewSessionStore creates a logged-out store. Call Restore to load the
// persisted session.
func NewSessionStore(kv storage.KV, auth Authenticator, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		kv:                kv,
		auth:              auth,
		logger:            logger.Default(),
		clearUserOnLogout: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	return s
}

// Restore loads the persisted session. Absent keys mean logged out; read
// failures are logged and also treated as logged out.
func (s *SessionStore) Restore(ctx context.Context) domain.Session {
	s.cycle.Lock()
	defer s.cycle.Unlock()

	token := s.read(ctx, domain.KeyToken)
	var restored domain.Session
	if token != "" {
		restored = domain.Session{Token: token, UserID: s.read(ctx, domain.KeyUserID)}
	}

	s.swap(restored)
	s.logger.Debug("session restored", "authenticated", restored.Authenticated(), "user_id", restored.UserID)
	return restored
}

func (s *SessionStore) read(ctx context.Context, key string) string {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("session storage read failed, treating as logged out", "key", key, "error", err)
		}
		return ""
	}
	return v
}

// Login authenticates creds against the remote API, then updates memory,
// then persists both keys. On success the outcome names the contact list
// of the user as the next location.
//
// Authentication failures leave the session untouched and write nothing.
// A persistence failure rolls memory back to the previous session and
// returns ErrPersistFailed with no navigation target. A call made while
// another Login is pending fails with ErrLoginInProgress.
func (s *SessionStore) Login(ctx context.Context, creds domain.Credentials) (*LoginOutcome, error) {
	if err := creds.Validate(); err != nil {
		s.metrics.ObserveLogin(metric.LoginInvalid)
		return nil, err
	}

	if !s.inflight.CompareAndSwap(false, true) {
		s.metrics.ObserveLogin(metric.LoginInProgress)
		return nil, domain.ErrLoginInProgress
	}
	defer s.inflight.Store(false)

	s.cycle.Lock()
	defer s.cycle.Unlock()

	log := s.logger.With("user", creds.User)
	ctx = logger.NewContext(ctx, log)

	// 1. Authenticate
	res, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		outcome := metric.LoginRejected
		if errors.Is(err, domain.ErrAuthUnavailable) {
			outcome = metric.LoginUnavailable
		}
		s.metrics.ObserveLogin(outcome)
		log.Info("login failed", "error", err)
		return nil, err
	}
	if res == nil || res.Token == "" {
		s.metrics.ObserveLogin(metric.LoginRejected)
		return nil, domain.ErrAuthFailed.WithDetails("response carried no token")
	}
	next := res.Session()

	// 2. Update memory
	prev := s.swap(next)

	// 3. Persist
	sets := map[string]string{domain.KeyToken: next.Token}
	var removes []string
	if next.UserID != "" {
		sets[domain.KeyUserID] = next.UserID
	} else {
		removes = append(removes, domain.KeyUserID)
	}
	if err := storage.Apply(ctx, s.kv, sets, removes); err != nil {
		s.swap(prev)
		s.rewrite(ctx, prev)
		s.metrics.ObserveLogin(metric.LoginPersistFailed)
		log.Error("session persistence failed, login aborted", "error", err)
		return nil, domain.ErrPersistFailed.WithCause(err)
	}

	s.metrics.ObserveLogin(metric.LoginSuccess)
	log.Info("login succeeded", "user_id", next.UserID)

	// 4. Navigation target for the caller
	return &LoginOutcome{
		Session: next,
		Next:    domain.ContactsLocation(next.UserID),
	}, nil
}

// rewrite makes a best-effort attempt to put sess back into storage after
// a partial write.
func (s *SessionStore) rewrite(ctx context.Context, sess domain.Session) {
	var err error
	if sess.Authenticated() {
		err = storage.Apply(ctx, s.kv, map[string]string{
			domain.KeyToken:  sess.Token,
			domain.KeyUserID: sess.UserID,
		}, nil)
	} else {
		err = storage.Apply(ctx, s.kv, nil, []string{domain.KeyToken, domain.KeyUserID})
	}
	if err != nil {
		s.logger.Warn("could not restore previous session in storage", "error", err)
	}
}

// Logout clears the session in memory and in storage. It is idempotent.
//
// Memory is always cleared and the outcome always names the login view;
// a storage failure is additionally returned as ErrStorage.
func (s *SessionStore) Logout(ctx context.Context) (*LogoutOutcome, error) {
	s.cycle.Lock()
	defer s.cycle.Unlock()

	prev := s.swap(domain.Session{})

	removes := []string{domain.KeyToken}
	if s.clearUserOnLogout {
		removes = append(removes, domain.KeyUserID)
	}
	err := storage.Apply(ctx, s.kv, nil, removes)

	s.metrics.IncLogout()
	out := &LogoutOutcome{
		WasAuthenticated: prev.Authenticated(),
		Next:             domain.LoginLocation(),
	}
	if err != nil {
		s.logger.Error("session storage cleanup failed", "error", err)
		return out, domain.ErrStorage.WithCause(err)
	}

	s.logger.Debug("logged out", "was_authenticated", prev.Authenticated())
	return out, nil
}

// swap replaces the in-memory session and returns the previous one.
func (s *SessionStore) swap(next domain.Session) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.session
	s.session = next
	return prev
}

// Session returns a copy of the current session.
func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the current token, or "" when logged out.
func (s *SessionStore) Token() string {
	return s.Session().Token
}

// Authenticated reports whether a token is held.
func (s *SessionStore) Authenticated() bool {
	return s.Session().Authenticated()
}

// LoginPending reports whether a Login call is in flight.
func (s *SessionStore) LoginPending() bool {
	return s.inflight.Load()
}
