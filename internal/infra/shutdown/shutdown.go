package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler runs registered cleanup hooks once.
type Handler struct {
	timeout time.Duration

	mu    sync.Mutex
	hooks []func(context.Context) error

	once sync.Once
	err  error
	done chan struct{}
}

// NewHandler creates a handler whose hooks share a deadline of timeout.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a hook. Hooks run in reverse registration order.
func (h *Handler) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Shutdown runs every hook and returns their joined errors. Later calls
// return the first result without running hooks again.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := append([]func(context.Context) error(nil), h.hooks...)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		h.err = errors.Join(errs...)
		close(h.done)
	})
	return h.err
}

// Done is closed once Shutdown has finished.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
