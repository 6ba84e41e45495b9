package shutdown

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestHandler_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)
	var order []int
	for i := 1; i <= 3; i++ {
		h.OnShutdown(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("order = %v, want [3 2 1]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Shutdown")
	}
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("close storage")
	errB := errors.New("stop watcher")
	h.OnShutdown(func(context.Context) error { return errA })
	h.OnShutdown(func(context.Context) error { return nil })
	h.OnShutdown(func(context.Context) error { return errB })

	err := h.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() error = %v, want both hook errors", err)
	}
}

func TestHandler_RunsOnce(t *testing.T) {
	h := NewHandler(time.Second)
	calls := 0
	h.OnShutdown(func(context.Context) error {
		calls++
		return nil
	})

	_ = h.Shutdown()
	_ = h.Shutdown()
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(10 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := h.Shutdown(); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want deadline exceeded", err)
	}
}

func TestWithSignals(t *testing.T) {
	ctx, stop := WithSignals(context.Background())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}
