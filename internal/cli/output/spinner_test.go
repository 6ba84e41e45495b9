package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_Animated(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Logging in", true)
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Success("logged in")

	out := buf.String()
	if !strings.Contains(out, "Logging in") {
		t.Errorf("message missing: %q", out)
	}
	if !strings.HasSuffix(out, "✓ logged in\n") {
		t.Errorf("success line missing: %q", out)
	}
}

func TestSpinner_Static(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Logging in", false)
	s.Start()
	s.Fail("rejected")

	if got := buf.String(); got != "Logging in...\n✗ rejected\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "x", true)
	s.Start()
	s.Stop()
	s.Stop()
	s.Fail("ignored")

	if strings.Contains(buf.String(), "ignored") {
		t.Error("only the first stop may write")
	}
}
