package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner shows that a remote call is pending.
//
// When Animate is false the message is printed once and no goroutine runs,
// which keeps logs and piped output clean.
type Spinner struct {
	w       io.Writer
	message string
	frames  []string
	animate bool

	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string, animate bool) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		animate: animate,
		done:    make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.animate {
		fmt.Fprintf(s.w, "%s...\n", s.message)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.finish("")
}

// Success stops the spinner with a success line.
func (s *Spinner) Success(message string) {
	s.finish("✓ " + message + "\n")
}

// Fail stops the spinner with a failure line.
func (s *Spinner) Fail(message string) {
	s.finish("✗ " + message + "\n")
}

func (s *Spinner) finish(line string) {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		if s.animate {
			fmt.Fprint(s.w, "\r\033[K")
		}
		fmt.Fprint(s.w, line)
	})
}
