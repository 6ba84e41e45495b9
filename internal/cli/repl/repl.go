package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs one command line.
type Executor func(ctx context.Context, args []string) error

// REPL is the read-eval-print loop.
type REPL struct {
	input     *bufio.Reader
	output    io.Writer
	errOutput io.Writer
	exec      Executor
	prompt    func() string
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams. Errors go to errOut.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(r *REPL) {
		r.input = bufio.NewReader(in)
		r.output = out
		r.errOutput = errOut
	}
}

// WithPrompt sets the function that renders the prompt before each line.
func WithPrompt(fn func() string) Option {
	return func(r *REPL) {
		r.prompt = fn
	}
}

// WithCompleter sets the completer.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) {
		r.completer = c
	}
}

// WithHistory sets the history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL that runs lines with exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     bufio.NewReader(os.Stdin),
		output:    os.Stdout,
		errOutput: os.Stderr,
		exec:      exec,
		prompt:    func() string { return "contacts> " },
		completer: NewCompleter(nil),
		history:   NewHistory("", defaultHistorySize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type readResult struct {
	line string
	err  error
}

// Run reads and executes lines until exit, end of input or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	lines := make(chan readResult, 1)
	next := make(chan struct{}, 1)
	go func() {
		for range next {
			line, err := r.input.ReadString('\n')
			lines <- readResult{line: line, err: err}
			if err != nil {
				return
			}
		}
	}()
	defer close(next)

	for {
		fmt.Fprint(r.output, r.prompt())
		next <- struct{}{}

		var res readResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.output)
			return nil
		case res = <-lines:
		}

		line := strings.TrimSpace(res.line)
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return res.err
		}
		if line != "" {
			if stop := r.handle(ctx, line); stop {
				return nil
			}
		}
		if res.err != nil {
			fmt.Fprintln(r.output)
			return nil
		}
	}
}

// handle runs one non-empty line and reports whether the loop should end.
func (r *REPL) handle(ctx context.Context, line string) bool {
	switch line {
	case "exit", "quit":
		return true
	case "history":
		for _, e := range r.history.Entries() {
			fmt.Fprintln(r.output, e)
		}
		return false
	}

	if prefix, ok := strings.CutSuffix(line, "?"); ok {
		for _, s := range r.completer.Complete(strings.TrimLeft(prefix, " ")) {
			fmt.Fprintln(r.output, s)
		}
		return false
	}

	r.history.Add(line)

	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.errOutput, "error: %v\n", err)
		return false
	}
	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.errOutput, "error: %v\n", err)
	}
	return false
}

// SplitArgs splits a line into arguments. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
