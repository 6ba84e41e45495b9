// Package logger provides structured logging for contacts-cli.
//
// It wraps the standard library log/slog with automatic redaction of
// session tokens and credentials.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `koanf:"level" yaml:"level" json:"level"`
	// Format is the output format (text, json).
	Format string `koanf:"format" yaml:"format" json:"format"`
	// Output is the output writer (defaults to os.Stderr).
	Output io.Writer `koanf:"-" yaml:"-" json:"-"`
	// AddSource adds source file information to log entries.
	AddSource bool `koanf:"add_source" yaml:"add_source,omitempty" json:"add_source,omitempty"`
}

// DefaultConfig returns the CLI logger configuration: terse text on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "warn",
		Format:    "text",
		Output:    os.Stderr,
		AddSource: false,
	}
}

// slogLogger adapts slog.Logger to Logger.
type slogLogger struct {
	logger *slog.Logger
}

// level is shared by every logger so the REPL can change verbosity of
// loggers already handed to the services.
var level = new(slog.LevelVar)

// levels maps config names to slog levels. Unknown names mean info.
var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// New creates a logger writing to cfg.Output (stderr when nil) and sets
// the shared level from cfg.Level.
func New(cfg Config) (Logger, error) {
	SetLevel(cfg.Level)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return &slogLogger{logger: slog.New(slog.NewTextHandler(out, opts))}, nil
	case "json":
		return &slogLogger{logger: slog.New(slog.NewJSONHandler(out, opts))}, nil
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
}

// SetLevel changes the level of every logger. The REPL calls it when the
// config file changes.
func SetLevel(name string) {
	l, ok := levels[strings.ToLower(name)]
	if !ok {
		l = slog.LevelInfo
	}
	level.Set(l)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// std is the process-wide logger used by components built without one.
var std atomic.Pointer[slogLogger]

func init() {
	std.Store(&slogLogger{logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr { return redactSensitive(a) },
	}))})
	level.Set(slog.LevelWarn)
}

// SetDefault replaces the process-wide logger. Loggers not built by New
// are ignored.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		std.Store(sl)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return std.Load()
}
