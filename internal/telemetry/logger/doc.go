// Package logger provides structured logging for contacts-cli.
//
//   - logger.go: log/slog based Logger and the process-wide default
//   - context.go: carrying a logger with its attributes through a context
//   - redact.go: sensitive data redaction
//
// The CLI logs to stderr in text format at warn level unless told
// otherwise; --verbose switches to debug.
package logger
