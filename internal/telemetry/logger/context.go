package logger

import "context"

type ctxKey struct{}

// NewContext returns ctx carrying l. Loggers further down the call chain,
// such as the API client's, pick it up through FromContext so that their
// lines keep the caller's attributes.
func NewContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx, or fallback when there is
// none. A nil fallback means Default.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return Default()
}
