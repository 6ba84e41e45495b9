// Package logger provides structured logging for contacts-cli.
package logger

import (
	"log/slog"
	"strings"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// jwtPrefix is the base64url encoding of `{"` that opens every JWT header.
const jwtPrefix = "eyJ"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// A JWT leaks claims even under an innocent key; partial mask wins.
		if looksLikeJWT(strVal) {
			return slog.String(a.Key, maskValue(strVal))
		}

		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// looksLikeJWT reports whether value has the three-segment compact JWS shape.
func looksLikeJWT(value string) bool {
	return strings.HasPrefix(value, jwtPrefix) && strings.Count(value, ".") == 2
}

// maskValue keeps the first and last 4 characters.
// Format: first4 + "..." + last4
func maskValue(value string) string {
	if len(value) <= 12 {
		return "***"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

// RedactString manually redacts a token-like string.
// Use this when a value must be printed outside the logger (e.g. whoami).
func RedactString(value string) string {
	if value == "" {
		return ""
	}
	return maskValue(value)
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
