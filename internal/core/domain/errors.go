// Package domain defines the core domain models for contacts-cli.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes use the form CT-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "CT-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrAuthFailed indicates the remote API rejected the credentials.
	ErrAuthFailed = NewDomainError("CT-AUTH-4010", "authentication failed")

	// ErrAuthUnavailable indicates the remote API could not be reached.
	ErrAuthUnavailable = NewDomainError("CT-AUTH-5030", "authentication service unavailable")

	// ErrLoginInProgress indicates a login attempt is already pending.
	ErrLoginInProgress = NewDomainError("CT-AUTH-4090", "login already in progress")

	// ErrNotAuthenticated indicates an operation needs a session token.
	ErrNotAuthenticated = NewDomainError("CT-AUTH-4011", "not logged in")
)

// ============================================================================
// Session Persistence Errors (SESS)
// ============================================================================

var (
	// ErrPersistFailed indicates the session could not be written to durable storage.
	ErrPersistFailed = NewDomainError("CT-SESS-5001", "session persistence failed")

	// ErrStorage indicates a durable storage failure.
	ErrStorage = NewDomainError("CT-SESS-5000", "storage error")
)

// ============================================================================
// Navigation Errors (NAV)
// ============================================================================

var (
	// ErrRouteNotFound indicates no route matches the requested location.
	ErrRouteNotFound = NewDomainError("CT-NAV-4040", "route not found")

	// ErrInvalidLocation indicates the navigation target could not be parsed.
	ErrInvalidLocation = NewDomainError("CT-NAV-4000", "invalid location")
)

// ============================================================================
// API Errors (API)
// ============================================================================

var (
	// ErrAPIRequest indicates the remote API returned an error status.
	ErrAPIRequest = NewDomainError("CT-API-5020", "api request failed")

	// ErrContactNotFound indicates the requested contact does not exist.
	ErrContactNotFound = NewDomainError("CT-API-4040", "contact not found")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("CT-ARG-1002", "missing required argument")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("CT-ARG-1001", "invalid argument")
)
