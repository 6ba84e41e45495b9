package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	if got := ErrAuthFailed.Error(); got != "[CT-AUTH-4010] authentication failed" {
		t.Errorf("Error() = %q", got)
	}
	if got := ErrRouteNotFound.WithDetails("/nope").Error(); got != "[CT-NAV-4040] route not found: /nope" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDomainError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("login: %w", ErrPersistFailed.WithCause(cause))

	if !errors.Is(err, ErrPersistFailed) {
		t.Error("errors.Is should match by code")
	}
	if errors.Is(err, ErrStorage) {
		t.Error("errors.Is should not match a different code")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if GetErrorCode(err) != "CT-SESS-5001" {
		t.Errorf("GetErrorCode() = %q", GetErrorCode(err))
	}
	if !IsDomainError(err, "") || IsDomainError(errors.New("x"), "") {
		t.Error("IsDomainError mismatch")
	}
}

func TestDomainError_CopiesDoNotMutate(t *testing.T) {
	_ = ErrAuthFailed.WithDetails("x").WithCause(errors.New("y"))
	if ErrAuthFailed.Details != "" || ErrAuthFailed.Cause != nil {
		t.Error("sentinel must not be mutated")
	}
}
