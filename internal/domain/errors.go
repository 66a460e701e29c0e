package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a malformed or missing request field.
	ErrValidation = errors.New("validation failed")
	// ErrBackendUnavailable signals that the configured backend cannot serve
	// requests. It is never substituted by a silent fallback.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// BackendUnavailableError wraps ErrBackendUnavailable with the backend name
// and the reason it is inert.
type BackendUnavailableError struct {
	Backend string
	Reason  string
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrBackendUnavailable.Error(), e.Backend, e.Reason)
}

func (e *BackendUnavailableError) Unwrap() error { return ErrBackendUnavailable }

// NewBackendUnavailable creates a backend unavailable error.
func NewBackendUnavailable(backend, reason string) error {
	return &BackendUnavailableError{Backend: backend, Reason: reason}
}
