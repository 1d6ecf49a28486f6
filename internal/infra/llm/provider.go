// Package llm: Backend interface.
// Local and remote adapters implement this interface so orchestration is never
// coupled to a specific inference vendor or runtime.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable is returned when no backend is registered for an ID.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMalformedResponse is returned when a backend answer cannot be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrModelPanic is returned when a pluggable local model panics during inference.
	ErrModelPanic = errors.New("local model panicked")
)

// Backend turns a prompt into a raw suggestion.
type Backend interface {
	// ID returns the backend identity used for routing and failure reporting.
	ID() BackendID

	// Infer runs a single inference. Errors are always *BackendFailure.
	Infer(ctx context.Context, p Prompt) (*RawSuggestion, error)
}

// BackendFailure is a per-call failure carrying the backend that failed.
type BackendFailure struct {
	Backend BackendID
	Cause   error
}

func (f *BackendFailure) Error() string {
	return fmt.Sprintf("%s backend: %v", f.Backend, f.Cause)
}

func (f *BackendFailure) Unwrap() error { return f.Cause }

// AsBackendFailure returns err as a *BackendFailure, wrapping it for id when needed.
// Returns nil for a nil error.
func AsBackendFailure(id BackendID, err error) *BackendFailure {
	if err == nil {
		return nil
	}
	var bf *BackendFailure
	if errors.As(err, &bf) {
		return bf
	}
	return &BackendFailure{Backend: id, Cause: err}
}
