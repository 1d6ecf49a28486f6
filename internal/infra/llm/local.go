// Package llm: in-process backend.
// LocalBackend delegates to a pluggable Model without any network call.
package llm

import (
	"context"
	"fmt"
)

// Model is the on-device inference capability behind LocalBackend.
// Implementations must be synchronous and safe for concurrent use.
type Model interface {
	Name() string
	Generate(p Prompt) (*RawSuggestion, error)
}

// LocalBackend implements Backend on top of a Model.
type LocalBackend struct {
	model Model
}

// NewLocalBackend wraps an already loaded model.
func NewLocalBackend(model Model) *LocalBackend {
	return &LocalBackend{model: model}
}

// LoadLocalBackend loads the rule model artifact from modelDir.
// A missing or invalid artifact means the local backend is unavailable
// for the lifetime of the process.
func LoadLocalBackend(modelDir string) (*LocalBackend, error) {
	model, err := LoadRuleModel(modelDir)
	if err != nil {
		return nil, err
	}
	return NewLocalBackend(model), nil
}

// ID implements Backend.
func (b *LocalBackend) ID() BackendID { return BackendLocal }

// ModelName returns the name of the loaded model.
func (b *LocalBackend) ModelName() string { return b.model.Name() }

// Infer runs the model synchronously. The context is not consulted: local
// inference has no cancellation path, and a disconnecting client must not be
// mistaken for a local failure.
func (b *LocalBackend) Infer(_ context.Context, p Prompt) (raw *RawSuggestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw = nil
			err = &BackendFailure{Backend: BackendLocal, Cause: fmt.Errorf("%w: %v", ErrModelPanic, r)}
		}
	}()

	out, genErr := b.model.Generate(p)
	if genErr != nil {
		return nil, &BackendFailure{Backend: BackendLocal, Cause: genErr}
	}
	if out == nil {
		return nil, &BackendFailure{Backend: BackendLocal, Cause: fmt.Errorf("%w: model %s returned nothing", ErrMalformedResponse, b.model.Name())}
	}
	return out, nil
}
