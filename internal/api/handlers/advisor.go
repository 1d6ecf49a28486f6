// Package handlers implements the HTTP front door: document upload, inference
// mode administration, the event log and stored uploads.
package handlers

import (
	"context"

	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
)

// Advisor is the orchestration surface the handlers depend on.
// *inference.Orchestrator satisfies it.
type Advisor interface {
	GetSuggestions(ctx context.Context, text string) inference.SuggestionResult
	GetMode() inference.Mode
	SetMode(ctx context.Context, requested string) error
}

// EventLister reads the inference event log.
// *inference.EventRecorder satisfies it.
type EventLister interface {
	List(ctx context.Context, limit int) ([]inference.EventRecord, error)
}
