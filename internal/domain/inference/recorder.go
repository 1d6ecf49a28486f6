package inference

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/matiasleandrokruk/docsense/internal/infra/eventbus"
)

const (
	defaultEventListLimit = 50
	maxEventListLimit     = 500

	// eventTimeLayout is fixed width so created_at sorts as text.
	eventTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// EventRecord is a stored orchestration event.
type EventRecord struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Mode      Mode      `json:"mode"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRecorder persists orchestration events into the inference_event table.
type EventRecorder struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewEventRecorder creates an EventRecorder backed by a migrated database.
func NewEventRecorder(db *sql.DB, logger *slog.Logger) *EventRecorder {
	return &EventRecorder{db: db, logger: logger}
}

// Start subscribes to TopicInferenceEvent and consumes it in a new goroutine.
// The returned channel is closed once the consumer has stopped, which happens
// when ctx is cancelled or the bus is closed.
func (r *EventRecorder) Start(ctx context.Context, bus eventbus.EventBus) <-chan struct{} {
	ch := bus.Subscribe(TopicInferenceEvent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, ch)
	}()
	return done
}

// Run records every Event payload received on ch until ctx is done or ch closes.
func (r *EventRecorder) Run(ctx context.Context, ch <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			payload, isEvent := evt.Payload.(Event)
			if !isEvent {
				continue
			}
			// Best-effort: log error but keep running
			if err := r.Record(ctx, payload); err != nil {
				r.logger.Warn("event recorder: record failed", "error", err, "kind", payload.Kind)
			}
		}
	}
}

// Record inserts a single event.
func (r *EventRecorder) Record(ctx context.Context, e Event) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inference_event (id, kind, mode, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), string(e.Kind), string(e.Mode), e.Detail, at.UTC().Format(eventTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert inference_event: %w", err)
	}
	return nil
}

// List returns the most recent events, newest first.
// limit <= 0 means the default; it is capped at 500.
func (r *EventRecorder) List(ctx context.Context, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = defaultEventListLimit
	}
	if limit > maxEventListLimit {
		limit = maxEventListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, mode, detail, created_at FROM inference_event
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list inference_event: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]EventRecord, 0, limit)
	for rows.Next() {
		var (
			rec       EventRecord
			kind      string
			mode      string
			createdAt string
		)
		if scanErr := rows.Scan(&rec.ID, &kind, &mode, &rec.Detail, &createdAt); scanErr != nil {
			return nil, fmt.Errorf("scan inference_event: %w", scanErr)
		}
		rec.Kind = EventKind(kind)
		rec.Mode = Mode(mode)
		if t, parseErr := time.Parse(eventTimeLayout, createdAt); parseErr == nil {
			rec.CreatedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
