package inference

import "time"

// TopicInferenceEvent is the event bus topic for orchestration events.
const TopicInferenceEvent = "inference.event"

// EventKind classifies an orchestration event.
type EventKind string

const (
	EventModeChanged      EventKind = "mode_changed"      // administrative SetMode
	EventRedirected       EventKind = "redirected"        // local failure made server the default
	EventDegraded         EventKind = "degraded"          // a call returned the fallback result
	EventLocalUnavailable EventKind = "local_unavailable" // local backend failed to load at startup
)

// Event is published on TopicInferenceEvent. It never carries document text.
type Event struct {
	Kind   EventKind
	Mode   Mode // Mode in effect after the event.
	Detail string
	At     time.Time
}
