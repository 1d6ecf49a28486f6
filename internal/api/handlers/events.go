package handlers

import (
	"net/http"
	"strconv"

	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
	"github.com/matiasleandrokruk/docsense/internal/observability"
)

// EventHandler handles GET /api/inference-events.
type EventHandler struct {
	events EventLister
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events EventLister) *EventHandler {
	return &EventHandler{events: events}
}

// ListEventsResponse is the body of GET /api/inference-events.
type ListEventsResponse struct {
	Data []inference.EventRecord `json:"data"`
}

// List returns the most recent orchestration events, newest first.
// ?limit=N is optional; invalid values fall back to the default.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		limit = 0
	}

	records, err := h.events.List(r.Context(), limit)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("list inference events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list inference events")
		return
	}
	writeJSON(w, r, http.StatusOK, ListEventsResponse{Data: records})
}
