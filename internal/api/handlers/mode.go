package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matiasleandrokruk/docsense/internal/domain/inference"
)

// ModeHandler handles GET/POST /api/inference-mode.
type ModeHandler struct {
	advisor Advisor
}

// NewModeHandler creates a ModeHandler.
func NewModeHandler(advisor Advisor) *ModeHandler {
	return &ModeHandler{advisor: advisor}
}

// SetModeRequest is the body of POST /api/inference-mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// ModeResponse reports the current mode.
type ModeResponse struct {
	Success bool           `json:"success,omitempty"`
	Mode    inference.Mode `json:"mode"`
}

// GetMode handles GET /api/inference-mode.
func (h *ModeHandler) GetMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, ModeResponse{Mode: h.advisor.GetMode()})
}

// SetMode handles POST /api/inference-mode.
func (h *ModeHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.advisor.SetMode(r.Context(), req.Mode); err != nil {
		if errors.Is(err, inference.ErrInvalidMode) {
			writeError(w, http.StatusBadRequest, inference.ErrInvalidMode.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to set inference mode")
		return
	}
	writeJSON(w, r, http.StatusOK, ModeResponse{Success: true, Mode: h.advisor.GetMode()})
}
