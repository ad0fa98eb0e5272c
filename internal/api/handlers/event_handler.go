package handlers

import (
	"net/http"
	"strconv"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
)

// EventHandler serves the caller's activity feed.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// List returns the caller's most recent events. The limit query parameter
// defaults to 50 and is capped at 200.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	if limit > 200 {
		limit = 200
	}

	events, err := h.service.GetRecentEvents(r.Context(), claims.UserID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}
