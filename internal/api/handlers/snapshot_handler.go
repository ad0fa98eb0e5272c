package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
)

// SnapshotHandler handles HTTP requests for note snapshots.
type SnapshotHandler struct {
	service services.SnapshotServiceProvider
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(service services.SnapshotServiceProvider) *SnapshotHandler {
	return &SnapshotHandler{service: service}
}

// List returns the caller's snapshots, newest first.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	snapshots, err := h.service.GetSnapshotsForUser(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshots)
}

// Create exports the caller's notes right now.
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	// The body is optional; chunked requests report no ContentLength, so
	// decode regardless and treat an empty body as no payload.
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snapshot, err := h.service.CreateSnapshot(r.Context(), claims.UserID, payload.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snapshot)
}

// Delete removes an owned snapshot and its archive.
func (h *SnapshotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	snapshotID := chi.URLParam(r, "id")

	if err := h.service.DeleteSnapshot(r.Context(), snapshotID, claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Snapshot deleted"})
}
