package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/models"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
)

// NoteHandler handles HTTP requests for note CRUD.
type NoteHandler struct {
	service services.NoteServiceProvider
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service services.NoteServiceProvider) *NoteHandler {
	return &NoteHandler{service: service}
}

// CreateNotePayload defines the structure for note creation requests.
type CreateNotePayload struct {
	Title   string              `json:"title"`
	Content *models.NoteContent `json:"content"`
}

// UpdateNotePayload defines the structure for note update requests. Absent
// fields are left untouched; present fields are replaced wholesale.
type UpdateNotePayload struct {
	Title   *string             `json:"title"`
	Content *models.NoteContent `json:"content"`
}

// List returns the caller's notes, most recently updated first.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	notes, err := h.service.ListNotes(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// Create creates a note for the caller. The title is required; the content
// document is optional and defaults to an empty one.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var payload CreateNotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	note, err := h.service.CreateNote(r.Context(), claims.UserID, title, payload.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// Get returns a single owned note.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	note, err := h.service.GetOwnedNote(r.Context(), noteID, claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// Update replaces the title and/or content of an owned note.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	var payload UpdateNotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Title == nil && payload.Content == nil {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	if payload.Title != nil {
		trimmed := strings.TrimSpace(*payload.Title)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		payload.Title = &trimmed
	}

	note, err := h.service.UpdateNote(r.Context(), noteID, claims.UserID, payload.Title, payload.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// Delete removes an owned note. A second delete of the same id is a 404.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	noteID := chi.URLParam(r, "id")

	if err := h.service.DeleteNote(r.Context(), noteID, claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}
