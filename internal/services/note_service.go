package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/models"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/websocket"
)

// NoteServiceProvider defines the interface for note services.
type NoteServiceProvider interface {
	ListNotes(ctx context.Context, userID string) ([]models.Note, error)
	GetOwnedNote(ctx context.Context, noteID, userID string) (models.Note, error)
	CreateNote(ctx context.Context, userID, title string, content *models.NoteContent) (models.Note, error)
	UpdateNote(ctx context.Context, noteID, userID string, title *string, content *models.NoteContent) (models.Note, error)
	DeleteNote(ctx context.Context, noteID, userID string) error
}

// NoteService provides business logic for note management, including the
// per-request ownership guard.
type NoteService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
	hub      *websocket.Hub
}

// NewNoteService creates a new NoteService. The hub may be nil in tests.
func NewNoteService(db *sql.DB, eventSvc EventServiceProvider, hub *websocket.Hub) *NoteService {
	return &NoteService{db: db, eventSvc: eventSvc, hub: hub}
}

// ListNotes returns all notes owned by a user, most recently updated first.
func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, content, user_id, created_at, updated_at FROM notes WHERE user_id = ? ORDER BY updated_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.ContentJSON, &note.UserID, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		if err := note.PrepareForAPI(); err != nil {
			return nil, fmt.Errorf("decode content of note %s: %w", note.ID, err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// GetOwnedNote fetches a note and enforces row-level ownership: an absent
// note is NotFound, a note owned by someone else is Forbidden. The check is
// re-run for every operation; results are never cached across requests.
func (s *NoteService) GetOwnedNote(ctx context.Context, noteID, userID string) (models.Note, error) {
	var note models.Note
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, content, user_id, created_at, updated_at FROM notes WHERE id = ?", noteID)
	err := row.Scan(&note.ID, &note.Title, &note.ContentJSON, &note.UserID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, fmt.Errorf("note %s: %w", noteID, ErrNotFound)
		}
		return models.Note{}, err
	}
	if note.UserID != userID {
		return models.Note{}, fmt.Errorf("note %s: %w", noteID, ErrForbidden)
	}
	if err := note.PrepareForAPI(); err != nil {
		return models.Note{}, fmt.Errorf("decode content of note %s: %w", noteID, err)
	}
	return note, nil
}

// CreateNote creates a note for a user. A nil content produces an empty
// block-sequence document.
func (s *NoteService) CreateNote(ctx context.Context, userID, title string, content *models.NoteContent) (models.Note, error) {
	now := time.Now().UTC()
	note := models.Note{
		ID:        uuid.New().String(),
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if content != nil {
		note.Content = *content
	}
	if err := note.PrepareForDB(); err != nil {
		return models.Note{}, fmt.Errorf("%w: content is not a valid document", ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notes (id, title, content, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		note.ID, note.Title, note.ContentJSON, note.UserID, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return models.Note{}, err
	}

	s.eventSvc.CreateEvent(ctx, "note.create", "info", fmt.Sprintf("note %q created", note.Title), &userID, &note.ID)
	s.publish("note.created", userID, note)
	return note, nil
}

// UpdateNote replaces the provided fields of an owned note wholesale. At
// least one of title or content must be given. Concurrent saves race with
// last-write-wins semantics; there is no version counter.
func (s *NoteService) UpdateNote(ctx context.Context, noteID, userID string, title *string, content *models.NoteContent) (models.Note, error) {
	note, err := s.GetOwnedNote(ctx, noteID, userID)
	if err != nil {
		return models.Note{}, err
	}

	if title == nil && content == nil {
		return models.Note{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if title != nil {
		note.Title = *title
	}
	if content != nil {
		note.Content = *content
	}
	note.UpdatedAt = time.Now().UTC()
	if err := note.PrepareForDB(); err != nil {
		return models.Note{}, fmt.Errorf("%w: content is not a valid document", ErrInvalidInput)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		note.Title, note.ContentJSON, note.UpdatedAt, note.ID)
	if err != nil {
		return models.Note{}, err
	}

	s.eventSvc.CreateEvent(ctx, "note.update", "info", fmt.Sprintf("note %q updated", note.Title), &userID, &note.ID)
	s.publish("note.updated", userID, note)
	return note, nil
}

// DeleteNote deletes an owned note. Deleting an id that no longer exists is
// NotFound, every time.
func (s *NoteService) DeleteNote(ctx context.Context, noteID, userID string) error {
	note, err := s.GetOwnedNote(ctx, noteID, userID)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", note.ID)
	if err != nil {
		return err
	}

	s.eventSvc.CreateEvent(ctx, "note.delete", "info", fmt.Sprintf("note %q deleted", note.Title), &userID, &note.ID)
	s.publish("note.deleted", userID, map[string]string{"id": note.ID})
	return nil
}

// publish pushes a note change to the owner's connected websocket clients.
func (s *NoteService) publish(action, userID string, payload interface{}) {
	if s.hub == nil {
		return
	}
	raw, err := json.Marshal(websocket.Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return
	}
	s.hub.BroadcastToUser(userID, raw)
}
