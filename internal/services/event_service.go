package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/models"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID, noteID *string)
	GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// EventService records the activity feed: auth actions, note mutations,
// snapshot runs, and system alerts.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event. The feed is best effort: a failed insert is
// logged and swallowed so it never fails the operation being recorded.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID, noteID *string) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		NoteID:    noteID,
		CreatedAt: time.Now().UTC(),
	}

	// Explicit timestamp: the column default only has second granularity,
	// which is too coarse to keep a burst of events ordered.
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, user_id, note_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.UserID, event.NoteID, event.CreatedAt)
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

// GetRecentEvents retrieves the most recent events belonging to a user.
func (s *EventService) GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, message, user_id, note_id, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.NoteID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
