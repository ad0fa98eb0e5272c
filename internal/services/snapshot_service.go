package services

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/models"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/websocket"
)

// SnapshotServiceProvider defines the interface for snapshot services.
type SnapshotServiceProvider interface {
	CreateSnapshot(ctx context.Context, userID, name string) (models.Snapshot, error)
	GetSnapshotsForUser(ctx context.Context, userID string) ([]models.Snapshot, error)
	DeleteSnapshot(ctx context.Context, snapshotID, userID string) error
	SnapshotAllUsers(ctx context.Context) error
}

// SnapshotService exports a user's notes to a zip archive on disk and keeps
// a record of each export.
type SnapshotService struct {
	db           *sql.DB
	noteSvc      NoteServiceProvider
	eventSvc     EventServiceProvider
	hub          *websocket.Hub
	snapshotPath string
}

// NewSnapshotService creates a new SnapshotService. The hub may be nil in tests.
func NewSnapshotService(db *sql.DB, noteSvc NoteServiceProvider, eventSvc EventServiceProvider, hub *websocket.Hub, snapshotPath string) *SnapshotService {
	// Ensure the base directory for snapshots exists
	if err := os.MkdirAll(snapshotPath, 0755); err != nil {
		log.Error().Err(err).Str("path", snapshotPath).Msg("Failed to create snapshot directory")
	}
	return &SnapshotService{
		db:           db,
		noteSvc:      noteSvc,
		eventSvc:     eventSvc,
		hub:          hub,
		snapshotPath: snapshotPath,
	}
}

// CreateSnapshot writes the user's notes as notes.json inside a zip archive
// and records the export.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, userID, name string) (models.Snapshot, error) {
	notes, err := s.noteSvc.ListNotes(ctx, userID)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("could not list notes: %w", err)
	}

	if name == "" {
		name = "Snapshot " + time.Now().Format("2006-01-02 15:04")
	}

	snapshot := models.Snapshot{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		NoteCount: len(notes),
		CreatedAt: time.Now().UTC(),
	}

	fileName := fmt.Sprintf("%s_%s.zip", userID, time.Now().Format("20060102150405"))
	snapshot.Path = filepath.Join(s.snapshotPath, fileName)

	size, err := writeArchive(snapshot.Path, notes)
	if err != nil {
		s.eventSvc.CreateEvent(ctx, "snapshot.create.fail", "error", err.Error(), &userID, nil)
		return models.Snapshot{}, err
	}
	snapshot.Size = size

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO snapshots (id, user_id, name, path, note_count, size_bytes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		snapshot.ID, snapshot.UserID, snapshot.Name, snapshot.Path, snapshot.NoteCount, snapshot.Size, snapshot.CreatedAt)
	if err != nil {
		os.Remove(snapshot.Path)
		return models.Snapshot{}, err
	}

	s.eventSvc.CreateEvent(ctx, "snapshot.create", "info",
		fmt.Sprintf("snapshot %q created with %d notes", snapshot.Name, snapshot.NoteCount), &userID, nil)
	s.publish(userID, snapshot)
	return snapshot, nil
}

func writeArchive(path string, notes []models.Note) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("could not create snapshot file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entry, err := zw.Create("notes.json")
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(notes); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// GetSnapshotsForUser lists a user's snapshots, newest first.
func (s *SnapshotService) GetSnapshotsForUser(ctx context.Context, userID string) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name, path, note_count, size_bytes, created_at FROM snapshots WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.Snapshot{}
	for rows.Next() {
		var sn models.Snapshot
		if err := rows.Scan(&sn.ID, &sn.UserID, &sn.Name, &sn.Path, &sn.NoteCount, &sn.Size, &sn.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, sn)
	}
	return snapshots, rows.Err()
}

// DeleteSnapshot removes an owned snapshot record and its archive file.
// Ownership semantics match notes: absent is NotFound, another user's
// snapshot is Forbidden.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, snapshotID, userID string) error {
	var sn models.Snapshot
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, path FROM snapshots WHERE id = ?", snapshotID)
	if err := row.Scan(&sn.ID, &sn.UserID, &sn.Path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("snapshot %s: %w", snapshotID, ErrNotFound)
		}
		return err
	}
	if sn.UserID != userID {
		return fmt.Errorf("snapshot %s: %w", snapshotID, ErrForbidden)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", sn.ID); err != nil {
		return err
	}
	if err := os.Remove(sn.Path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", sn.Path).Msg("Could not remove snapshot archive")
	}
	return nil
}

// SnapshotAllUsers exports every user's notes. Used by the scheduler; one
// failing user does not stop the others.
func (s *SnapshotService) SnapshotAllUsers(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM users")
	if err != nil {
		return err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, userID := range userIDs {
		if _, err := s.CreateSnapshot(ctx, userID, "Scheduled Snapshot"); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Scheduled snapshot failed")
		}
	}
	return nil
}

func (s *SnapshotService) publish(userID string, snapshot models.Snapshot) {
	if s.hub == nil {
		return
	}
	raw, err := json.Marshal(websocket.Message{Action: "snapshot.created", Payload: snapshot})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode websocket message")
		return
	}
	s.hub.BroadcastToUser(userID, raw)
}
