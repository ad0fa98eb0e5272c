package services_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/database"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/models"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newUserService(t *testing.T, db *sql.DB) *services.UserService {
	t.Helper()
	return services.NewUserService(db, services.NewEventService(db))
}

func newNoteService(t *testing.T, db *sql.DB) *services.NoteService {
	t.Helper()
	return services.NewNoteService(db, services.NewEventService(db), nil)
}

func createTestUser(t *testing.T, db *sql.DB, email string) models.User {
	t.Helper()
	user, err := newUserService(t, db).CreateUser(context.Background(), email, "Abcdef12", nil)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}
