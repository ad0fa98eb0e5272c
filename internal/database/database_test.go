package database_test

import (
	"path/filepath"
	"testing"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/database"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestForeignKeyCascade(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if _, err := db.Exec("INSERT INTO users (id, email, password_hash) VALUES ('u1', 'a@x.com', 'h')"); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.Exec("INSERT INTO notes (id, title, content, user_id) VALUES ('n1', 'T', '{}', 'u1')"); err != nil {
		t.Fatalf("insert note: %v", err)
	}
	if _, err := db.Exec("INSERT INTO events (id, type, level, message, user_id) VALUES ('e1', 't', 'info', 'm', 'u1')"); err != nil {
		t.Fatalf("insert event: %v", err)
	}

	if _, err := db.Exec("DELETE FROM users WHERE id = 'u1'"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	for _, table := range []string{"notes", "events"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected %s to cascade on user delete, %d rows remain", table, count)
		}
	}
}

func TestNoteRequiresExistingUser(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if _, err := db.Exec("INSERT INTO notes (id, title, content, user_id) VALUES ('n1', 'T', '{}', 'ghost')"); err == nil {
		t.Fatal("expected foreign key violation for unknown user")
	}
}
