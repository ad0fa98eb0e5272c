package models

import "time"

// Snapshot represents an on-disk export of a user's notes.
type Snapshot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Path      string    `json:"-"` // Internal use, not exposed to client
	NoteCount int       `json:"noteCount"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
