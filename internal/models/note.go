package models

import (
	"encoding/json"
	"time"
)

// Note is a single rich-text note owned by exactly one user.
type Note struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	ContentJSON string      `json:"-"` // Stored as a JSON document string
	Content     NoteContent `json:"content"`
	UserID      string      `json:"userId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NoteContent is the block-sequence document produced by the editor:
// an ordered list of typed blocks plus a format version and a document
// timestamp (milliseconds since epoch).
type NoteContent struct {
	Time    int64   `json:"time"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version"`
}

// Block is one typed content block. Data is an opaque payload whose shape
// depends on the block type; the server never interprets it.
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// PrepareForDB marshals the content document into its JSON string form
// before saving.
func (n *Note) PrepareForDB() error {
	if n.Content.Blocks == nil {
		n.Content.Blocks = []Block{}
	}
	raw, err := json.Marshal(n.Content)
	if err != nil {
		return err
	}
	n.ContentJSON = string(raw)
	return nil
}

// PrepareForAPI unmarshals the stored JSON string into the typed content
// document for API responses.
func (n *Note) PrepareForAPI() error {
	if n.ContentJSON == "" {
		n.Content = NoteContent{Blocks: []Block{}}
		return nil
	}
	if err := json.Unmarshal([]byte(n.ContentJSON), &n.Content); err != nil {
		return err
	}
	if n.Content.Blocks == nil {
		n.Content.Blocks = []Block{}
	}
	return nil
}
