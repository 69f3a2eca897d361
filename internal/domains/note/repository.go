package note

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FallbackLabel marks an entry whose body is the raw transcript because no
// summary could be produced.
const FallbackLabel = "**Raw transcript (summary unavailable):**"

// NoteEntry is one appended section of a daily notes file.
type NoteEntry struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body"`
	Fallback  bool      `json:"fallback"`
}

func NewNoteEntry(body string, fallback bool, at time.Time) NoteEntry {
	return NoteEntry{
		ID:        uuid.New(),
		Timestamp: at,
		Body:      body,
		Fallback:  fallback,
	}
}

// NoteRepository persists entries. Append returns the file the entry landed in.
type NoteRepository interface {
	Append(ctx context.Context, entry NoteEntry) (string, error)
	PathFor(t time.Time) string
}
