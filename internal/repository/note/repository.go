package note

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xpanvictor/voicewithin/internal/domains/note"
)

// MarkdownNoteRepo appends entries to <root>/<YYYY>/<YYYY-MM-DD>.md.
// Existing content is never rewritten.
type MarkdownNoteRepo struct {
	root string
	mu   sync.Mutex
}

func NewMarkdownNoteRepo(root string) *MarkdownNoteRepo {
	return &MarkdownNoteRepo{root: root}
}

func (r *MarkdownNoteRepo) Root() string {
	return r.root
}

// PathFor implements note.NoteRepository. The local calendar date picks the file.
func (r *MarkdownNoteRepo) PathFor(t time.Time) string {
	return filepath.Join(r.root, t.Format("2006"), t.Format("2006-01-02")+".md")
}

// Append implements note.NoteRepository.
func (r *MarkdownNoteRepo) Append(ctx context.Context, entry note.NoteEntry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.PathFor(entry.Timestamp)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create notes dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("open notes file: %w", err)
	}

	if _, err := f.WriteString(FormatSection(entry)); err != nil {
		f.Close()
		return "", fmt.Errorf("append note: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close notes file: %w", err)
	}
	return path, nil
}

var _ note.NoteRepository = (*MarkdownNoteRepo)(nil)
