package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

var ErrEmptyBody = errors.New("note body is empty")

// NoteService defines the interface for note business logic
type NoteService interface {
	// Save appends text as a new timestamped entry and returns the notes file path.
	Save(ctx context.Context, text string, fallback bool) (string, error)
}

type noteService struct {
	repository NoteRepository
	logger     *Logger.Logger
	now        func() time.Time
}

// Save implements NoteService
func (s *noteService) Save(ctx context.Context, text string, fallback bool) (string, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return "", ErrEmptyBody
	}

	entry := NewNoteEntry(body, fallback, s.now())
	path, err := s.repository.Append(ctx, entry)
	if err != nil {
		s.logger.Errorf("error appending note: %v", err)
		return "", fmt.Errorf("failed to save note: %w", err)
	}

	s.logger.Infof("note %s appended to %s (fallback=%t)", entry.ID, path, fallback)
	return path, nil
}

func NewNoteService(repository NoteRepository, logger *Logger.Logger) NoteService {
	return NewNoteServiceWithClock(repository, logger, time.Now)
}

func NewNoteServiceWithClock(repository NoteRepository, logger *Logger.Logger, now func() time.Time) NoteService {
	return &noteService{
		repository: repository,
		logger:     logger,
		now:        now,
	}
}
