package stt

import (
	"context"
	"errors"
	"strings"
)

// The speech model is fixed; language and task are not configurable.
const (
	ModelName = "base.en"
	Language  = "en"
	Task      = "transcribe"
)

var ErrEmptyTranscript = errors.New("transcription produced no text")

// Transcriber turns a finalized audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Normalize collapses whitespace. An empty result is ErrEmptyTranscript.
func Normalize(raw string) (string, error) {
	lines := strings.Split(raw, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}
