package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/xpanvictor/voicewithin/internal/constants/prompts"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/assistant"
)

var (
	ErrServiceUnreachable = errors.New("summarization service unreachable")
	ErrEmptyTranscript    = errors.New("nothing to summarize")
)

// Result is the outcome of the summarize step. Either Text holds the summary,
// or Fallback is set and Text holds the raw transcript; Err explains why.
type Result struct {
	Text     string
	Fallback bool
	Err      error
}

// Unreachable reports whether the fallback happened because the service was down.
func (r Result) Unreachable() bool {
	return r.Fallback && errors.Is(r.Err, ErrServiceUnreachable)
}

type Summarizer struct {
	assistant assistant.Assistant
	prompt    prompts.PromptDefinition
	logger    *Logger.Logger
}

func New(a assistant.Assistant, logger *Logger.Logger) *Summarizer {
	return &Summarizer{
		assistant: a,
		prompt:    prompts.SUMMARIZE_PROMPT.GetCurrentPrompt(),
		logger:    logger,
	}
}

// Summarize sends the fixed instruction and the transcript as a single
// exchange. A refused connection is reported as ErrServiceUnreachable.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	out, err := s.assistant.ProcessPrompt(ctx, assistant.NewAssistantInput(
		s.prompt.ToMessage(),
		assistant.NewMessage(assistant.USER, transcript),
	))
	if err != nil {
		if IsConnectionRefused(err) {
			return "", fmt.Errorf("%w: %v", ErrServiceUnreachable, err)
		}
		return "", fmt.Errorf("summarize: %w", err)
	}

	summary := strings.TrimSpace(out.Response.Content)
	if summary == "" {
		return "", assistant.ErrEmptyResponse
	}
	return summary, nil
}

// Decide runs Summarize and folds any failure into a transcript fallback.
func (s *Summarizer) Decide(ctx context.Context, transcript string) Result {
	summary, err := s.Summarize(ctx, transcript)
	if err != nil {
		if errors.Is(err, ErrServiceUnreachable) {
			s.logger.Warnf("summarizer unreachable, keeping raw transcript: %v", err)
		} else {
			s.logger.Errorf("summarizer failed, keeping raw transcript: %v", err)
		}
		return Result{Text: strings.TrimSpace(transcript), Fallback: true, Err: err}
	}
	s.logger.Infof("transcript summarized (%d -> %d chars)", len(transcript), len(summary))
	return Result{Text: summary}
}

// IsConnectionRefused matches dial failures against a local port nobody listens on.
func IsConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	// some clients flatten the cause into the message
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}
