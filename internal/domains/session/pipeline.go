package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	"github.com/xpanvictor/voicewithin/pkg/io/recorder"
)

// Outcome is what one pipeline run produced.
type Outcome struct {
	NotePath  string
	Fallback  bool
	AudioKept bool
	Err       error
}

// Pipeline turns a finalized recording into an appended note:
// transcribe, summarize (or fall back to the transcript), save, clean up.
type Pipeline struct {
	transcriber Transcriber
	summarizer  Summarizer
	notes       NoteSaver
	notifier    Notifier
	logger      *Logger.Logger
	remove      func(string) error
}

func NewPipeline(
	transcriber Transcriber,
	summarizer Summarizer,
	notes NoteSaver,
	notifier Notifier,
	logger *Logger.Logger,
) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		summarizer:  summarizer,
		notes:       notes,
		notifier:    notifier,
		logger:      logger,
		remove:      os.Remove,
	}
}

// Process runs every step for one artifact. Transcription and persistence
// failures abort and keep the audio; summarizer failures never abort.
func (p *Pipeline) Process(ctx context.Context, id uuid.UUID, artifact recorder.Artifact) Outcome {
	p.logger.Infow("pipeline started", "session", id, "audio", artifact.Path)

	transcript, err := p.transcriber.Transcribe(ctx, artifact.Path)
	if err != nil {
		p.logger.Errorw("transcription failed, audio preserved", "session", id, "audio", artifact.Path, "error", err)
		p.notify(ctx, transcriptionFailed(id, artifact.Path, err))
		return Outcome{AudioKept: true, Err: fmt.Errorf("transcribe: %w", err)}
	}
	p.logger.Infow("transcription complete", "session", id, "chars", len(transcript))

	result := p.summarizer.Decide(ctx, transcript)
	if result.Fallback {
		if result.Unreachable() {
			p.notify(ctx, summarizerUnreachable(id))
		} else {
			p.notify(ctx, summarizerFailed(id, result.Err))
		}
	}

	notePath, err := p.notes.Save(ctx, result.Text, result.Fallback)
	if err != nil {
		p.logger.Errorw("saving note failed, audio preserved", "session", id, "audio", artifact.Path, "error", err)
		p.notify(ctx, notesFailed(id, artifact.Path, err))
		return Outcome{Fallback: result.Fallback, AudioKept: true, Err: fmt.Errorf("save note: %w", err)}
	}
	p.notify(ctx, notesSaved(id, notePath, result.Fallback))

	p.cleanup(artifact.Path)
	return Outcome{NotePath: notePath, Fallback: result.Fallback}
}

// cleanup removes the audio once its note is safe. Failures are log-only.
func (p *Pipeline) cleanup(path string) {
	if err := p.remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Debugf("audio already gone: %s", path)
			return
		}
		p.logger.Warnf("failed to remove audio %s: %v", path, err)
		return
	}
	p.logger.Debugf("audio removed: %s", path)
}

func (p *Pipeline) notify(ctx context.Context, n device.Notification) {
	if err := p.notifier.Publish(ctx, n); err != nil {
		p.logger.Warnf("notification %s: %v", n.Kind, err)
	}
}
