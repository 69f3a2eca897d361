package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/internal/domains/summarizer"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	"github.com/xpanvictor/voicewithin/pkg/io/recorder"
)

type State string

const (
	Idle       State = "idle"
	Recording  State = "recording"
	Processing State = "processing"
)

type Event string

const (
	EvStart  Event = "start"
	EvStop   Event = "stop"
	EvFinish Event = "finish"
	EvReset  Event = "reset"
)

var (
	ErrNotIdle      = errors.New("session is not idle")
	ErrNotRecording = errors.New("no active recording")
	ErrClosed       = errors.New("session controller shut down")
)

// Recorder starts captures. Satisfied by *recorder.Recorder.
type Recorder interface {
	Start(ctx context.Context) (recorder.Capture, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type Summarizer interface {
	Decide(ctx context.Context, transcript string) summarizer.Result
}

type NoteSaver interface {
	Save(ctx context.Context, text string, fallback bool) (string, error)
}

type Notifier interface {
	Publish(ctx context.Context, n device.Notification) error
}

// Transition is emitted after every state change.
type Transition struct {
	From      State     `json:"from"`
	To        State     `json:"to"`
	Event     Event     `json:"event"`
	SessionID uuid.UUID `json:"sessionId"`
	At        time.Time `json:"at"`
}

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	State     State      `json:"state"`
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	AudioPath string     `json:"audioPath,omitempty"`
	LastNote  string     `json:"lastNote,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}
