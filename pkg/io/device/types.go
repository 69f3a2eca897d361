package device

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrStreamClosed = errors.New("capture stream closed")

// Format describes the PCM a capture stream delivers.
type Format struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// Microphone opens capture streams on an input device.
type Microphone interface {
	Open(format Format) (Stream, error)
}

// Stream yields interleaved 16-bit samples. Read blocks until one buffer is
// available. Close must not be called concurrently with Read.
type Stream interface {
	Read() ([]int16, error)
	Close() error
}

type EndpointID uuid.UUID

func (id EndpointID) String() string {
	return uuid.UUID(id).String()
}

type Kind string

const (
	KindRecordingStarted      Kind = "recording_started"
	KindRecordingFailed       Kind = "recording_failed"
	KindProcessingStarted     Kind = "processing_started"
	KindTranscriptionFailed   Kind = "transcription_failed"
	KindSummarizerUnreachable Kind = "summarizer_unreachable"
	KindSummarizerFailed      Kind = "summarizer_failed"
	KindNotesSaved            Kind = "notes_saved"
	KindNotesFailed           Kind = "notes_failed"
)

// Severity lets sinks pick an icon or log level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Notification is one user-facing message about the session.
type Notification struct {
	Kind      Kind      `json:"kind"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SessionID uuid.UUID `json:"sessionId"`
	NotePath  string    `json:"notePath,omitempty"`
	AudioPath string    `json:"audioPath,omitempty"`
	At        time.Time `json:"at"`
}

// Endpoint is anything notifications can be delivered to: the desktop, the
// log, a connected status client.
type Endpoint interface {
	ID() EndpointID
	Name() string
	Deliver(n Notification) error
	Close() error
}
