package session

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

func recordingStarted(id uuid.UUID) device.Notification {
	return device.Notification{
		Kind:      device.KindRecordingStarted,
		Title:     "Recording",
		Body:      "Listening. Trigger again to stop.",
		SessionID: id,
	}
}

func recordingFailed(err error) device.Notification {
	return device.Notification{
		Kind:     device.KindRecordingFailed,
		Severity: device.SeverityError,
		Title:    "Recording failed",
		Body:     fmt.Sprintf("Could not access the microphone. Check input permissions. (%v)", err),
	}
}

func finalizeFailed(id uuid.UUID, audioPath string, err error) device.Notification {
	return device.Notification{
		Kind:      device.KindRecordingFailed,
		Severity:  device.SeverityError,
		Title:     "Recording failed",
		Body:      fmt.Sprintf("Could not finish the recording: %v", err),
		SessionID: id,
		AudioPath: audioPath,
	}
}

func processingStarted(id uuid.UUID, audioPath string) device.Notification {
	return device.Notification{
		Kind:      device.KindProcessingStarted,
		Title:     "Processing",
		Body:      "Transcribing and summarizing your note...",
		SessionID: id,
		AudioPath: audioPath,
	}
}

func transcriptionFailed(id uuid.UUID, audioPath string, err error) device.Notification {
	return device.Notification{
		Kind:      device.KindTranscriptionFailed,
		Severity:  device.SeverityError,
		Title:     "Transcription failed",
		Body:      fmt.Sprintf("%v. Audio kept at %s", err, audioPath),
		SessionID: id,
		AudioPath: audioPath,
	}
}

func summarizerUnreachable(id uuid.UUID) device.Notification {
	return device.Notification{
		Kind:      device.KindSummarizerUnreachable,
		Severity:  device.SeverityWarning,
		Title:     "Summarizer not running",
		Body:      "Could not reach the local model. Saving the raw transcript instead.",
		SessionID: id,
	}
}

func summarizerFailed(id uuid.UUID, err error) device.Notification {
	return device.Notification{
		Kind:      device.KindSummarizerFailed,
		Severity:  device.SeverityWarning,
		Title:     "Summary failed",
		Body:      fmt.Sprintf("%v. Saving the raw transcript instead.", err),
		SessionID: id,
	}
}

func notesSaved(id uuid.UUID, notePath string, fallback bool) device.Notification {
	body := "Saved to " + filepath.Base(notePath)
	if fallback {
		body += " (raw transcript)"
	}
	return device.Notification{
		Kind:      device.KindNotesSaved,
		Title:     "Note saved",
		Body:      body,
		SessionID: id,
		NotePath:  notePath,
	}
}

func notesFailed(id uuid.UUID, audioPath string, err error) device.Notification {
	return device.Notification{
		Kind:      device.KindNotesFailed,
		Severity:  device.SeverityError,
		Title:     "Note not saved",
		Body:      fmt.Sprintf("%v. Audio kept at %s", err, audioPath),
		SessionID: id,
		AudioPath: audioPath,
	}
}
