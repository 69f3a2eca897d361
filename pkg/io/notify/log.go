package notify

import (
	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

// Log writes every notification to the process log at a level matching its severity.
type Log struct {
	id     device.EndpointID
	logger *Logger.Logger
}

func NewLog(logger *Logger.Logger) *Log {
	return &Log{id: device.EndpointID(uuid.New()), logger: logger}
}

func (l *Log) ID() device.EndpointID {
	return l.id
}

func (l *Log) Name() string {
	return "log"
}

// Deliver implements device.Endpoint.
func (l *Log) Deliver(n device.Notification) error {
	kv := []any{"kind", n.Kind, "session", n.SessionID}
	if n.NotePath != "" {
		kv = append(kv, "note", n.NotePath)
	}
	if n.AudioPath != "" {
		kv = append(kv, "audio", n.AudioPath)
	}
	msg := n.Title + ": " + n.Body

	switch n.Severity {
	case device.SeverityError:
		l.logger.Errorw(msg, kv...)
	case device.SeverityWarning:
		l.logger.Warnw(msg, kv...)
	default:
		l.logger.Infow(msg, kv...)
	}
	return nil
}

func (l *Log) Close() error {
	return l.logger.Sync()
}
