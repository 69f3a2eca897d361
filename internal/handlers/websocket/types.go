package websocket

import (
	"time"

	"github.com/xpanvictor/voicewithin/internal/domains/session"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeSnapshot     MessageType = "snapshot"
	MessageTypeStateChanged MessageType = "state_changed"
	MessageTypeNotification MessageType = "notification"
	MessageTypeError        MessageType = "error"
)

// WSMessage represents the structure of WebSocket messages
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Sequence  uint64      `json:"sequence,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// StateChangedMessage is pushed on every session transition.
type StateChangedMessage struct {
	From      session.State `json:"from"`
	To        session.State `json:"to"`
	Event     session.Event `json:"event"`
	SessionID string        `json:"sessionId,omitempty"`
	At        time.Time     `json:"at"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
