package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/internal/domains/session"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version"`
}

// StatusResponse is the session snapshot plus process details.
type StatusResponse struct {
	State         session.State `json:"state" example:"idle"`
	SessionID     *uuid.UUID    `json:"sessionId,omitempty"`
	StartedAt     *time.Time    `json:"startedAt,omitempty"`
	ElapsedSec    float64       `json:"elapsedSec,omitempty"`
	AudioPath     string        `json:"audioPath,omitempty"`
	LastNote      string        `json:"lastNote,omitempty"`
	LastError     string        `json:"lastError,omitempty"`
	Hotkey        string        `json:"hotkey"`
	StatusClients int           `json:"statusClients"`
}

func NewStatusResponse(snap session.Snapshot, hotkey string, clients int, now time.Time) StatusResponse {
	resp := StatusResponse{
		State:         snap.State,
		SessionID:     snap.SessionID,
		StartedAt:     snap.StartedAt,
		AudioPath:     snap.AudioPath,
		LastNote:      snap.LastNote,
		LastError:     snap.LastError,
		Hotkey:        hotkey,
		StatusClients: clients,
	}
	if snap.StartedAt != nil {
		resp.ElapsedSec = now.Sub(*snap.StartedAt).Seconds()
	}
	return resp
}
