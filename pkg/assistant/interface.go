package assistant

import (
	"context"
	"time"
)

type Role string

const (
	USER      Role = "user"
	ASSISTANT Role = "assistant"
	SYSTEM    Role = "system"
)

type AssistantMessage struct {
	Content   string
	CreatedAt time.Time
	MsgRole   Role
}

type AssistantInput struct {
	Msgs []AssistantMessage
	// Model overrides the backend default when set.
	Model string
}

type AssistantOutput struct {
	Id       string
	Model    string
	Response AssistantMessage
}

type Assistant interface {
	ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error)
}

// Pinger is implemented by backends that can cheaply check reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
