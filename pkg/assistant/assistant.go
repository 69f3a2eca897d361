package assistant

import (
	"errors"
	"time"
)

var ErrEmptyResponse = errors.New("assistant returned no content")

func NewAssistantInput(msgs ...AssistantMessage) AssistantInput {
	return AssistantInput{Msgs: msgs}
}

func NewMessage(role Role, content string) AssistantMessage {
	return AssistantMessage{
		Content:   content,
		CreatedAt: time.Now(),
		MsgRole:   role,
	}
}

func (in AssistantInput) modelOr(def string) string {
	if in.Model != "" {
		return in.Model
	}
	return def
}
