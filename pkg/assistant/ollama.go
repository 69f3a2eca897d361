package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	olp "github.com/xpanvictor/voicewithin/pkg/assistant/providers/ollama"
)

// ChatProvider is the slice of the ollama API the assistant needs.
type ChatProvider interface {
	Chat(ctx context.Context, req api.ChatRequest, fn api.ChatResponseFunc) error
	Heartbeat(ctx context.Context) error
}

var _ ChatProvider = (*olp.OllamaProvider)(nil)

type ollamaAssistant struct {
	provider ChatProvider
	model    string
}

func NewOllamaAssistant(provider ChatProvider, model string) Assistant {
	return ollamaAssistant{provider: provider, model: model}
}

// ProcessPrompt implements Assistant.
func (o ollamaAssistant) ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error) {
	msgs := make([]api.Message, 0, len(input.Msgs))
	for _, msg := range input.Msgs {
		msgs = append(msgs, api.Message{Role: string(msg.MsgRole), Content: msg.Content})
	}

	stream := false
	model := input.modelOr(o.model)
	var sb strings.Builder
	err := o.provider.Chat(ctx, api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, ErrEmptyResponse
	}
	return &AssistantOutput{
		Model: model,
		Response: AssistantMessage{
			Content:   content,
			CreatedAt: time.Now(),
			MsgRole:   ASSISTANT,
		},
	}, nil
}

// Ping implements Pinger.
func (o ollamaAssistant) Ping(ctx context.Context) error {
	return o.provider.Heartbeat(ctx)
}
