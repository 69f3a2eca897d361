package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig points at any server speaking the OpenAI chat completions API,
// e.g. LM Studio or llama.cpp server on localhost.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type openAIAssistant struct {
	client openai.Client
	model  string
}

// ProcessPrompt implements Assistant.
func (o openAIAssistant) ProcessPrompt(
	ctx context.Context,
	input AssistantInput,
) (*AssistantOutput, error) {
	convertedMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(input.Msgs))
	for _, msg := range input.Msgs {
		convertedMsgs = append(convertedMsgs, convertToOpenaiMsg(msg))
	}
	model := input.modelOr(o.model)
	chatCompletion, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: convertedMsgs,
			Model:    openai.ChatModel(model),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}
	if len(chatCompletion.Choices) == 0 || chatCompletion.Choices[0].Message.Content == "" {
		return nil, ErrEmptyResponse
	}
	return &AssistantOutput{
		Id:    chatCompletion.ID,
		Model: model,
		Response: AssistantMessage{
			Content:   chatCompletion.Choices[0].Message.Content,
			CreatedAt: time.Now(),
			MsgRole:   ASSISTANT,
		},
	}, nil
}

// Ping implements Pinger.
func (o openAIAssistant) Ping(ctx context.Context) error {
	if _, err := o.client.Models.List(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func convertToOpenaiMsg(msg AssistantMessage) openai.ChatCompletionMessageParamUnion {
	switch msg.MsgRole {
	case ASSISTANT:
		return openai.AssistantMessage(msg.Content)
	case USER:
		return openai.UserMessage(msg.Content)
	case SYSTEM:
		return openai.SystemMessage(msg.Content)
	}
	return openai.UserMessage(msg.Content)
}

func NewOpenAIAssistant(cfg OpenAIConfig) Assistant {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// local servers ignore the key but the client insists on one
		apiKey = "local"
	}
	return openAIAssistant{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		),
		model: cfg.Model,
	}
}
