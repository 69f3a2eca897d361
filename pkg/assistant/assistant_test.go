package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	olp "github.com/xpanvictor/voicewithin/pkg/assistant/providers/ollama"
)

func TestOllamaAssistantProcessPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var req api.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "llama3.2" {
			t.Errorf("Model = %q, want llama3.2", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("Unexpected messages %+v", req.Messages)
		}
		if req.Stream == nil || *req.Stream {
			t.Error("Expected non-streaming request")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"- call the bank\n"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	provider, err := olp.New([]string{srv.URL}, Logger.Nop())
	if err != nil {
		t.Fatalf("olp.New() error = %v", err)
	}
	a := NewOllamaAssistant(provider, "llama3.2")

	out, err := a.ProcessPrompt(context.Background(), NewAssistantInput(
		NewMessage(SYSTEM, "summarize"),
		NewMessage(USER, "so um call the bank"),
	))
	if err != nil {
		t.Fatalf("ProcessPrompt() error = %v", err)
	}
	if out.Response.Content != "- call the bank" {
		t.Errorf("Content = %q", out.Response.Content)
	}
	if out.Response.MsgRole != ASSISTANT {
		t.Errorf("MsgRole = %q", out.Response.MsgRole)
	}
}

type stubProvider struct {
	reply string
	err   error
}

func (s stubProvider) Chat(ctx context.Context, req api.ChatRequest, fn api.ChatResponseFunc) error {
	if s.err != nil {
		return s.err
	}
	return fn(api.ChatResponse{Message: api.Message{Role: "assistant", Content: s.reply}})
}

func (s stubProvider) Heartbeat(ctx context.Context) error {
	return s.err
}

func TestOllamaAssistantErrors(t *testing.T) {
	boom := errors.New("model not loaded")

	tests := []struct {
		name     string
		provider stubProvider
		wantErr  error
	}{
		{"provider error", stubProvider{err: boom}, boom},
		{"blank reply", stubProvider{reply: "  \n"}, ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewOllamaAssistant(tt.provider, "llama3.2")
			_, err := a.ProcessPrompt(context.Background(), NewAssistantInput(NewMessage(USER, "hi")))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ProcessPrompt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOllamaAssistantPing(t *testing.T) {
	a := NewOllamaAssistant(stubProvider{}, "llama3.2")
	p, ok := a.(Pinger)
	if !ok {
		t.Fatal("ollama assistant should implement Pinger")
	}
	if err := p.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestOpenAIAssistantProcessPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "qwen2.5" {
			t.Errorf("Model = %q, want qwen2.5", body.Model)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("Unexpected messages %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"qwen2.5",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"- water plants"}}]}`))
	}))
	defer srv.Close()

	a := NewOpenAIAssistant(OpenAIConfig{BaseURL: srv.URL + "/v1/", Model: "qwen2.5"})
	out, err := a.ProcessPrompt(context.Background(), NewAssistantInput(
		NewMessage(SYSTEM, "summarize"),
		NewMessage(USER, "uh water the plants"),
	))
	if err != nil {
		t.Fatalf("ProcessPrompt() error = %v", err)
	}
	if out.Id != "chatcmpl-1" {
		t.Errorf("Id = %q", out.Id)
	}
	if out.Response.Content != "- water plants" {
		t.Errorf("Content = %q", out.Response.Content)
	}
}

func TestOpenAIAssistantEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	a := NewOpenAIAssistant(OpenAIConfig{BaseURL: srv.URL + "/v1/", Model: "m"})
	_, err := a.ProcessPrompt(context.Background(), NewAssistantInput(NewMessage(USER, "hi")))
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("ProcessPrompt() error = %v, want ErrEmptyResponse", err)
	}
}

func TestConvertToOpenaiMsg(t *testing.T) {
	roles := []Role{SYSTEM, USER, ASSISTANT, Role("other")}
	for _, role := range roles {
		msg := convertToOpenaiMsg(NewMessage(role, "x"))
		switch role {
		case SYSTEM:
			if msg.OfSystem == nil {
				t.Errorf("role %s should map to a system message", role)
			}
		case ASSISTANT:
			if msg.OfAssistant == nil {
				t.Errorf("role %s should map to an assistant message", role)
			}
		default:
			if msg.OfUser == nil {
				t.Errorf("role %s should map to a user message", role)
			}
		}
	}
}
