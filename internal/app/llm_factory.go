package app

import (
	"fmt"
	"strings"

	"github.com/xpanvictor/voicewithin/internal/config"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/assistant"
	olp "github.com/xpanvictor/voicewithin/pkg/assistant/providers/ollama"
	"github.com/xpanvictor/voicewithin/pkg/executor"
	"github.com/xpanvictor/voicewithin/pkg/io/stt"
	"github.com/xpanvictor/voicewithin/pkg/io/stt/whisper"
)

// AssistantFactory builds the summarization backend named in the settings.
type AssistantFactory struct {
	config config.SummarizerConfig
	logger *Logger.Logger
}

func NewAssistantFactory(cfg config.SummarizerConfig, logger *Logger.Logger) *AssistantFactory {
	return &AssistantFactory{config: cfg, logger: logger}
}

func (f *AssistantFactory) Create() (assistant.Assistant, error) {
	switch f.config.Backend {
	case config.SummarizerOllama:
		return f.createOllama()
	case config.SummarizerOpenAI:
		f.logger.Infof("OpenAI-compatible summarizer at %s, model %s", f.config.URL, f.config.Model)
		return assistant.NewOpenAIAssistant(assistant.OpenAIConfig{
			BaseURL: f.config.URL,
			APIKey:  f.config.APIKey,
			Model:   f.config.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported summarizer backend %q", f.config.Backend)
	}
}

func (f *AssistantFactory) createOllama() (assistant.Assistant, error) {
	var urls []string
	for _, u := range strings.Split(f.config.URL, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	provider, err := olp.New(urls, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama provider: %w", err)
	}
	f.logger.Infof("Ollama summarizer created for %v, model %s", urls, f.config.Model)
	return assistant.NewOllamaAssistant(provider, f.config.Model), nil
}

// NewTranscriber builds the speech-to-text backend named in the settings.
func NewTranscriber(cfg config.TranscriberConfig, exec executor.Executor, logger *Logger.Logger) (stt.Transcriber, error) {
	switch cfg.Backend {
	case config.TranscriberWhisperCpp:
		return whisper.NewCLI(cfg.BinaryPath, cfg.ModelsDir, exec, logger), nil
	case config.TranscriberHTTP:
		return whisper.NewWhisperClient(cfg.URL, logger), nil
	default:
		return nil, fmt.Errorf("unsupported transcriber backend %q", cfg.Backend)
	}
}
