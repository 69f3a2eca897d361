package whisper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/executor"
	"github.com/xpanvictor/voicewithin/pkg/io/stt"
)

// CLI transcribes through a local whisper.cpp binary.
type CLI struct {
	binary    string
	modelPath string
	exec      executor.Executor
	logger    *Logger.Logger
}

func NewCLI(binary, modelsDir string, exec executor.Executor, logger *Logger.Logger) *CLI {
	return &CLI{
		binary:    binary,
		modelPath: ModelFile(modelsDir),
		exec:      exec,
		logger:    logger,
	}
}

// ModelFile is where whisper.cpp keeps the ggml weights for the fixed model.
func ModelFile(modelsDir string) string {
	return filepath.Join(modelsDir, "ggml-"+stt.ModelName+".bin")
}

func (c *CLI) ModelPath() string {
	return c.modelPath
}

func (c *CLI) Binary() string {
	return c.binary
}

// Transcribe implements stt.Transcriber.
func (c *CLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio file: %w", err)
	}

	c.logger.Debugf("running %s on %s", c.binary, audioPath)
	out, err := c.exec.Execute(ctx, c.binary,
		"-m", c.modelPath,
		"-f", audioPath,
		"-l", stt.Language,
		"-nt",
		"-np",
	)
	if err != nil {
		return "", fmt.Errorf("whisper.cpp: %w", err)
	}

	return stt.Normalize(out)
}
