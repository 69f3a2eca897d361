package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xpanvictor/voicewithin/internal/config"
	"github.com/xpanvictor/voicewithin/internal/domains/summarizer"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/assistant"
	"github.com/xpanvictor/voicewithin/pkg/executor"
	"github.com/xpanvictor/voicewithin/pkg/io/recorder"
	"github.com/xpanvictor/voicewithin/pkg/io/stt/whisper"
)

const pingTimeout = 5 * time.Second

// Check is one prerequisite the doctor command reports on.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Doctor checks everything a recording needs before the first trigger.
type Doctor struct {
	cfg    *config.Settings
	exec   executor.Executor
	probe  func() (string, error)
	logger *Logger.Logger
}

// NewDoctor takes the microphone probe as a func so the check runs without
// audio hardware in tests.
func NewDoctor(cfg *config.Settings, exec executor.Executor, probe func() (string, error), logger *Logger.Logger) *Doctor {
	return &Doctor{cfg: cfg, exec: exec, probe: probe, logger: logger}
}

func (d *Doctor) Run(ctx context.Context) []Check {
	checks := []Check{d.microphone()}
	checks = append(checks, d.transcriber(ctx)...)
	checks = append(checks, d.summarizer(ctx), d.notesDir(), d.tempDir())
	return checks
}

// Healthy reports whether every check passed.
func Healthy(checks []Check) bool {
	for _, c := range checks {
		if !c.OK {
			return false
		}
	}
	return true
}

func (d *Doctor) microphone() Check {
	name, err := d.probe()
	if err != nil {
		return Check{"Microphone", false, fmt.Sprintf("%v. Check input permissions", err)}
	}
	return Check{"Microphone", true, name}
}

func (d *Doctor) transcriber(ctx context.Context) []Check {
	tc := d.cfg.Transcriber
	if tc.Backend == config.TranscriberHTTP {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := whisper.NewWhisperClient(tc.URL, d.logger).Ping(ctx); err != nil {
			return []Check{{"Whisper ASR service", false, fmt.Sprintf("not reachable at %s: %v", tc.URL, err)}}
		}
		return []Check{{"Whisper ASR service", true, tc.URL}}
	}

	var checks []Check
	if path, err := d.exec.LookPath(tc.BinaryPath); err != nil {
		checks = append(checks, Check{"whisper.cpp", false, fmt.Sprintf("%s not found. Build whisper.cpp or set transcriber.binary_path", tc.BinaryPath)})
	} else {
		checks = append(checks, Check{"whisper.cpp", true, path})
	}

	model := whisper.ModelFile(tc.ModelsDir)
	if _, err := os.Stat(model); err != nil {
		checks = append(checks, Check{"Speech model", false, fmt.Sprintf("%s missing. Download it with whisper.cpp's models/download-ggml-model.sh", model)})
	} else {
		checks = append(checks, Check{"Speech model", true, model})
	}
	return checks
}

func (d *Doctor) summarizer(ctx context.Context) Check {
	sc := d.cfg.Summarizer
	name := "Summarizer (" + sc.Backend + ")"

	a, err := NewAssistantFactory(sc, d.logger).Create()
	if err != nil {
		return Check{name, false, err.Error()}
	}
	pinger, ok := a.(assistant.Pinger)
	if !ok {
		return Check{name, true, "configured, reachability not checked"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pinger.Ping(ctx); err != nil {
		if summarizer.IsConnectionRefused(err) {
			return Check{name, false, fmt.Sprintf("nothing listening at %s. Notes will fall back to raw transcripts", sc.URL)}
		}
		return Check{name, false, err.Error()}
	}
	return Check{name, true, fmt.Sprintf("%s, model %s", sc.URL, sc.Model)}
}

func (d *Doctor) notesDir() Check {
	if err := writable(d.cfg.Notes.Dir); err != nil {
		return Check{"Notes directory", false, err.Error()}
	}
	return Check{"Notes directory", true, d.cfg.Notes.Dir}
}

func (d *Doctor) tempDir() Check {
	dir := d.cfg.TempDir()
	if err := writable(dir); err != nil {
		return Check{"Recordings directory", false, err.Error()}
	}
	kept, err := recorder.Preserved(dir)
	if err != nil || len(kept) == 0 {
		return Check{"Recordings directory", true, dir}
	}
	return Check{"Recordings directory", true, fmt.Sprintf("%s (%d preserved from failed runs)", dir, len(kept))}
}

func writable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	return errors.Join(f.Close(), os.Remove(name))
}
