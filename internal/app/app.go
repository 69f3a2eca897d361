package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/voicewithin/internal/config"
	"github.com/xpanvictor/voicewithin/internal/constants/prompts"
	"github.com/xpanvictor/voicewithin/internal/domains/note"
	"github.com/xpanvictor/voicewithin/internal/domains/session"
	"github.com/xpanvictor/voicewithin/internal/domains/summarizer"
	"github.com/xpanvictor/voicewithin/internal/handlers/websocket"
	noteRepo "github.com/xpanvictor/voicewithin/internal/repository/note"
	"github.com/xpanvictor/voicewithin/internal/server"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/assistant"
	"github.com/xpanvictor/voicewithin/pkg/executor"
	"github.com/xpanvictor/voicewithin/pkg/io"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	"github.com/xpanvictor/voicewithin/pkg/io/notify"
	"github.com/xpanvictor/voicewithin/pkg/io/recorder"
	"github.com/xpanvictor/voicewithin/pkg/io/registry"
	memoryregistry "github.com/xpanvictor/voicewithin/pkg/io/registry/memoryRegistry"
	"github.com/xpanvictor/voicewithin/pkg/io/stt"
	"github.com/xpanvictor/voicewithin/pkg/io/trigger"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger

	Registry    registry.Registry
	Publisher   *io.Publisher
	Connections *websocket.ConnectionManager

	Recorder    *recorder.Recorder
	Transcriber stt.Transcriber
	Assistant   assistant.Assistant
	Summarizer  *summarizer.Summarizer
	Notes       note.NoteService
	Pipeline    *session.Pipeline
	Controller  *session.Controller

	// Server is nil unless server.enabled is set.
	Server *server.Server
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger, mic device.Microphone) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.setupDependencies(mic); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies(mic device.Microphone) error {
	// 1. notification fan-out
	a.Registry = memoryregistry.New()
	a.Publisher = io.New(a.Registry, a.Logger)
	a.Connections = websocket.NewConnectionManager(a.Logger)

	sinks := []device.Endpoint{notify.NewLog(a.Logger), a.Connections}
	if a.Config.Notify.Desktop {
		sinks = append(sinks, notify.NewDesktop("VoiceWithin"))
	}
	for _, ep := range sinks {
		if err := a.Registry.AttachEndpoint(ep); err != nil {
			return fmt.Errorf("attach %s notifications: %w", ep.Name(), err)
		}
	}

	// 2. capture
	a.Recorder = recorder.New(a.Config.TempDir(), mic, a.Logger)
	if err := a.Recorder.EnsureDir(); err != nil {
		return err
	}

	// 3. speech to text and summarization backends
	transcriber, err := NewTranscriber(a.Config.Transcriber, executor.New(), a.Logger)
	if err != nil {
		return err
	}
	a.Transcriber = transcriber

	a.Assistant, err = NewAssistantFactory(a.Config.Summarizer, a.Logger).Create()
	if err != nil {
		return err
	}
	a.Summarizer = summarizer.New(a.Assistant, a.Logger)
	a.Logger.Debugf("summarize prompt version %.1f", prompts.SUMMARIZE_PROMPT.CurrentVersion)

	// 4. notes
	a.Notes = note.NewNoteService(noteRepo.NewMarkdownNoteRepo(a.Config.Notes.Dir), a.Logger)

	// 5. session
	a.Pipeline = session.NewPipeline(a.Transcriber, a.Summarizer, a.Notes, a.Publisher, a.Logger)
	a.Controller = session.NewController(a.Recorder, a.Pipeline, a.Publisher, a.Logger)
	a.Controller.OnTransition(a.Connections.PublishTransition)

	// 6. optional status server
	if a.Config.Server.Enabled {
		a.Server = server.New(server.NewServerDependencies(a.Controller, a.Connections, a.Logger, a.Config))
	}
	return nil
}

// Run reacts to triggers from src until ctx is done, then shuts down.
func (a *App) Run(ctx context.Context, src trigger.Source) error {
	a.reportPreserved()

	var serverErr <-chan error
	if a.Server != nil {
		if err := a.Server.Start(); err != nil {
			return err
		}
		serverErr = a.Server.Err()
	}

	a.Logger.Infow("ready",
		"hotkey", a.Config.Hotkey.Label,
		"trigger", a.Config.Hotkey.Source,
		"notes", a.Config.Notes.Dir,
	)

	for {
		select {
		case <-ctx.Done():
			return a.Shutdown(context.WithoutCancel(ctx), src)
		case <-src.C():
			a.Controller.Toggle(ctx)
		case err, ok := <-serverErr:
			if ok && err != nil {
				a.Logger.Warnf("status server stopped, continuing without it: %v", err)
			}
			serverErr = nil
		}
	}
}

// Shutdown releases the trigger, stops any capture (keeping its audio) and
// closes the status surface. An in-flight pipeline run is not awaited.
func (a *App) Shutdown(ctx context.Context, src trigger.Source) error {
	a.Logger.Info("shutting down")

	var errs []error
	if src != nil {
		if err := src.Close(); err != nil {
			errs = append(errs, fmt.Errorf("release trigger: %w", err))
		}
	}
	if err := a.Controller.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Publisher.Close(); err != nil {
		a.Logger.Debugf("closing notification sinks: %v", err)
	}
	return errors.Join(errs...)
}

func (a *App) reportPreserved() {
	kept, err := recorder.Preserved(a.Recorder.Dir())
	if err != nil {
		a.Logger.Warnf("could not list preserved recordings: %v", err)
		return
	}
	if len(kept) > 0 {
		a.Logger.Warnw("recordings from failed runs are still on disk", "count", len(kept), "dir", a.Recorder.Dir(), "oldest", kept[0])
	}
}
