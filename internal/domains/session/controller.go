package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	"github.com/xpanvictor/voicewithin/pkg/io/recorder"
)

// Controller owns the session state and reacts to triggers. At most one
// recording or pipeline run exists at any time; triggers that arrive while a
// note is processing are dropped.
type Controller struct {
	mu       sync.Mutex
	session  *Session
	recorder Recorder
	pipeline *Pipeline
	notifier Notifier
	logger   *Logger.Logger

	capture  recorder.Capture
	lastNote string
	lastErr  string
	closed   bool
	inflight sync.WaitGroup

	obsMu     sync.RWMutex
	observers []func(Transition)
}

func NewController(rec Recorder, pipeline *Pipeline, notifier Notifier, logger *Logger.Logger) *Controller {
	c := &Controller{
		recorder: rec,
		pipeline: pipeline,
		notifier: notifier,
		logger:   logger,
	}
	c.session = newSession(c.onEnter)
	return c
}

// OnTransition registers fn to run after every state change. fn runs while
// the controller is locked and must not call back into it.
func (c *Controller) OnTransition(fn func(Transition)) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Controller) onEnter(from, to State, ev Event) {
	t := Transition{
		From:      from,
		To:        to,
		Event:     ev,
		SessionID: c.session.ID,
		At:        time.Now(),
	}
	c.logger.Infow("session state changed", "from", from, "to", to, "event", ev, "session", t.SessionID)

	c.obsMu.RLock()
	defer c.obsMu.RUnlock()
	for _, fn := range c.observers {
		fn(t)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State()
}

// Toggle is the single entry point for the external trigger.
func (c *Controller) Toggle(ctx context.Context) {
	switch c.State() {
	case Idle:
		_ = c.Start(ctx)
	case Recording:
		_ = c.Stop(ctx)
	case Processing:
		c.logger.Warn("Still processing the previous note, ignoring trigger")
	}
}

// Start begins a recording. Only valid from Idle.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.session.Can(EvStart) {
		c.logger.Warn("Already recording, ignoring start request")
		c.mu.Unlock()
		return ErrNotIdle
	}

	capture, err := c.recorder.Start(ctx)
	if err != nil {
		c.lastErr = err.Error()
		c.mu.Unlock()
		c.logger.Errorf("failed to start recording: %v", err)
		c.notify(ctx, recordingFailed(err))
		return fmt.Errorf("start recording: %w", err)
	}

	c.capture = capture
	c.session.begin(capture.StartedAt())
	if err := c.session.fire(ctx, EvStart); err != nil {
		_, _ = capture.Stop()
		c.capture = nil
		c.session.clear()
		c.mu.Unlock()
		return fmt.Errorf("enter recording: %w", err)
	}
	id := c.session.ID
	c.mu.Unlock()

	c.notify(ctx, recordingStarted(id))
	return nil
}

// Stop finalizes the recording and hands it to the pipeline in the
// background. The pipeline does not inherit ctx cancellation.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.session.Can(EvStop) {
		c.logger.Warn("No active recording to stop")
		c.mu.Unlock()
		return ErrNotRecording
	}

	id := c.session.ID
	capture := c.capture
	c.capture = nil

	artifact, err := capture.Stop()
	if err != nil {
		c.lastErr = err.Error()
		_ = c.session.fire(ctx, EvReset)
		c.session.clear()
		c.mu.Unlock()
		c.logger.Errorw("failed to finalize recording", "session", id, "audio", capture.Path(), "error", err)
		c.notify(ctx, finalizeFailed(id, capture.Path(), err))
		return fmt.Errorf("stop recording: %w", err)
	}

	c.logger.Infow("recording stopped",
		"session", id,
		"duration_s", fmt.Sprintf("%.2f", artifact.Duration.Seconds()),
		"path", artifact.Path,
		"size_kb", fmt.Sprintf("%.2f", artifact.SizeKB()),
	)
	if err := c.session.fire(ctx, EvStop); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("enter processing: %w", err)
	}
	c.inflight.Add(1)
	c.mu.Unlock()

	c.notify(ctx, processingStarted(id, artifact.Path))
	go c.process(context.WithoutCancel(ctx), id, artifact)
	return nil
}

func (c *Controller) process(ctx context.Context, id uuid.UUID, artifact recorder.Artifact) {
	defer c.inflight.Done()

	outcome := c.pipeline.Process(ctx, id, artifact)

	c.mu.Lock()
	defer c.mu.Unlock()
	if outcome.NotePath != "" {
		c.lastNote = outcome.NotePath
	}
	c.lastErr = ""
	if outcome.Err != nil {
		c.lastErr = outcome.Err.Error()
	}
	if c.closed || c.session.ID != id {
		return
	}
	if err := c.session.fire(ctx, EvFinish); err != nil {
		c.logger.Errorf("could not return to idle: %v", err)
		return
	}
	c.session.clear()
}

// Wait blocks until the in-flight pipeline run, if any, has returned.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Shutdown stops an in-progress capture, keeping its audio, and refuses any
// further triggers. A running pipeline is abandoned, not awaited.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	switch c.session.State() {
	case Recording:
		artifact, err := c.capture.Stop()
		c.capture = nil
		if err != nil {
			c.logger.Warnf("recording interrupted by shutdown could not be finalized: %v", err)
		} else {
			c.logger.Infow("recording interrupted by shutdown, audio kept", "path", artifact.Path)
		}
		_ = c.session.fire(ctx, EvReset)
		c.session.clear()
	case Processing:
		c.logger.Warnw("shutting down with a note still processing", "session", c.session.ID)
	}
	return nil
}

// Snapshot returns the current state for status reporting.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:     c.session.State(),
		LastNote:  c.lastNote,
		LastError: c.lastErr,
	}
	if c.session.StartedAt != nil {
		id, startedAt := c.session.ID, *c.session.StartedAt
		snap.SessionID = &id
		snap.StartedAt = &startedAt
	}
	if c.capture != nil {
		snap.AudioPath = c.capture.Path()
	}
	return snap
}

func (c *Controller) notify(ctx context.Context, n device.Notification) {
	if err := c.notifier.Publish(ctx, n); err != nil {
		c.logger.Warnf("notification %s: %v", n.Kind, err)
	}
}
