package io

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	memoryregistry "github.com/xpanvictor/voicewithin/pkg/io/registry/memoryRegistry"
)

type recordingEndpoint struct {
	id       device.EndpointID
	name     string
	err      error
	received []device.Notification
	closed   bool
}

func newRecordingEndpoint(name string, err error) *recordingEndpoint {
	return &recordingEndpoint{id: device.EndpointID(uuid.New()), name: name, err: err}
}

func (r *recordingEndpoint) ID() device.EndpointID { return r.id }
func (r *recordingEndpoint) Name() string          { return r.name }
func (r *recordingEndpoint) Close() error          { r.closed = true; return nil }
func (r *recordingEndpoint) Deliver(n device.Notification) error {
	r.received = append(r.received, n)
	return r.err
}

func TestPublishFansOut(t *testing.T) {
	reg := memoryregistry.New()
	broken := newRecordingEndpoint("desktop", errors.New("no notification daemon"))
	healthy := newRecordingEndpoint("log", nil)
	_ = reg.AttachEndpoint(broken)
	_ = reg.AttachEndpoint(healthy)

	pub := New(reg, Logger.Nop())
	err := pub.Publish(context.Background(), device.Notification{Kind: device.KindNotesSaved, Title: "Note saved"})

	if err == nil {
		t.Error("Expected joined error from failing endpoint")
	}
	if len(broken.received) != 1 || len(healthy.received) != 1 {
		t.Fatalf("Every endpoint should receive the notification: %d, %d", len(broken.received), len(healthy.received))
	}
	if healthy.received[0].At.IsZero() {
		t.Error("Publish should stamp the notification time")
	}
}

func TestPublishNoEndpoints(t *testing.T) {
	pub := New(memoryregistry.New(), Logger.Nop())
	if err := pub.Publish(context.Background(), device.Notification{Kind: device.KindRecordingStarted}); err != nil {
		t.Errorf("Publish() with no endpoints error = %v", err)
	}
}

func TestPublisherClose(t *testing.T) {
	reg := memoryregistry.New()
	ep := newRecordingEndpoint("ws", nil)
	_ = reg.AttachEndpoint(ep)

	pub := New(reg, Logger.Nop())
	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !ep.closed {
		t.Error("Endpoint should be closed")
	}
	if len(reg.ListEndpoints()) != 0 {
		t.Error("Endpoints should be detached after Close")
	}
}
