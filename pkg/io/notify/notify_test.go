package notify

import (
	"errors"
	"testing"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

func TestDesktopDeliver(t *testing.T) {
	var gotTitle, gotBody string
	d := NewDesktop("VoiceWithin")
	d.notify = func(title, message string) error {
		gotTitle, gotBody = title, message
		return nil
	}

	tests := []struct {
		n         device.Notification
		wantTitle string
	}{
		{device.Notification{Title: "Note saved", Body: "2024-03-09.md"}, "VoiceWithin: Note saved"},
		{device.Notification{Body: "bare"}, "VoiceWithin"},
	}
	for _, tt := range tests {
		if err := d.Deliver(tt.n); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
		if gotTitle != tt.wantTitle || gotBody != tt.n.Body {
			t.Errorf("notify(%q, %q), want (%q, %q)", gotTitle, gotBody, tt.wantTitle, tt.n.Body)
		}
	}
}

func TestDesktopDeliverError(t *testing.T) {
	d := NewDesktop("VoiceWithin")
	boom := errors.New("no dbus session")
	d.notify = func(string, string) error { return boom }
	if err := d.Deliver(device.Notification{Title: "x"}); !errors.Is(err, boom) {
		t.Errorf("Deliver() error = %v, want %v", err, boom)
	}
}

func TestLogDeliver(t *testing.T) {
	l := NewLog(Logger.Nop())
	for _, sev := range []device.Severity{device.SeverityInfo, device.SeverityWarning, device.SeverityError} {
		n := device.Notification{Kind: device.KindNotesFailed, Severity: sev, Title: "t", Body: "b", AudioPath: "/tmp/a.wav"}
		if err := l.Deliver(n); err != nil {
			t.Errorf("Deliver() error = %v", err)
		}
	}
	if l.Name() != "log" || NewDesktop("x").Name() != "desktop" {
		t.Error("Unexpected endpoint names")
	}
}
