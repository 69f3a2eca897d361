package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xpanvictor/voicewithin/internal/domains/summarizer"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	"github.com/xpanvictor/voicewithin/pkg/io/recorder"
)

type fakeCapture struct {
	path      string
	startedAt time.Time
	stopErr   error
	stops     int
}

func (f *fakeCapture) Path() string         { return f.path }
func (f *fakeCapture) StartedAt() time.Time { return f.startedAt }
func (f *fakeCapture) Stop() (recorder.Artifact, error) {
	f.stops++
	if f.stopErr != nil {
		return recorder.Artifact{}, f.stopErr
	}
	return recorder.Artifact{Path: f.path, SizeBytes: 3200, Duration: 1500 * time.Millisecond, StartedAt: f.startedAt}, nil
}

type fakeRecorder struct {
	t        *testing.T
	dir      string
	startErr error
	stopErr  error
	started  []*fakeCapture
}

func (f *fakeRecorder) Start(ctx context.Context) (recorder.Capture, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	at := time.Now()
	path := filepath.Join(f.dir, recorder.ArtifactName(at.Add(time.Duration(len(f.started))*time.Millisecond)))
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		f.t.Fatal(err)
	}
	c := &fakeCapture{path: path, startedAt: at, stopErr: f.stopErr}
	f.started = append(f.started, c)
	return c, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	gate  chan struct{}
	calls int
	mu    sync.Mutex
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.text, f.err
}

type fakeSummarizer struct {
	result summarizer.Result
	got    string
}

func (f *fakeSummarizer) Decide(ctx context.Context, transcript string) summarizer.Result {
	f.got = transcript
	return f.result
}

type savedNote struct {
	text     string
	fallback bool
}

type fakeNotes struct {
	path  string
	err   error
	saved []savedNote
}

func (f *fakeNotes) Save(ctx context.Context, text string, fallback bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, savedNote{text: text, fallback: fallback})
	return f.path, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []device.Notification
}

func (f *fakeNotifier) Publish(ctx context.Context, n device.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) kinds() []device.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]device.Kind, 0, len(f.sent))
	for _, n := range f.sent {
		out = append(out, n.Kind)
	}
	return out
}

func (f *fakeNotifier) last() device.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func sameKinds(got, want []device.Kind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
