package recorder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

type fakeMic struct {
	openErr error
	format  device.Format
	stream  *fakeStream
}

func (m *fakeMic) Open(format device.Format) (device.Stream, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.format = format
	m.stream = &fakeStream{size: format.FramesPerBuffer * format.Channels}
	return m.stream, nil
}

type fakeStream struct {
	mu     sync.Mutex
	size   int
	reads  int
	closed bool
}

func (s *fakeStream) Read() ([]int16, error) {
	time.Sleep(2 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, device.ErrStreamClosed
	}
	s.reads++
	buf := make([]int16, s.size)
	for i := range buf {
		buf[i] = int16(i % 128)
	}
	return buf, nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func TestArtifactName(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	if got, want := ArtifactName(ts), "recording-2024-01-02T03-04-05-678Z.wav"; got != want {
		t.Errorf("ArtifactName() = %q, want %q", got, want)
	}

	local := ts.In(time.FixedZone("UTC+2", 2*60*60))
	if got := ArtifactName(local); got != "recording-2024-01-02T03-04-05-678Z.wav" {
		t.Errorf("ArtifactName() should normalize to UTC, got %q", got)
	}
}

func TestCreateArtifactCollision(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := createArtifact(dir, ts)
	if err != nil {
		t.Fatalf("createArtifact() error = %v", err)
	}
	defer first.Close()

	second, err := createArtifact(dir, ts)
	if err != nil {
		t.Fatalf("createArtifact() on collision error = %v", err)
	}
	defer second.Close()

	if first.Name() == second.Name() {
		t.Fatal("Colliding artifacts must get distinct paths")
	}
	pattern := regexp.MustCompile(`^recording-2024-01-02T03-04-05-000Z-[0-9a-f]{8}\.wav$`)
	if !pattern.MatchString(filepath.Base(second.Name())) {
		t.Errorf("Unexpected collision name %q", filepath.Base(second.Name()))
	}
}

func TestRecorderStartStop(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "voicewithin")
	mic := &fakeMic{}
	rec := New(dir, mic, Logger.Nop())

	capture, err := rec.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if mic.format.SampleRate != SampleRate || mic.format.Channels != Channels {
		t.Errorf("Unexpected capture format %+v", mic.format)
	}
	if _, err := os.Stat(capture.Path()); err != nil {
		t.Errorf("Artifact should exist as soon as recording starts: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	artifact, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if artifact.Path != capture.Path() {
		t.Errorf("Artifact path %q, want %q", artifact.Path, capture.Path())
	}
	if artifact.SizeBytes <= 44 {
		t.Errorf("Expected audio data after the header, size %d", artifact.SizeBytes)
	}
	if artifact.Duration <= 0 {
		t.Errorf("Expected positive duration, got %v", artifact.Duration)
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("Artifact is not a valid WAV file")
	}
	if dec.SampleRate != SampleRate {
		t.Errorf("SampleRate = %d, want %d", dec.SampleRate, SampleRate)
	}
	if dec.NumChans != Channels {
		t.Errorf("NumChans = %d, want %d", dec.NumChans, Channels)
	}
	if dec.BitDepth != BitDepth {
		t.Errorf("BitDepth = %d, want %d", dec.BitDepth, BitDepth)
	}

	again, err := capture.Stop()
	if err != nil || again.Path != artifact.Path {
		t.Errorf("Second Stop() should return the first result, got %+v, %v", again, err)
	}
}

func TestRecorderDeviceUnavailable(t *testing.T) {
	dir := t.TempDir()
	rec := New(dir, &fakeMic{openErr: errors.New("no input device")}, Logger.Nop())

	_, err := rec.Start(context.Background())
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("Expected ErrDeviceUnavailable, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("No artifact should remain after a device failure, found %d", len(entries))
	}
}

func TestArtifactSizeKB(t *testing.T) {
	a := Artifact{SizeBytes: 2048}
	if a.SizeKB() != 2 {
		t.Errorf("SizeKB() = %v, want 2", a.SizeKB())
	}
}

func TestPreserved(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		ArtifactName(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)),
		ArtifactName(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		"notes.txt",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Preserved(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Preserved() = %v, want 2 recordings", got)
	}
	if filepath.Base(got[0]) != names[1] {
		t.Errorf("Oldest recording should come first, got %v", got)
	}

	if got, err := Preserved(filepath.Join(dir, "missing")); err != nil || len(got) != 0 {
		t.Errorf("Preserved() on missing dir = %v, %v", got, err)
	}
}
