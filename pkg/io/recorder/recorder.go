package recorder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
	audioring "github.com/xpanvictor/voicewithin/pkg/io/stt/audioRing"
)

const (
	SampleRate = 16000
	Channels   = 1
	BitDepth   = 16
	FrameSize  = 1024

	// roughly 30s of audio between capture and disk
	ringCapacity = 1 << 20
)

var ErrDeviceUnavailable = errors.New("audio input device unavailable")

// Capture is an in-progress recording.
type Capture interface {
	Path() string
	StartedAt() time.Time
	Stop() (Artifact, error)
}

// Recorder writes microphone capture to WAV files in a temp directory.
type Recorder struct {
	dir    string
	mic    device.Microphone
	logger *Logger.Logger
	now    func() time.Time
}

func New(dir string, mic device.Microphone, logger *Logger.Logger) *Recorder {
	return &Recorder{
		dir:    dir,
		mic:    mic,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Dir() string {
	return r.dir
}

// EnsureDir creates the recordings directory if needed.
func (r *Recorder) EnsureDir() error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("create recordings dir: %w", err)
	}
	return nil
}

// Start creates the artifact and begins capturing into it. When the device
// cannot be opened the artifact is removed and ErrDeviceUnavailable is returned.
func (r *Recorder) Start(ctx context.Context) (Capture, error) {
	if err := r.EnsureDir(); err != nil {
		return nil, err
	}

	startedAt := r.now()
	f, err := createArtifact(r.dir, startedAt)
	if err != nil {
		return nil, err
	}

	stream, err := r.mic.Open(device.Format{
		SampleRate:      SampleRate,
		Channels:        Channels,
		FramesPerBuffer: FrameSize,
	})
	if err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	enc := wav.NewEncoder(f, SampleRate, BitDepth, Channels, 1)
	// header goes down immediately so even an empty take is a valid file
	if err := enc.Write(intBuffer(nil)); err != nil {
		_ = stream.Close()
		f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write wav header: %w", err)
	}

	h := &Handle{
		path:      f.Name(),
		startedAt: startedAt,
		file:      f,
		enc:       enc,
		stream:    stream,
		ring:      audioring.New(ringCapacity),
		logger:    r.logger,
		now:       r.now,
		stop:      make(chan struct{}),
		ready:     make(chan struct{}, 1),
		captured:  make(chan struct{}),
		written:   make(chan struct{}),
	}
	go h.capture()
	go h.write()

	r.logger.Infof("recording started: %s", h.path)
	return h, nil
}

// Handle is the running capture behind a Capture.
type Handle struct {
	path      string
	startedAt time.Time
	file      *os.File
	enc       *wav.Encoder
	stream    device.Stream
	ring      audioring.AudioRingBuffer
	logger    *Logger.Logger
	now       func() time.Time

	stop     chan struct{}
	ready    chan struct{}
	captured chan struct{}
	written  chan struct{}

	captureErr error
	writeErr   error

	once     sync.Once
	artifact Artifact
	err      error
}

func (h *Handle) Path() string {
	return h.path
}

func (h *Handle) StartedAt() time.Time {
	return h.startedAt
}

func (h *Handle) capture() {
	defer close(h.captured)
	for {
		select {
		case <-h.stop:
			return
		default:
		}

		samples, err := h.stream.Read()
		if err != nil {
			if !errors.Is(err, device.ErrStreamClosed) {
				h.captureErr = err
			}
			return
		}
		frame := audioring.FromSamples(samples, SampleRate, Channels, h.now())
		if err := h.ring.Enqueue(frame); err != nil {
			h.logger.Warnf("dropping audio frame: %v", err)
			continue
		}
		select {
		case h.ready <- struct{}{}:
		default:
		}
	}
}

func (h *Handle) write() {
	defer close(h.written)
	flush := func() bool {
		err := h.ring.Drain(func(frame audioring.AudioInput) error {
			return h.enc.Write(intBuffer(frame.Samples()))
		})
		if err != nil {
			h.writeErr = err
			return false
		}
		return true
	}

	for {
		select {
		case <-h.ready:
			if !flush() {
				return
			}
		case <-h.captured:
			flush()
			return
		}
	}
}

// Stop ends capture, flushes buffered audio and finalizes the WAV header.
// Safe to call more than once; later calls return the first result.
func (h *Handle) Stop() (Artifact, error) {
	h.once.Do(func() {
		close(h.stop)
		<-h.captured
		closeErr := h.stream.Close()
		<-h.written

		encErr := h.enc.Close()
		fileErr := h.file.Close()

		h.artifact = Artifact{
			Path:          h.path,
			StartedAt:     h.startedAt,
			Duration:      h.now().Sub(h.startedAt),
			DroppedFrames: h.ring.Dropped(),
		}
		if info, err := os.Stat(h.path); err == nil {
			h.artifact.SizeBytes = info.Size()
		}

		switch {
		case h.writeErr != nil:
			h.err = fmt.Errorf("write audio: %w", h.writeErr)
		case encErr != nil:
			h.err = fmt.Errorf("finalize wav: %w", encErr)
		case fileErr != nil:
			h.err = fmt.Errorf("close artifact: %w", fileErr)
		}
		if h.captureErr != nil {
			h.logger.Warnf("capture ended early: %v", h.captureErr)
		}
		if closeErr != nil {
			h.logger.Warnf("closing input stream: %v", closeErr)
		}
		if h.artifact.DroppedFrames > 0 {
			h.logger.Warnf("recording %s dropped %d frames", h.path, h.artifact.DroppedFrames)
		}
	})
	return h.artifact, h.err
}

func intBuffer(samples []int) *audio.IntBuffer {
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: Channels,
			SampleRate:  SampleRate,
		},
		Data:           samples,
		SourceBitDepth: BitDepth,
	}
}
