package microphone

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

// PortAudio captures from the system default input device.
type PortAudio struct{}

func New() *PortAudio {
	return &PortAudio{}
}

// Open implements device.Microphone.
func (p *PortAudio) Open(format device.Format) (device.Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	buf := make([]int16, format.FramesPerBuffer*format.Channels)
	stream, err := portaudio.OpenDefaultStream(format.Channels, 0, float64(format.SampleRate), format.FramesPerBuffer, buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	return &paStream{stream: stream, buf: buf}, nil
}

// Probe reports the name of the default input device.
func Probe() (string, error) {
	if err := portaudio.Initialize(); err != nil {
		return "", fmt.Errorf("portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return "", fmt.Errorf("no default input device: %w", err)
	}
	return info.Name, nil
}

type paStream struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buf    []int16
	closed bool
}

func (s *paStream) Read() ([]int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, device.ErrStreamClosed
	}
	if err := s.stream.Read(); err != nil {
		// overflow only means samples were lost upstream; the buffer is still valid
		if err != portaudio.InputOverflowed {
			return nil, err
		}
	}
	out := make([]int16, len(s.buf))
	copy(out, s.buf)
	return out, nil
}

func (s *paStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	stopErr := s.stream.Stop()
	closeErr := s.stream.Close()
	termErr := portaudio.Terminate()
	for _, err := range []error{stopErr, closeErr, termErr} {
		if err != nil {
			return err
		}
	}
	return nil
}
