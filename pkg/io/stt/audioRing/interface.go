package audioring

import (
	"encoding/binary"
	"errors"
	"time"
)

const headerSize = 8 + 4 + 2 + 4

var ErrShortFrame = errors.New("audio frame shorter than header")

// AudioInput is one captured block of little-endian 16-bit PCM.
type AudioInput struct {
	Data       []byte
	Timestamp  time.Time
	SampleRate int32
	Channels   int16
}

// FromSamples packs signed 16-bit samples into a frame.
func FromSamples(samples []int16, sampleRate int32, channels int16, at time.Time) AudioInput {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return AudioInput{
		Data:       data,
		Timestamp:  at,
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// Samples unpacks the frame into ints, the representation the wav encoder takes.
func (a AudioInput) Samples() []int {
	out := make([]int, len(a.Data)/2)
	for i := range out {
		out[i] = int(int16(binary.LittleEndian.Uint16(a.Data[i*2:])))
	}
	return out
}

// Duration is the playback length of the frame.
func (a AudioInput) Duration() time.Duration {
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return 0
	}
	samples := len(a.Data) / 2 / int(a.Channels)
	return time.Duration(samples) * time.Second / time.Duration(a.SampleRate)
}

// MarshalBinary layout: timestamp(8) + sampleRate(4) + channels(2) + dataLen(4) + data
func (a *AudioInput) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+len(a.Data))

	binary.LittleEndian.PutUint64(buf[0:], uint64(a.Timestamp.UnixNano()))
	binary.LittleEndian.PutUint32(buf[8:], uint32(a.SampleRate))
	binary.LittleEndian.PutUint16(buf[12:], uint16(a.Channels))
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(a.Data)))
	copy(buf[headerSize:], a.Data)

	return buf, nil
}

func (a *AudioInput) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return ErrShortFrame
	}

	a.Timestamp = time.Unix(0, int64(binary.LittleEndian.Uint64(data[0:])))
	a.SampleRate = int32(binary.LittleEndian.Uint32(data[8:]))
	a.Channels = int16(binary.LittleEndian.Uint16(data[12:]))

	dataLen := int(binary.LittleEndian.Uint32(data[14:]))
	if len(data[headerSize:]) < dataLen {
		return ErrShortFrame
	}
	a.Data = make([]byte, dataLen)
	copy(a.Data, data[headerSize:headerSize+dataLen])

	return nil
}

// AudioRingBuffer decouples the capture loop from the file writer. When full,
// the oldest frame is evicted so capture never blocks.
type AudioRingBuffer interface {
	Enqueue(frame AudioInput) error
	Dequeue() (AudioInput, bool)
	// Drain dequeues every buffered frame in order, stopping at the first error from fn.
	Drain(fn func(AudioInput) error) error
	Len() int
	Capacity() int
	// Dropped counts frames evicted to make room.
	Dropped() int
}
