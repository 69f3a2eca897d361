package audioring

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/smallnest/ringbuffer"
)

const sizePrefix = 4

var ErrFrameTooLarge = errors.New("audio frame too large for buffer")

type rb_impl struct {
	mu      sync.Mutex
	size    int
	dropped int
	rb      *ringbuffer.RingBuffer
}

// Capacity implements AudioRingBuffer.
func (r *rb_impl) Capacity() int {
	return r.size
}

// Dequeue implements AudioRingBuffer.
func (r *rb_impl) Dequeue() (AudioInput, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dequeue()
}

func (r *rb_impl) dequeue() (AudioInput, bool) {
	data, ok := r.readFrame()
	if !ok {
		return AudioInput{}, false
	}

	var frame AudioInput
	if err := frame.UnmarshalBinary(data); err != nil {
		return AudioInput{}, false
	}
	return frame, true
}

// readFrame pulls one size-prefixed record. The caller holds mu.
func (r *rb_impl) readFrame() ([]byte, bool) {
	if r.rb.IsEmpty() {
		return nil, false
	}

	prefix := make([]byte, sizePrefix)
	if n, err := r.rb.Read(prefix); err != nil || n != sizePrefix {
		r.rb.Reset()
		return nil, false
	}

	size := int(binary.LittleEndian.Uint32(prefix))
	data := make([]byte, size)
	if size > 0 {
		if n, err := r.rb.Read(data); err != nil || n != size {
			r.rb.Reset()
			return nil, false
		}
	}
	return data, true
}

// Enqueue implements AudioRingBuffer.
func (r *rb_impl) Enqueue(frame AudioInput) error {
	data, err := frame.MarshalBinary()
	if err != nil {
		return err
	}

	record := make([]byte, sizePrefix+len(data))
	binary.LittleEndian.PutUint32(record, uint32(len(data)))
	copy(record[sizePrefix:], data)

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(record) > r.rb.Capacity() {
		return ErrFrameTooLarge
	}

	for r.rb.Free() < len(record) {
		if _, ok := r.readFrame(); !ok {
			r.rb.Reset()
			break
		}
		r.dropped++
	}

	_, err = r.rb.Write(record)
	return err
}

// Drain implements AudioRingBuffer.
func (r *rb_impl) Drain(fn func(AudioInput) error) error {
	for {
		frame, ok := r.Dequeue()
		if !ok {
			return nil
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}

// Len implements AudioRingBuffer.
func (r *rb_impl) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rb.Length()
}

// Dropped implements AudioRingBuffer.
func (r *rb_impl) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func New(size int) AudioRingBuffer {
	return &rb_impl{
		size: size,
		rb:   ringbuffer.New(size).SetBlocking(false),
	}
}
