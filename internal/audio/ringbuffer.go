package audio

import (
	"encoding/binary"
	"sync"

	"github.com/alkime/knobs/pkg/uictl"
)

// RingBuffer keeps the most recent samples written to it. It is written by
// the audio callback and read by the UI, so it is safe for concurrent use.
type RingBuffer[S uictl.Number] struct {
	mu      sync.RWMutex
	samples []S
	head    int // next write position
	count   int // valid samples, up to capacity
}

// NewRingBuffer creates a ring buffer holding up to capacity samples.
func NewRingBuffer[S uictl.Number](capacity int) *RingBuffer[S] {
	return &RingBuffer[S]{samples: make([]S, max(1, capacity))}
}

// Write appends samples, overwriting the oldest once full.
func (b *RingBuffer[S]) Write(samples []S) {
	if len(samples) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.samples)
	if len(samples) > capacity {
		samples = samples[len(samples)-capacity:]
	}

	for _, sample := range samples {
		b.samples[b.head] = sample
		b.head = (b.head + 1) % capacity
	}

	b.count = min(capacity, b.count+len(samples))
}

// Last returns up to n of the most recent samples, oldest first.
func (b *RingBuffer[S]) Last(n int) []S {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n = min(n, b.count)
	if n <= 0 {
		return nil
	}

	capacity := len(b.samples)
	start := (b.head - n + capacity) % capacity
	out := make([]S, n)

	for i := range out {
		out[i] = b.samples[(start+i)%capacity]
	}

	return out
}

// Len returns the number of valid samples held.
func (b *RingBuffer[S]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.count
}

// Window exposes the last n samples as a Levels control.
func (b *RingBuffer[S]) Window(n int) uictl.Levels[S] {
	return window[S]{buf: b, n: n}
}

type window[S uictl.Number] struct {
	buf *RingBuffer[S]
	n   int
}

func (w window[S]) Read() []S {
	return w.buf.Last(w.n)
}

// BytesToInt16 converts S16LE bytes to samples. A trailing odd byte is dropped.
func BytesToInt16(data []byte) []int16 {
	n := len(data) / 2
	if n == 0 {
		return nil
	}

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:])) //nolint:gosec // two's complement reinterpretation
	}

	return samples
}

// Int16ToBytes converts samples to S16LE bytes.
func Int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s)) //nolint:gosec // two's complement reinterpretation
	}

	return out
}
