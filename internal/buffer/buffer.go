// Package buffer accumulates captured audio for exactly one session.
package buffer

import "sync"

// SampleBuffer is an append-only accumulator of mono float32 chunks.
// One buffer belongs to one recording session: Append copies the incoming
// chunk, Drain concatenates and consumes the contents exactly once, and a
// drained buffer silently ignores further appends so a stale capture
// callback can never leak samples into a later session.
type SampleBuffer struct {
	mu      sync.Mutex
	chunks  [][]float32
	samples int
	drained bool
}

func New() *SampleBuffer {
	return &SampleBuffer{}
}

// Append copies chunk into the buffer. No-op for empty chunks and for
// buffers that have already been drained.
func (b *SampleBuffer) Append(chunk []float32) {
	if len(chunk) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drained {
		return
	}

	copied := make([]float32, len(chunk))
	copy(copied, chunk)
	b.chunks = append(b.chunks, copied)
	b.samples += len(copied)
}

// Len reports the total number of buffered samples.
func (b *SampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.samples
}

// Drain concatenates all chunks into one continuous slice and marks the
// buffer consumed. A second Drain, or a Drain of an empty buffer, returns
// nil.
func (b *SampleBuffer) Drain() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drained {
		return nil
	}
	b.drained = true

	if b.samples == 0 {
		b.chunks = nil
		return nil
	}

	out := make([]float32, 0, b.samples)
	for _, chunk := range b.chunks {
		out = append(out, chunk...)
	}
	b.chunks = nil
	b.samples = 0
	return out
}
