package audio

import (
	"sync"

	"github.com/gopxl/beep"
)

// Tap passes a beep.Streamer through unchanged while recording a mono copy
// into a ring buffer. The speaker goroutine writes, the render thread reads
type Tap struct {
	mu       sync.Mutex
	streamer beep.Streamer
	rate     beep.SampleRate
	ring     []float64
	pos      int
	filled   int
	closed   bool
}

// NewTap wraps s keeping the last capacity samples
func NewTap(s beep.Streamer, rate beep.SampleRate, capacity int) *Tap {
	if capacity < 1 {
		capacity = 1
	}
	return &Tap{
		streamer: s,
		rate:     rate,
		ring:     make([]float64, capacity),
	}
}

// Stream implements beep.Streamer
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed || t.streamer == nil {
		return 0, false
	}

	n, ok := t.streamer.Stream(samples)

	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.write((samples[i][0] + samples[i][1]) * 0.5)
	}
	t.mu.Unlock()
	return n, ok
}

// Err implements beep.Streamer
func (t *Tap) Err() error {
	if t.streamer == nil {
		return ErrNoSource
	}
	return t.streamer.Err()
}

// Write records mono samples directly, for hosts that feed raw buffers
func (t *Tap) Write(mono []float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	for _, v := range mono {
		t.write(v)
	}
	return nil
}

// write appends one sample; caller holds mu
func (t *Tap) write(v float64) {
	t.ring[t.pos] = v
	t.pos++
	if t.pos == len(t.ring) {
		t.pos = 0
	}
	if t.filled < len(t.ring) {
		t.filled++
	}
}

// Latest implements Source with a copy-out read
func (t *Tap) Latest(dst []float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := min(len(dst), t.filled)
	start := t.pos - n
	if start < 0 {
		start += len(t.ring)
	}
	first := copy(dst[:n], t.ring[start:min(start+n, len(t.ring))])
	copy(dst[first:n], t.ring[:n-first])
	return n
}

// SampleRate implements Source
func (t *Tap) SampleRate() int {
	return int(t.rate)
}

// Close detaches the tap; the wrapped streamer stops being pulled
func (t *Tap) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.closed = true
	t.filled = 0
	t.pos = 0
	return nil
}

// Closed reports whether Close was called
func (t *Tap) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
