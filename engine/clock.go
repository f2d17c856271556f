package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// TimeProvider supplies the current time; tests substitute StepTimeProvider
type TimeProvider interface {
	Now() time.Time
}

// SystemTimeProvider reads the wall clock with its monotonic reading
type SystemTimeProvider struct{}

// Now returns time.Now()
func (SystemTimeProvider) Now() time.Time {
	return time.Now()
}

// AnimationClock is the shared elapsed time for every color and motion animation
// Elapsed time only advances while the clock runs; Stop freezes it and Start resumes
type AnimationClock struct {
	mu       sync.RWMutex
	provider TimeProvider

	running     atomic.Bool
	startedAt   time.Time     // provider time of the latest Start
	accumulated time.Duration // elapsed before the latest Start
}

// NewAnimationClock creates a stopped clock reading time from p; nil uses the system clock
func NewAnimationClock(p TimeProvider) *AnimationClock {
	if p == nil {
		p = SystemTimeProvider{}
	}
	return &AnimationClock{provider: p}
}

// Start resumes elapsed time; returns false when already running
func (c *AnimationClock) Start() bool {
	if !c.running.CompareAndSwap(false, true) {
		return false
	}
	c.mu.Lock()
	c.startedAt = c.provider.Now()
	c.mu.Unlock()
	return true
}

// Stop freezes elapsed time; returns false when already stopped
func (c *AnimationClock) Stop() bool {
	if !c.running.CompareAndSwap(true, false) {
		return false
	}
	c.mu.Lock()
	if d := c.provider.Now().Sub(c.startedAt); d > 0 {
		c.accumulated += d
	}
	c.startedAt = time.Time{}
	c.mu.Unlock()
	return true
}

// IsRunning reports whether elapsed time is advancing
func (c *AnimationClock) IsRunning() bool {
	return c.running.Load()
}

// Elapsed returns total running time
func (c *AnimationClock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.accumulated
	if c.running.Load() && !c.startedAt.IsZero() {
		if d := c.provider.Now().Sub(c.startedAt); d > 0 {
			total += d
		}
	}
	return total
}

// Now returns the provider time, unaffected by Stop
func (c *AnimationClock) Now() time.Time {
	return c.provider.Now()
}

// Reset zeroes elapsed time, keeping the running state
func (c *AnimationClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accumulated = 0
	if c.running.Load() {
		c.startedAt = c.provider.Now()
	}
}
