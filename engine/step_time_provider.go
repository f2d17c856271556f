package engine

import (
	"sync"
	"time"

	"github.com/lixenwraith/resonance/parameter"
)

// StepTimeProvider is a TimeProvider that only moves when told to
// Drives frames deterministically in tests and headless runs
type StepTimeProvider struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepTimeProvider starts at start, stepping one frame interval per Step
func NewStepTimeProvider(start time.Time) *StepTimeProvider {
	return &StepTimeProvider{now: start, step: parameter.FrameUpdateInterval}
}

func (p *StepTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// Set jumps to t, backwards included
func (p *StepTimeProvider) Set(t time.Time) {
	p.mu.Lock()
	p.now = t
	p.mu.Unlock()
}

// Advance moves forward by d and returns the new time
func (p *StepTimeProvider) Advance(d time.Duration) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
	return p.now
}

// SetStep changes the Step interval; non-positive restores the default frame interval
func (p *StepTimeProvider) SetStep(d time.Duration) {
	if d <= 0 {
		d = parameter.FrameUpdateInterval
	}
	p.mu.Lock()
	p.step = d
	p.mu.Unlock()
}

// Step advances one frame interval
func (p *StepTimeProvider) Step() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(p.step)
	return p.now
}
