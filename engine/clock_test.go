package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/resonance/parameter"
)

func TestAnimationClock(t *testing.T) {
	tp := NewStepTimeProvider(t0)
	c := NewAnimationClock(tp)

	tp.Advance(time.Second)
	if c.Elapsed() != 0 {
		t.Errorf("Stopped clock advanced: %v", c.Elapsed())
	}

	if !c.Start() {
		t.Fatal("Expected first Start to succeed")
	}
	if c.Start() {
		t.Error("Expected second Start to report already running")
	}
	tp.Advance(2 * time.Second)
	if got := c.Elapsed(); got != 2*time.Second {
		t.Errorf("Elapsed = %v, want 2s", got)
	}

	if !c.Stop() || c.Stop() {
		t.Error("Expected exactly one successful Stop")
	}
	tp.Advance(5 * time.Second)
	if got := c.Elapsed(); got != 2*time.Second {
		t.Errorf("Frozen clock moved: %v", got)
	}

	c.Start()
	tp.Advance(500 * time.Millisecond)
	if got := c.Elapsed(); got != 2500*time.Millisecond {
		t.Errorf("Resumed Elapsed = %v, want 2.5s", got)
	}
	if !c.Now().Equal(tp.Now()) {
		t.Error("Now must follow the provider")
	}

	c.Reset()
	tp.Advance(100 * time.Millisecond)
	if got := c.Elapsed(); got != 100*time.Millisecond {
		t.Errorf("Elapsed after Reset = %v, want 100ms", got)
	}
}

func TestAnimationClockBackwardsTime(t *testing.T) {
	tp := NewStepTimeProvider(t0)
	c := NewAnimationClock(tp)
	c.Start()
	tp.Set(t0.Add(-time.Minute))
	if got := c.Elapsed(); got != 0 {
		t.Errorf("Elapsed must not go negative, got %v", got)
	}
}

func TestStepTimeProvider(t *testing.T) {
	tests := []struct {
		name  string
		step  time.Duration
		steps int
		want  time.Duration
	}{
		{"default frame interval", 0, 3, 3 * parameter.FrameUpdateInterval},
		{"custom interval", 20 * time.Millisecond, 5, 100 * time.Millisecond},
		{"negative restores default", -time.Second, 2, 2 * parameter.FrameUpdateInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := NewStepTimeProvider(t0)
			if tt.step != 0 {
				tp.SetStep(tt.step)
			}
			var last time.Time
			for i := 0; i < tt.steps; i++ {
				last = tp.Step()
			}
			if got := last.Sub(t0); got != tt.want {
				t.Errorf("Elapsed after %d steps = %v, want %v", tt.steps, got, tt.want)
			}
			if !tp.Now().Equal(last) {
				t.Errorf("Now %v differs from last step %v", tp.Now(), last)
			}
		})
	}
}
