package renderers

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/resonance/audio"
	"github.com/lixenwraith/resonance/palette"
	"github.com/lixenwraith/resonance/render"
)

// toneSource serves a fixed sine block
type toneSource struct {
	samples []float64
	closed  bool
}

func newToneSource(n int, amp, freq float64) *toneSource {
	s := &toneSource{samples: make([]float64, n)}
	for i := range s.samples {
		s.samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/audio.DefaultSampleRate)
	}
	return s
}

func (s *toneSource) Latest(dst []float64) int {
	n := min(len(dst), len(s.samples))
	copy(dst, s.samples[len(s.samples)-n:])
	return n
}

func (s *toneSource) SampleRate() int { return audio.DefaultSampleRate }

func (s *toneSource) Close() error {
	s.closed = true
	return nil
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func scopeFrame(i int, w, h int) render.RenderContext {
	return render.RenderContext{
		Now:        epoch.Add(time.Duration(i) * 16 * time.Millisecond),
		Elapsed:    float64(i) * 0.016,
		DeltaTime:  0.016,
		Frame:      uint64(i),
		Width:      w,
		Height:     h,
		PixelRatio: 1,
	}
}

func TestScopeNoSource(t *testing.T) {
	r := NewScopeRenderer(DefaultScopeConfig(), 1)
	if err := r.Initialize(context.Background(), 800, 600, nil); err == nil {
		t.Fatal("Expected error without a source")
	}
	if r.IsActive() {
		t.Error("Scope must stay inert after a failed initialize")
	}
	s := newCountingSurface(800, 600)
	r.Render(scopeFrame(1, 800, 600), s)
	if s.strokes+s.images != 0 {
		t.Error("Inert scope should draw nothing")
	}
}

func TestScopeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewScopeRenderer(DefaultScopeConfig(), 1)
	if err := r.Initialize(ctx, 800, 600, newToneSource(2048, 0.5, 440)); err == nil {
		t.Error("Expected error from canceled context")
	}
}

func TestScopeResize(t *testing.T) {
	cfg := DefaultScopeConfig()
	cfg.TrailStrength = 0
	r := NewScopeRenderer(cfg, 7)
	if err := r.Initialize(context.Background(), 400, 300, newToneSource(2048, 0.5, 440)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	before := r.TargetRadius()

	r.Resize(1200, 900)
	want := math.Min(math.Max(900*cfg.SizeRatio, cfg.MinSize), cfg.MaxSize)
	if r.TargetRadius() != want {
		t.Errorf("Target radius = %f, want %f", r.TargetRadius(), want)
	}
	if r.TargetRadius() == before {
		t.Error("Target radius should change with surface size")
	}

	s := newCountingSurface(1200, 900)
	prevGap := math.Abs(r.Radius() - want)
	for i := 1; i <= 60; i++ {
		r.Render(scopeFrame(i, 1200, 900), s)
		cx, cy := r.Center()
		if cx < 0.2*1200 || cx > 0.8*1200 || cy < 0.1*900 || cy > 0.5*900 {
			t.Fatalf("Center (%f, %f) outside the 1200x900 drift box", cx, cy)
		}
	}
	if gap := math.Abs(r.Radius() - want); gap >= prevGap {
		t.Errorf("Radius should ease toward %f: gap %f → %f", want, prevGap, gap)
	}
	if s.strokes == 0 {
		t.Error("Expected trace strokes once faded in")
	}
}

func TestScopeFadeIn(t *testing.T) {
	cfg := DefaultScopeConfig()
	cfg.TrailStrength = 0
	r := NewScopeRenderer(cfg, 1)
	if err := r.Initialize(context.Background(), 320, 240, newToneSource(2048, 0.5, 440)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	s := newCountingSurface(320, 240)

	// First frame starts the fade-in at zero visibility
	r.Render(scopeFrame(1, 320, 240), s)
	if s.strokes != 0 {
		t.Errorf("Nothing should be visible on the first frame, got %d strokes", s.strokes)
	}
	r.Render(scopeFrame(20, 320, 240), s)
	if s.strokes == 0 {
		t.Error("Trace should appear as the fade-in progresses")
	}
	if lvl := r.Level(); lvl <= 0 || lvl > 1 {
		t.Errorf("Level %f out of (0, 1]", lvl)
	}
}

func TestScopeTrail(t *testing.T) {
	r := NewScopeRenderer(DefaultScopeConfig(), 1)
	if err := r.Initialize(context.Background(), 200, 150, newToneSource(2048, 0.5, 440)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	s := newCountingSurface(200, 150)
	for i := 1; i <= 3; i++ {
		r.Render(scopeFrame(i*20, 200, 150), s)
	}
	if s.images != 3 {
		t.Errorf("Expected the trail composited every frame, got %d", s.images)
	}
	if s.strokes != 0 {
		t.Errorf("Trace should be drawn into the trail, not the surface: %d strokes", s.strokes)
	}
}

func TestScopeDegradedSkipsTrail(t *testing.T) {
	r := NewScopeRenderer(DefaultScopeConfig(), 1)
	if err := r.Initialize(context.Background(), 640, 480, newToneSource(2048, 0.5, 220)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	s := newCountingSurface(640, 480)
	for _, i := range []int{1, 40} {
		ctx := scopeFrame(i, 640, 480)
		ctx.Degraded = true
		r.Render(ctx, s)
	}
	if s.images != 0 {
		t.Error("Degraded frame should not composite the trail")
	}
	if s.strokes == 0 {
		t.Error("Degraded frame should still draw the trace")
	}
}

func TestScopeFadeOut(t *testing.T) {
	cfg := DefaultScopeConfig()
	r := NewScopeRenderer(cfg, 1)
	src := newToneSource(2048, 0.5, 440)
	if err := r.Initialize(context.Background(), 800, 600, src); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	s := newCountingSurface(800, 600)
	r.Render(scopeFrame(1, 800, 600), s)

	cfg.Enabled = false
	r.SetConfig(cfg)
	r.StartFadeOut(epoch)
	r.Render(render.RenderContext{Now: epoch.Add(cfg.ScaleOut / 2), DeltaTime: 0.016, Width: 800, Height: 600}, s)
	if !r.IsActive() {
		t.Fatal("Scope should stay active mid fade")
	}
	if !r.IsVisible() {
		t.Error("Disabled scope should stay visible while fading out")
	}
	r.Render(render.RenderContext{Now: epoch.Add(cfg.ScaleOut), DeltaTime: 0.016, Width: 800, Height: 600}, s)
	if r.IsActive() {
		t.Error("Scope should deactivate when the fade completes")
	}
	if r.IsVisible() {
		t.Error("Disabled scope should hide once faded out")
	}

	r.Cleanup()
	if !src.closed {
		t.Error("Cleanup should close the source")
	}
}

func TestScopeScale(t *testing.T) {
	if ScopeScale(0, 3) != 0 {
		t.Error("Zero maps to zero")
	}
	prev := -1.0
	for v := -2.0; v <= 2.0; v += 0.05 {
		got := ScopeScale(v, 3)
		if got <= -1 || got >= 1 {
			t.Fatalf("ScopeScale(%f) = %f escapes (-1, 1)", v, got)
		}
		if got < prev {
			t.Fatalf("ScopeScale not monotonic at %f", v)
		}
		prev = got
	}
	if ScopeScale(math.NaN(), 3) != 0 || ScopeScale(math.Inf(1), 3) != 0 {
		t.Error("Non-finite input should map to zero")
	}
}

func TestScopeColorIndex(t *testing.T) {
	tests := []struct {
		name    string
		level   float64
		elapsed float64
		n       int
		want    int
	}{
		{"no scale", 0.5, 0, 0, -1},
		{"quiet cycles with time", 0.01, 3.5, 7, 3},
		{"quiet wraps", 0.0, 9.2, 7, 2},
		{"loud picks by level", 0.5, 0, 7, 3},
		{"full level clamps", 1.0, 0, 7, 6},
		{"nan level cycles", math.NaN(), 1.5, 7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopeColorIndex(tt.level, tt.elapsed, 0.05, tt.n); got != tt.want {
				t.Errorf("ScopeColorIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScopeActiveNoteColor(t *testing.T) {
	r := NewScopeRenderer(DefaultScopeConfig(), 1)
	if err := r.Initialize(context.Background(), 800, 600, newToneSource(2048, 0.5, 440)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	sc, _ := palette.NewScale("C", palette.Major)
	ctx := scopeFrame(1, 800, 600)
	ctx.Scale = sc
	ctx.Colors = palette.ProviderFunc(func(note string, _ palette.Mode, _ int) palette.NoteColors {
		return palette.NoteColors{Primary: "#ff0000"}
	})
	ctx.ActiveNote = "E"

	c, a := r.strokeColor(&ctx)
	if c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("Active note color not used: %v", c)
	}
	if a <= 0 || a > 1 {
		t.Errorf("Alpha %f out of range", a)
	}
}
