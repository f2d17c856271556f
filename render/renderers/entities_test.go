package renderers

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/resonance/palette"
	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/systems"
)

func entityCtx(paints *render.PaintCache) render.RenderContext {
	return render.RenderContext{
		Now:        epoch,
		Elapsed:    1.5,
		DeltaTime:  0.016,
		Width:      800,
		Height:     600,
		PixelRatio: 1,
		Colors:     palette.Wheel{},
		Paints:     paints,
	}
}

func TestBlobRendererSkipsDegenerate(t *testing.T) {
	blobs := systems.NewBlobSystem(systems.DefaultBlobConfig(), 1, nil)
	blobs.Resize(800, 600)
	a := blobs.Spawn("a", "C", 4, 261.6, 0.3, 0.3, epoch)
	blobs.Spawn("b", "G", 4, 392, 0.7, 0.6, epoch)
	blobs.Advance(epoch.Add(200*time.Millisecond), 800, 600)

	r := NewBlobRenderer(blobs)
	s := newCountingSurface(800, 600)
	r.Render(entityCtx(nil), s)
	if s.fills != 2 {
		t.Fatalf("Expected 2 blob fills, got %d", s.fills)
	}
	if s.strokes != 2 {
		t.Errorf("Expected 2 glow rings, got %d", s.strokes)
	}

	// A glitched blob is skipped for the frame but not destroyed
	x := a.X
	a.X = math.NaN()
	s.reset()
	r.Render(entityCtx(nil), s)
	if s.fills != 1 {
		t.Errorf("Expected degenerate blob skipped, got %d fills", s.fills)
	}
	if blobs.Count() != 2 {
		t.Errorf("Degenerate blob must not be destroyed, count=%d", blobs.Count())
	}

	a.X = x
	s.reset()
	r.Render(entityCtx(nil), s)
	if s.fills != 2 {
		t.Errorf("Blob should draw again once healed, got %d fills", s.fills)
	}
}

func TestBlobRendererGradientCache(t *testing.T) {
	blobs := systems.NewBlobSystem(systems.DefaultBlobConfig(), 1, nil)
	blobs.Resize(800, 600)
	blobs.Spawn("a", "C", 4, 261.6, 0.3, 0.3, epoch)
	blobs.Spawn("b", "C", 4, 261.6, 0.6, 0.3, epoch)
	blobs.Advance(epoch.Add(100*time.Millisecond), 800, 600)

	paints := render.NewPaintCache(16, 16)
	r := NewBlobRenderer(blobs)
	s := newCountingSurface(800, 600)
	for i := 0; i < 3; i++ {
		r.Render(entityCtx(paints), s)
	}
	if paints.GradientLen() != 1 {
		t.Errorf("Same note colors should share one gradient, got %d", paints.GradientLen())
	}
}

func TestBlobRendererDegraded(t *testing.T) {
	blobs := systems.NewBlobSystem(systems.DefaultBlobConfig(), 1, nil)
	blobs.Resize(800, 600)
	blobs.Spawn("a", "D", 4, 293.7, 0.5, 0.5, epoch)
	blobs.Advance(epoch.Add(100*time.Millisecond), 800, 600)

	r := NewBlobRenderer(blobs)
	s := newCountingSurface(800, 600)
	ctx := entityCtx(nil)
	ctx.Degraded = true
	r.Render(ctx, s)
	if s.fills != 1 || s.strokes != 0 {
		t.Errorf("Degraded frame should fill without glow, fills=%d strokes=%d", s.fills, s.strokes)
	}
	if r.segs != systems.DefaultBlobConfig().Segments/2 {
		t.Errorf("Degraded segments = %d", r.segs)
	}
}

func TestParticleRenderer(t *testing.T) {
	ps := systems.NewParticleSystem(systems.DefaultParticleConfig(), 1, nil)
	c := color.NRGBA{200, 100, 50, 255}
	ps.Spawn(100, 100, c, systems.ShapeStar, 3)
	ps.Spawn(200, 200, c, systems.ShapeSparkle, 2)
	ps.Advance(50 * time.Millisecond)

	r := NewParticleRenderer(ps)
	s := newCountingSurface(800, 600)
	r.Render(entityCtx(nil), s)
	if s.fills != 3 {
		t.Errorf("Expected 3 filled stars, got %d", s.fills)
	}
	if s.strokes != 2 {
		t.Errorf("Expected 2 stroked sparkles, got %d", s.strokes)
	}

	// Freshly spawned particles have zero alpha and are not drawn
	ps.Clear()
	ps.Spawn(0, 0, c, systems.ShapeCircle, 4)
	s.reset()
	r.Render(entityCtx(nil), s)
	if s.fills+s.strokes != 0 {
		t.Errorf("Zero-alpha particles should be skipped, got %d draws", s.fills+s.strokes)
	}
}

func TestStringRenderer(t *testing.T) {
	cfg := systems.DefaultStringConfig()
	ss := systems.NewStringSystem(cfg)
	ss.Initialize(4, 800)
	for i := 0; i < 60; i++ {
		ss.Update(map[int]float64{1: 440}, 1.0/60)
	}

	r := NewStringRenderer(ss)
	s := newCountingSurface(800, 600)
	r.Render(entityCtx(nil), s)

	// Four strings plus one glow pass for the driven string
	if s.strokes != 5 {
		t.Errorf("Expected 5 strokes, got %d", s.strokes)
	}
}

func TestStringOffsetPinnedEnds(t *testing.T) {
	for _, phase := range []float64{0, 1, 2.5, 5} {
		if v := StringOffset(20, phase, 0); math.Abs(v) > 1e-9 {
			t.Errorf("Top end moved: %f", v)
		}
		if v := StringOffset(20, phase, 1); math.Abs(v) > 1e-9 {
			t.Errorf("Bottom end moved: %f", v)
		}
		if v := StringOffset(20, phase, 0.5); math.Abs(v) > 20 {
			t.Errorf("Midpoint exceeds amplitude: %f", v)
		}
	}
	if StringOffset(0, 1, 0.5) != 0 {
		t.Error("Zero amplitude should not move")
	}
}
