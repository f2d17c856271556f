package renderers

import (
	"math"
	"testing"

	"github.com/lixenwraith/resonance/parameter/visual"
	"github.com/lixenwraith/resonance/status"
)

func TestPerfOverlay(t *testing.T) {
	reg := status.NewRegistry()
	o := NewPerfOverlay(reg)
	s := newCountingSurface(320, 200)

	// No frames measured yet: track only, zero-width fill is skipped
	o.Render(entityCtx(nil), s)
	if s.rects != 1 {
		t.Errorf("Expected track only before metrics, got %d rects", s.rects)
	}

	reg.Floats.Get(status.KeyFPS).Set(30)
	poor := status.TierPoor.String()
	reg.Labels.Get(status.KeyTier).Store(&poor)
	s.reset()
	o.Render(entityCtx(nil), s)
	if s.rects != 2 {
		t.Errorf("Expected track and fill, got %d rects", s.rects)
	}
	if c := o.tierColor(); c != visual.RgbTierPoor {
		t.Errorf("Expected poor tier color, got %v", c)
	}

	reg.Floats.Get(status.KeyFPS).Set(math.NaN())
	s.reset()
	o.Render(entityCtx(nil), s)
	if s.rects != 0 || s.bad != 0 {
		t.Errorf("NaN fps must draw nothing, rects=%d bad=%d", s.rects, s.bad)
	}
}
