package renderers

import (
	"image/color"
	"sync/atomic"

	"github.com/lixenwraith/resonance/parameter/visual"
	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/status"
	"github.com/lixenwraith/resonance/vmath"
)

// Overlay geometry in logical pixels
const (
	overlayMargin = 6.0
	overlayWidth  = 64.0
	overlayHeight = 4.0
	overlayFPS    = 60.0
)

// PerfOverlay draws a frame rate bar tinted by quality tier
// Reads only published registry values, never the monitor itself
type PerfOverlay struct {
	fps  *status.AtomicFloat
	tier *atomic.Pointer[string]
}

// NewPerfOverlay creates the overlay over the monitor's published metrics
func NewPerfOverlay(reg *status.Registry) *PerfOverlay {
	return &PerfOverlay{
		fps:  reg.Floats.Get(status.KeyFPS),
		tier: reg.Labels.Get(status.KeyTier),
	}
}

// Render draws the track and the fill bar at the top left corner
func (o *PerfOverlay) Render(_ render.RenderContext, s render.Surface) {
	fps := o.fps.Get()
	if !vmath.IsFinite(fps) {
		return
	}
	s.FillRect(overlayMargin, overlayMargin, overlayWidth, overlayHeight, render.Solid(visual.RgbOverlayTrack, 0.8))
	if w := overlayWidth * vmath.Clamp01(fps/overlayFPS); w > 0 {
		s.FillRect(overlayMargin, overlayMargin, w, overlayHeight, render.Solid(o.tierColor(), 0.9))
	}
}

func (o *PerfOverlay) tierColor() color.NRGBA {
	p := o.tier.Load()
	if p == nil {
		return visual.RgbTierExcellent
	}
	switch *p {
	case status.TierGood.String():
		return visual.RgbTierGood
	case status.TierFair.String():
		return visual.RgbTierFair
	case status.TierPoor.String():
		return visual.RgbTierPoor
	default:
		return visual.RgbTierExcellent
	}
}
