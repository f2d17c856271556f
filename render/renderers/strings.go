package renderers

import (
	"math"

	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/systems"
	"github.com/lixenwraith/resonance/vmath"
)

// stringModes are relative weights of the first three standing-wave modes
var stringModes = [3]struct {
	weight, phase float64
}{
	{0.6, 1.0},
	{0.3, 1.7},
	{0.1, -0.6},
}

// StringRenderer draws vertical strings as damped standing waves
type StringRenderer struct {
	strings *systems.StringSystem
	path    render.Path
}

// NewStringRenderer creates the string layer over the given system
func NewStringRenderer(strings *systems.StringSystem) *StringRenderer {
	return &StringRenderer{strings: strings}
}

// IsVisible implements render.VisibilityToggle
func (r *StringRenderer) IsVisible() bool { return r.strings.Config().Enabled }

// Render samples each string top to bottom; ends are pinned by sin(pi*t)
func (r *StringRenderer) Render(ctx render.RenderContext, s render.Surface) {
	h := float64(ctx.Height)
	if h <= 0 {
		return
	}
	cfg := r.strings.Config()
	samples := max(cfg.Samples, 2)

	strs := r.strings.Strings()
	for i := range strs {
		st := &strs[i]
		if st.Opacity <= 0 || !vmath.AllFinite(st.X, st.Amplitude, st.Phase, st.Opacity) {
			continue
		}

		r.path.Reset()
		for k := 0; k <= samples; k++ {
			t := float64(k) / float64(samples)
			r.path.LineTo(st.X+StringOffset(st.Amplitude, st.Phase, t), t*h)
		}

		if st.Active && st.Amplitude > cfg.GlowThreshold {
			s.StrokePath(&r.path, cfg.GlowWidth, render.Solid(st.Color, st.Opacity*0.3).With(render.BlendAdd))
		}
		s.StrokePath(&r.path, cfg.LineWidth, render.Solid(st.Color, st.Opacity))
	}
}

// StringOffset is the horizontal displacement at normalized height t in [0, 1]
func StringOffset(amplitude, phase, t float64) float64 {
	damp := math.Sin(math.Pi * t)
	var sum float64
	for k, m := range stringModes {
		n := float64(k + 1)
		sum += m.weight * math.Sin(n*math.Pi*t+phase*m.phase)
	}
	return amplitude * damp * sum
}
