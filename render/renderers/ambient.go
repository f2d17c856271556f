// Package renderers draws the engine layers onto a render.Surface
package renderers

import (
	"image/color"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/resonance/palette"
	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/parameter/visual"
	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/vmath"
)

// AmbientConfig holds background gradient and noise parameters
type AmbientConfig struct {
	Enabled bool
	Linear  bool // vertical linear gradient instead of radial

	MajorBrightness float64
	MinorBrightness float64
	MajorSaturation float64
	MinorSaturation float64
	MajorHue        float64 // degrees
	MinorHue        float64 // degrees
	HueDrift        float64 // degrees/sec
	HueBucket       float64 // degrees per cached gradient

	NoiseDots  int
	NoiseAlpha float64
}

// DefaultAmbientConfig returns the standard ambient parameters
func DefaultAmbientConfig() AmbientConfig {
	return AmbientConfig{
		Enabled:         true,
		MajorBrightness: parameter.AmbientMajorBrightness,
		MinorBrightness: parameter.AmbientMinorBrightness,
		MajorSaturation: parameter.AmbientMajorSaturation,
		MinorSaturation: parameter.AmbientMinorSaturation,
		MajorHue:        parameter.AmbientMajorHue,
		MinorHue:        parameter.AmbientMinorHue,
		HueDrift:        parameter.AmbientHueDrift,
		HueBucket:       parameter.AmbientHueBucket,
		NoiseDots:       parameter.AmbientNoiseDots,
		NoiseAlpha:      parameter.AmbientNoiseAlpha,
	}
}

// AmbientRenderer paints the mode-tinted background and film grain
type AmbientRenderer struct {
	cfg   AmbientConfig
	rng   *vmath.FastRand
	local *render.PaintCache // used when the frame carries no shared cache
}

// NewAmbientRenderer creates the background layer
func NewAmbientRenderer(cfg AmbientConfig, seed uint64) *AmbientRenderer {
	return &AmbientRenderer{
		cfg:   cfg,
		rng:   vmath.NewFastRand(seed),
		local: render.NewPaintCache(1, parameter.GradientCacheSize),
	}
}

// SetConfig replaces parameters
func (r *AmbientRenderer) SetConfig(cfg AmbientConfig) { r.cfg = cfg }

// IsVisible implements render.VisibilityToggle
func (r *AmbientRenderer) IsVisible() bool { return r.cfg.Enabled }

// Render fills the surface with the drifting gradient then scatters noise dots
func (r *AmbientRenderer) Render(ctx render.RenderContext, s render.Surface) {
	w, h := float64(ctx.Width), float64(ctx.Height)
	if w <= 0 || h <= 0 {
		return
	}

	paints := ctx.Paints
	if paints == nil {
		paints = r.local
	}

	hue, sat, light := r.tone(ctx.Mode)
	hue = math.Mod(hue+ctx.Elapsed*r.cfg.HueDrift, 360)
	if hue < 0 {
		hue += 360
	}
	bucket := hue
	if r.cfg.HueBucket > 0 {
		bucket = math.Floor(hue/r.cfg.HueBucket) * r.cfg.HueBucket
	}

	inner := hslColor(bucket, sat, light)
	outer := hslColor(bucket+30, sat*0.8, light*0.35)
	key := ambientKey(r.cfg.Linear, ctx.Mode, bucket)

	var shader render.Shader
	if r.cfg.Linear {
		g := paints.Linear(key, func() *render.LinearGradient {
			return render.NewLinearGradient(
				render.Stop{Offset: 0, Color: inner},
				render.Stop{Offset: 1, Color: outer},
			)
		})
		shader = g.Between(0, 0, 0, h)
	} else {
		g := paints.Radial(key, func() *render.RadialGradient {
			return render.NewRadialGradient(
				render.Stop{Offset: 0, Color: inner},
				render.Stop{Offset: 0.6, Color: render.Lerp(inner, outer, 0.6)},
				render.Stop{Offset: 1, Color: outer},
			)
		})
		cx, cy := ctx.Center()
		shader = g.Centered(cx, cy, math.Hypot(w, h)/2)
	}
	s.FillRect(0, 0, w, h, render.Shaded(shader, 1))

	dots := r.cfg.NoiseDots
	if ctx.Degraded {
		dots /= 4
	}
	for i := 0; i < dots; i++ {
		x := r.rng.Range(0, w)
		y := r.rng.Range(0, h)
		rad := r.rng.Range(0.5, 1.5)
		s.FillCircle(x, y, rad, render.Solid(visual.RgbNoise, r.cfg.NoiseAlpha*r.rng.Float64()))
	}
}

// tone returns base hue, saturation and lightness for the mode
func (r *AmbientRenderer) tone(m palette.Mode) (hue, sat, light float64) {
	if m == palette.Minor {
		return r.cfg.MinorHue, r.cfg.MinorSaturation, r.cfg.MinorBrightness
	}
	return r.cfg.MajorHue, r.cfg.MajorSaturation, r.cfg.MajorBrightness
}

func ambientKey(linear bool, m palette.Mode, bucket float64) string {
	kind := "radial"
	if linear {
		kind = "linear"
	}
	return "ambient:" + kind + ":" + m.String() + ":" + strconv.FormatFloat(bucket, 'f', 1, 64)
}

func hslColor(h, s, l float64) color.NRGBA {
	c := colorful.Hsl(math.Mod(h, 360), vmath.Clamp01(s), vmath.Clamp01(l)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}
}
