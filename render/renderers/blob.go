package renderers

import (
	"image/color"
	"math"
	"strconv"

	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/systems"
	"github.com/lixenwraith/resonance/vmath"
)

// BlobRenderer draws blobs as harmonic-perturbed gradient silhouettes with a soft glow ring
type BlobRenderer struct {
	blobs *systems.BlobSystem
	path  render.Path
	local *render.PaintCache

	// Per-frame state read by the Each callback
	ctx  render.RenderContext
	surf render.Surface
	segs int
}

// NewBlobRenderer creates the blob layer over the given system
func NewBlobRenderer(blobs *systems.BlobSystem) *BlobRenderer {
	return &BlobRenderer{
		blobs: blobs,
		local: render.NewPaintCache(parameter.ColorCacheSize, parameter.GradientCacheSize),
	}
}

// IsVisible implements render.VisibilityToggle
func (r *BlobRenderer) IsVisible() bool { return r.blobs.Config().Enabled }

// Render draws every drawable blob oldest first
func (r *BlobRenderer) Render(ctx render.RenderContext, s render.Surface) {
	if r.blobs.Count() == 0 {
		return
	}
	if ctx.Paints == nil {
		ctx.Paints = r.local
	}
	r.ctx, r.surf = ctx, s
	r.segs = r.blobs.Config().Segments
	if ctx.Degraded {
		r.segs = max(r.segs/2, 8)
	}
	r.blobs.Each(r.drawBlob)
	r.surf = nil
}

func (r *BlobRenderer) drawBlob(b *systems.Blob) {
	cfg := r.blobs.Config()
	// Degenerate state is skipped for this frame only
	if !b.Drawable(cfg.MinScale) {
		return
	}

	radius := b.BaseRadius * b.Scale
	ff := frequencyFactor(b.Frequency, cfg.ReferenceFrequency)
	amp := radius * cfg.VibrationIntensity * ff * b.Vibration
	if !r.silhouette(b, radius, amp, ff) {
		return
	}

	colors := r.ctx.NoteColors(b.Note, b.Octave)
	grad := r.ctx.Paints.Radial(blobKey(colors.Primary, colors.Secondary), func() *render.RadialGradient {
		return render.NewRadialGradient(
			render.Stop{Offset: 0, Color: colors.Primary},
			render.Stop{Offset: 0.55, Color: render.Lerp(colors.Primary, colors.Secondary, 0.5)},
			render.Stop{Offset: 1, Color: render.WithAlpha(colors.Secondary, 0)},
		)
	})
	r.surf.FillPath(&r.path, render.Shaded(grad.Centered(b.X, b.Y, radius*(1+cfg.VibrationIntensity)), b.Opacity))

	if !r.ctx.Degraded {
		glow := render.Solid(colors.Accent, b.Opacity*0.35).With(render.BlendScreen)
		r.surf.StrokePath(&r.path, 2+4*b.Vibration, glow)
	}
}

// silhouette samples the perturbed outline into r.path; false when any sample is degenerate
func (r *BlobRenderer) silhouette(b *systems.Blob, radius, amp, ff float64) bool {
	var norm float64
	for _, h := range parameter.BlobHarmonics {
		norm += h.Damping
	}
	if norm <= 0 {
		norm = 1
	}

	t := r.ctx.Elapsed
	speed := 2 * math.Pi * (0.4 + 0.6*ff)
	r.path.Reset()
	for i := 0; i < r.segs; i++ {
		theta := 2 * math.Pi * float64(i) / float64(r.segs)
		var d float64
		for _, h := range parameter.BlobHarmonics {
			d += h.Damping * math.Sin(h.Multiple*theta+b.Phase+h.Phase+t*speed*h.Multiple*0.25)
		}
		rr := radius + amp*d/norm
		if !vmath.IsFinite(rr) || rr <= 0 {
			return false
		}
		r.path.LineTo(b.X+rr*math.Cos(theta), b.Y+rr*math.Sin(theta))
	}
	r.path.Close()
	return true
}

// frequencyFactor maps pitch to vibration strength relative to the reference, bounded to [0.25, 2]
func frequencyFactor(freq, ref float64) float64 {
	if !(freq > 0) || !(ref > 0) || !vmath.IsFinite(freq) {
		return 0.5
	}
	return vmath.Clamp(freq/ref, 0.25, 2)
}

func blobKey(a, b color.NRGBA) string {
	packed := uint64(a.R)<<56 | uint64(a.G)<<48 | uint64(a.B)<<40 | uint64(a.A)<<32 |
		uint64(b.R)<<24 | uint64(b.G)<<16 | uint64(b.B)<<8 | uint64(b.A)
	return "blob:" + strconv.FormatUint(packed, 16)
}
