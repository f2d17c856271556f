package renderers

import (
	"context"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/pkg/errors"

	"github.com/lixenwraith/resonance/audio"
	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/parameter/visual"
	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/vmath"
)

// ScopeConfig holds Hilbert scope geometry, timing and signal parameters
type ScopeConfig struct {
	Enabled bool

	SizeRatio       float64
	MinSize         float64
	MaxSize         float64
	RadiusSmoothing float64
	Drift           float64 // px/sec
	LineWidth       float64
	Glow            float64
	TrailStrength   float64 // per-frame retention of the previous trace, 0 disables
	Gain            float64

	ScaleIn  time.Duration
	ScaleOut time.Duration

	// Pipeline shape, applied at Initialize
	BlockSize    int
	FilterLength int
	NoiseFloor   float64
	Analyzer     audio.AnalyzerConfig
}

// DefaultScopeConfig returns the standard scope parameters
func DefaultScopeConfig() ScopeConfig {
	return ScopeConfig{
		Enabled:         true,
		SizeRatio:       parameter.ScopeSizeRatio,
		MinSize:         parameter.ScopeMinSize,
		MaxSize:         parameter.ScopeMaxSize,
		RadiusSmoothing: parameter.ScopeRadiusSmoothing,
		Drift:           parameter.ScopeDrift,
		LineWidth:       parameter.ScopeLineWidth,
		Glow:            parameter.ScopeGlow,
		TrailStrength:   parameter.ScopeTrailStrength,
		Gain:            parameter.ScopeGain,
		ScaleIn:         parameter.ScopeScaleIn,
		ScaleOut:        parameter.ScopeScaleOut,
		BlockSize:       parameter.ScopeBlockSize,
		FilterLength:    parameter.ScopeFilterLength,
		NoiseFloor:      parameter.ScopeNoiseFloor,
		Analyzer:        audio.DefaultAnalyzerConfig(),
	}
}

// ScopeScale compresses a raw sample into (-1, 1): tanh of the gained value clamped to ±3
func ScopeScale(v, gain float64) float64 {
	if !vmath.IsFinite(v) {
		return 0
	}
	return math.Tanh(vmath.Clamp(v*gain, -3, 3))
}

// ScopeColorIndex picks the scale degree used when no note sounds
// Loudness selects the degree; below the noise floor the degree cycles once per second
func ScopeColorIndex(level, elapsed, noiseFloor float64, n int) int {
	if n <= 0 {
		return -1
	}
	if level < noiseFloor || !vmath.IsFinite(level) {
		if !vmath.IsFinite(elapsed) || elapsed < 0 {
			elapsed = 0
		}
		return int(elapsed) % n
	}
	return vmath.ClampInt(int(level*float64(n)), 0, n-1)
}

// ScopeRenderer draws the analytic signal of the live audio as a drifting Lissajous trace
type ScopeRenderer struct {
	cfg ScopeConfig
	src audio.Source

	analytic *audio.Analytic
	analyzer *audio.Analyzer
	block    []float64
	inPhase  []float64
	quad     []float64
	path     render.Path
	trail    *render.Canvas

	rng    *vmath.FastRand
	spring harmonica.Spring

	width, height  float64
	cx, cy         float64
	vx, vy         float64 // spring velocities
	tx, ty         float64 // drift target
	radius, target float64
	level          float64

	started   time.Time
	fadeStart time.Time
	fadeIn    float64
	fadeOut   float64
	fading    bool

	initialized bool
	active      bool
}

// NewScopeRenderer creates an inert scope; Initialize connects it to a source
func NewScopeRenderer(cfg ScopeConfig, seed uint64) *ScopeRenderer {
	return &ScopeRenderer{
		cfg:    cfg,
		rng:    vmath.NewFastRand(seed),
		spring: harmonica.NewSpring(harmonica.FPS(60), 4.0, 0.9),
	}
}

// SetConfig replaces parameters; pipeline shape changes apply at the next Initialize
func (r *ScopeRenderer) SetConfig(cfg ScopeConfig) {
	r.cfg = cfg
	if r.width > 0 && r.height > 0 {
		r.target = r.targetFor(r.width, r.height)
	}
}

// IsVisible implements render.VisibilityToggle; a disabled scope stays visible until its fade-out ends
func (r *ScopeRenderer) IsVisible() bool { return r.cfg.Enabled || r.Fading() }

// Initialize connects the scope to src and sizes it; on error the scope stays inert
func (r *ScopeRenderer) Initialize(ctx context.Context, width, height int, src audio.Source) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "scope initialize")
	}
	if src == nil {
		return errors.Wrap(audio.ErrNoSource, "scope initialize")
	}
	analyzer, err := audio.NewAnalyzer(max(r.cfg.BlockSize, 16), r.cfg.Analyzer)
	if err != nil {
		return errors.Wrap(err, "scope analyzer")
	}

	r.src = src
	r.analyzer = analyzer
	r.analytic = audio.NewAnalytic(r.cfg.FilterLength)
	size := analyzer.Size()
	r.block = make([]float64, size)
	r.inPhase = make([]float64, size)
	r.quad = make([]float64, size)
	r.trail = nil

	r.Resize(width, height)
	x0, x1, y0, y1 := r.box()
	r.cx, r.cy = (x0+x1)/2, (y0+y1)/2
	r.tx, r.ty = r.cx, r.cy
	r.vx, r.vy = 0, 0
	r.radius = r.target
	r.level = 0

	r.started = time.Time{}
	r.fadeStart = time.Time{}
	r.fadeIn, r.fadeOut = 0, 0
	r.fading = false
	r.initialized = true
	r.active = true
	return nil
}

// Resize recomputes the drift box and target radius for a new surface size
func (r *ScopeRenderer) Resize(width, height int) {
	r.width, r.height = float64(max(width, 0)), float64(max(height, 0))
	r.target = r.targetFor(r.width, r.height)
	x0, x1, y0, y1 := r.box()
	r.cx, r.cy = vmath.Clamp(r.cx, x0, x1), vmath.Clamp(r.cy, y0, y1)
	r.tx, r.ty = vmath.Clamp(r.tx, x0, x1), vmath.Clamp(r.ty, y0, y1)
	r.trail = nil
}

func (r *ScopeRenderer) targetFor(w, h float64) float64 {
	return vmath.Clamp(math.Min(w, h)*r.cfg.SizeRatio, r.cfg.MinSize, r.cfg.MaxSize)
}

// box is the region the center may wander in, the upper middle of the surface
func (r *ScopeRenderer) box() (x0, x1, y0, y1 float64) {
	return 0.2 * r.width, 0.8 * r.width, 0.1 * r.height, 0.5 * r.height
}

// StartFadeOut begins the linear fade; the scope deactivates when it completes
func (r *ScopeRenderer) StartFadeOut(now time.Time) {
	if !r.active || r.fading {
		return
	}
	r.fading = true
	r.fadeStart = now
}

// Cleanup detaches the audio source and releases the trail buffer
func (r *ScopeRenderer) Cleanup() {
	if c, ok := r.src.(io.Closer); ok {
		_ = c.Close()
	}
	r.src = nil
	r.trail = nil
	r.analyzer = nil
	r.analytic = nil
	r.initialized = false
	r.active = false
}

// IsActive reports whether the scope is connected and not faded out
func (r *ScopeRenderer) IsActive() bool { return r.initialized && r.active }

// Fading reports an active scope in its fade-out
func (r *ScopeRenderer) Fading() bool { return r.IsActive() && r.fading }

// Center returns the current trace center
func (r *ScopeRenderer) Center() (float64, float64) { return r.cx, r.cy }

// Radius returns the displayed radius
func (r *ScopeRenderer) Radius() float64 { return r.radius }

// TargetRadius returns the radius the display eases toward
func (r *ScopeRenderer) TargetRadius() float64 { return r.target }

// Level returns the last measured loudness in [0, 1]
func (r *ScopeRenderer) Level() float64 { return r.level }

// Render advances fades, drift and radius, then draws the trace
func (r *ScopeRenderer) Render(ctx render.RenderContext, s render.Surface) {
	if !r.IsActive() || r.width <= 0 || r.height <= 0 {
		return
	}
	now := ctx.Now
	dt := vmath.Clamp(ctx.DeltaTime, 0, parameter.MaxFrameDelta.Seconds())

	if r.started.IsZero() {
		r.started = now
	}
	if r.cfg.ScaleIn > 0 {
		r.fadeIn = math.Max(r.fadeIn, vmath.Clamp01(float64(now.Sub(r.started))/float64(r.cfg.ScaleIn)))
	} else {
		r.fadeIn = 1
	}
	visibility := r.fadeIn
	if r.fading {
		if r.cfg.ScaleOut > 0 {
			r.fadeOut = math.Max(r.fadeOut, vmath.Clamp01(float64(now.Sub(r.fadeStart))/float64(r.cfg.ScaleOut)))
		} else {
			r.fadeOut = 1
		}
		if r.fadeOut >= 1 {
			r.active = false
			return
		}
		visibility *= 1 - r.fadeOut
	}

	r.drift(dt)
	r.radius = vmath.ExpSmooth(r.radius, r.target, r.cfg.RadiusSmoothing, dt)

	n := r.src.Latest(r.block)
	samples := r.block[:n]
	r.level = r.analyzer.Level(samples)
	pairs := r.analytic.Process(samples, r.inPhase, r.quad)

	col, alpha := r.strokeColor(&ctx)
	alpha *= visibility
	radius := r.radius * visibility

	r.path.Reset()
	for i := 0; i < pairs; i++ {
		x := r.cx + ScopeScale(r.inPhase[i], r.cfg.Gain)*radius
		y := r.cy + ScopeScale(r.quad[i], r.cfg.Gain)*radius
		r.path.LineTo(x, y)
	}

	dst := s
	trail := r.cfg.TrailStrength > 0 && !ctx.Degraded
	if trail {
		r.ensureTrail(ctx)
		r.trail.Fade(r.cfg.TrailStrength)
		dst = r.trail
	}

	if !r.path.Empty() && alpha > 0 {
		width := r.cfg.LineWidth * (1 + r.level)
		if r.cfg.Glow > 0 {
			glow := render.Solid(col, alpha*r.cfg.Glow*(0.3+0.7*r.level)).With(render.BlendAdd)
			dst.StrokePath(&r.path, width*3, glow)
		}
		dst.StrokePath(&r.path, width, render.Solid(col, alpha))
	}

	if trail {
		s.DrawImage(r.trail.Image(), 1)
	}
}

// drift random-walks the target upward and inward, then springs the center toward it
func (r *ScopeRenderer) drift(dt float64) {
	if dt <= 0 {
		return
	}
	x0, x1, y0, y1 := r.box()
	mx, my := (x0+x1)/2, (y0+y1)/2
	step := r.cfg.Drift * dt
	r.tx += r.rng.Range(-1, 1)*step + (mx-r.tx)*0.2*dt
	r.ty += r.rng.Range(-1.3, 1)*step + (my-r.ty)*0.2*dt
	r.tx = vmath.Clamp(r.tx, x0, x1)
	r.ty = vmath.Clamp(r.ty, y0, y1)

	r.cx, r.vx = r.spring.Update(r.cx, r.vx, r.tx)
	r.cy, r.vy = r.spring.Update(r.cy, r.vy, r.ty)
	r.cx = vmath.Clamp(r.cx, x0, x1)
	r.cy = vmath.Clamp(r.cy, y0, y1)
}

// strokeColor returns the trace color and its alpha
func (r *ScopeRenderer) strokeColor(ctx *render.RenderContext) (color.NRGBA, float64) {
	if ctx.ActiveNote != "" {
		return ctx.NoteColors(ctx.ActiveNote, ctx.ActiveOctave).Primary, 0.35 + 0.65*r.level
	}
	idx := ScopeColorIndex(r.level, ctx.Elapsed, r.cfg.NoiseFloor, ctx.Scale.Len())
	if idx < 0 {
		return visual.RgbScopeIdle, 0.8
	}
	return ctx.NoteColors(ctx.Scale.Notes[idx], 4).Primary, 0.8
}

func (r *ScopeRenderer) ensureTrail(ctx render.RenderContext) {
	scale := ctx.PixelRatio
	if !(scale > 0) {
		scale = parameter.DefaultPixelRatio
	}
	if r.trail != nil && r.trail.Width() == ctx.Width && r.trail.Height() == ctx.Height && r.trail.Scale() == scale {
		return
	}
	r.trail = render.NewCanvas(ctx.Width, ctx.Height, scale)
}
