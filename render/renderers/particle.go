package renderers

import (
	"math"

	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/systems"
	"github.com/lixenwraith/resonance/vmath"
)

// ParticleRenderer draws particles through the shape table
type ParticleRenderer struct {
	particles *systems.ParticleSystem
	path      render.Path
	surf      render.Surface
}

// NewParticleRenderer creates the particle layer over the given system
func NewParticleRenderer(particles *systems.ParticleSystem) *ParticleRenderer {
	return &ParticleRenderer{particles: particles}
}

// IsVisible implements render.VisibilityToggle
func (r *ParticleRenderer) IsVisible() bool { return r.particles.Config().Enabled }

// Render draws live particles with alpha following their life curve
func (r *ParticleRenderer) Render(_ render.RenderContext, s render.Surface) {
	if r.particles.Count() == 0 {
		return
	}
	r.surf = s
	r.particles.Each(r.drawParticle)
	r.surf = nil
}

func (r *ParticleRenderer) drawParticle(p *systems.Particle) {
	a := p.Alpha()
	if a <= 0 || !vmath.AllFinite(p.X, p.Y, p.Size, p.Rotation) || p.Size <= 0 {
		return
	}
	r.path.Reset()
	paint := render.Solid(p.Color, a)
	if p.Shape == systems.ShapeMist {
		paint.Alpha *= 0.5
	}
	if systems.AppendShape(&r.path, p.Shape, p.X, p.Y, p.Size, p.Rotation) {
		r.surf.StrokePath(&r.path, math.Max(1, p.Size*0.25), paint.With(render.BlendAdd))
		return
	}
	r.surf.FillPath(&r.path, paint)
}
