package render

import (
	"image/color"
	"math"
	"sort"
)

const rampSize = 256

// Stop is a gradient color stop at offset in [0, 1]
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Shader returns the paint color at a logical surface coordinate
type Shader interface {
	ColorAt(x, y float64) color.NRGBA
}

// ramp is a precomputed color lookup over [0, 1]
type ramp [rampSize]color.NRGBA

func buildRamp(stops []Stop) *ramp {
	r := new(ramp)
	if len(stops) == 0 {
		return r
	}

	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	for i := range r {
		t := float64(i) / float64(rampSize-1)
		switch {
		case t <= sorted[0].Offset:
			r[i] = sorted[0].Color
		case t >= sorted[len(sorted)-1].Offset:
			r[i] = sorted[len(sorted)-1].Color
		default:
			for k := 1; k < len(sorted); k++ {
				if t <= sorted[k].Offset {
					a, b := sorted[k-1], sorted[k]
					span := b.Offset - a.Offset
					if span <= 0 {
						r[i] = b.Color
					} else {
						r[i] = Lerp(a.Color, b.Color, (t-a.Offset)/span)
					}
					break
				}
			}
		}
	}
	return r
}

func (r *ramp) at(t float64) color.NRGBA {
	if !(t > 0) {
		return r[0]
	}
	if t >= 1 {
		return r[rampSize-1]
	}
	return r[int(t*(rampSize-1)+0.5)]
}

// RadialGradient is a position independent radial ramp
// Cache instances and place them per draw with Centered
type RadialGradient struct {
	ramp *ramp
}

// NewRadialGradient builds a radial gradient from stops, 0 at center and 1 at radius
func NewRadialGradient(stops ...Stop) *RadialGradient {
	return &RadialGradient{ramp: buildRamp(stops)}
}

// At returns the ramp color at normalized distance t
func (g *RadialGradient) At(t float64) color.NRGBA {
	return g.ramp.at(t)
}

// Centered places the gradient at (cx, cy) with radius r
func (g *RadialGradient) Centered(cx, cy, r float64) Shader {
	inv := 0.0
	if r > 0 {
		inv = 1 / r
	}
	return radialShader{ramp: g.ramp, cx: cx, cy: cy, invR: inv}
}

type radialShader struct {
	ramp   *ramp
	cx, cy float64
	invR   float64
}

func (s radialShader) ColorAt(x, y float64) color.NRGBA {
	dx, dy := x-s.cx, y-s.cy
	return s.ramp.at(math.Sqrt(dx*dx+dy*dy) * s.invR)
}

// LinearGradient is a position independent linear ramp
type LinearGradient struct {
	ramp *ramp
}

// NewLinearGradient builds a linear gradient from stops
func NewLinearGradient(stops ...Stop) *LinearGradient {
	return &LinearGradient{ramp: buildRamp(stops)}
}

// At returns the ramp color at t
func (g *LinearGradient) At(t float64) color.NRGBA {
	return g.ramp.at(t)
}

// Between places the gradient along the segment (x0, y0) -> (x1, y1)
func (g *LinearGradient) Between(x0, y0, x1, y1 float64) Shader {
	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	s := linearShader{ramp: g.ramp, x0: x0, y0: y0}
	if lenSq > 0 {
		s.dx, s.dy = dx/lenSq, dy/lenSq
	}
	return s
}

type linearShader struct {
	ramp   *ramp
	x0, y0 float64
	dx, dy float64 // direction scaled by 1/len²
}

func (s linearShader) ColorAt(x, y float64) color.NRGBA {
	return s.ramp.at((x-s.x0)*s.dx + (y-s.y0)*s.dy)
}
