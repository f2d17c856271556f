package renderers

import (
	"image"
	"image/color"
	"math"

	"github.com/lixenwraith/resonance/render"
)

// countingSurface records draw calls without rasterizing
type countingSurface struct {
	w, h    int
	fills   int
	strokes int
	rects   int
	circles int
	images  int
	bad     int // draws with non-finite alpha
}

func newCountingSurface(w, h int) *countingSurface {
	return &countingSurface{w: w, h: h}
}

func (c *countingSurface) Width() int                 { return c.w }
func (c *countingSurface) Height() int                { return c.h }
func (c *countingSurface) Clear(color.NRGBA)          {}
func (c *countingSurface) Resize(w, h int, _ float64) { c.w, c.h = w, h }

func (c *countingSurface) FillRect(_, _, _, _ float64, p render.Paint) {
	c.check(p)
	c.rects++
}

func (c *countingSurface) FillPath(path *render.Path, p render.Paint) {
	c.check(p)
	if !path.Empty() {
		c.fills++
	}
}

func (c *countingSurface) StrokePath(path *render.Path, _ float64, p render.Paint) {
	c.check(p)
	if !path.Empty() {
		c.strokes++
	}
}

func (c *countingSurface) FillCircle(_, _, _ float64, p render.Paint) {
	c.check(p)
	c.circles++
}

func (c *countingSurface) DrawImage(*image.RGBA, float64) { c.images++ }

func (c *countingSurface) check(p render.Paint) {
	if math.IsNaN(p.Alpha) || math.IsInf(p.Alpha, 0) {
		c.bad++
	}
}

func (c *countingSurface) reset() {
	c.fills, c.strokes, c.rects, c.circles, c.images, c.bad = 0, 0, 0, 0, 0, 0
}
