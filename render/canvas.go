package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Surface is the raster target renderers draw on
// Coordinates are logical units; the implementation applies the pixel ratio
type Surface interface {
	Width() int
	Height() int
	Clear(c color.NRGBA)
	FillRect(x, y, w, h float64, p Paint)
	FillPath(path *Path, p Paint)
	StrokePath(path *Path, width float64, p Paint)
	FillCircle(cx, cy, r float64, p Paint)
	DrawImage(src *image.RGBA, alpha float64)
	Resize(width, height int, scale float64)
}

// Paint describes how a shape is filled or stroked
// Shader overrides Color when set; Alpha multiplies the color alpha
type Paint struct {
	Color  color.NRGBA
	Shader Shader
	Alpha  float64
	Blend  BlendMode
}

// Solid returns an alpha-blended flat color paint
func Solid(c color.NRGBA, alpha float64) Paint {
	return Paint{Color: c, Alpha: alpha}
}

// Shaded returns a shader paint
func Shaded(s Shader, alpha float64) Paint {
	return Paint{Shader: s, Alpha: alpha}
}

// With returns a copy of p using blend mode m
func (p Paint) With(m BlendMode) Paint {
	p.Blend = m
	return p
}

// Canvas is a CPU raster Surface backed by a premultiplied *image.RGBA
// Not safe for concurrent use
type Canvas struct {
	img    *image.RGBA
	width  int // logical
	height int // logical
	scale  float64

	raster *vector.Rasterizer
	mask   []uint8

	// Per-draw scratch in pixel space
	polyPts    []Point
	polyStarts []int
	clipA      []Point
	clipB      []Point
	stroke     Path
}

// NewCanvas creates a canvas of logical size width x height with a pixel ratio
func NewCanvas(width, height int, scale float64) *Canvas {
	c := &Canvas{raster: vector.NewRasterizer(1, 1)}
	c.Resize(width, height, scale)
	return c
}

// Resize reallocates the backing store to the logical size times scale
func (c *Canvas) Resize(width, height int, scale float64) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if !(scale > 0) {
		scale = 1
	}
	c.width, c.height, c.scale = width, height, scale
	pw := int(math.Round(float64(width) * scale))
	ph := int(math.Round(float64(height) * scale))
	c.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
}

// Width returns the logical width
func (c *Canvas) Width() int { return c.width }

// Height returns the logical height
func (c *Canvas) Height() int { return c.height }

// Scale returns the pixel ratio
func (c *Canvas) Scale() float64 { return c.scale }

// Image exposes the backing premultiplied store
func (c *Canvas) Image() *image.RGBA { return c.img }

// Clear fills every pixel with col, replacing existing content
func (c *Canvas) Clear(col color.NRGBA) {
	a := float64(col.A) / 255
	px := [4]uint8{
		clamp(float64(col.R) * a),
		clamp(float64(col.G) * a),
		clamp(float64(col.B) * a),
		col.A,
	}
	pix := c.img.Pix
	if len(pix) == 0 {
		return
	}
	copy(pix[0:4], px[:])
	// Doubling copy fills the buffer in log2 steps
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

// Fade multiplies every pixel by factor, used for persistence trails
func (c *Canvas) Fade(factor float64) {
	if factor >= 1 {
		return
	}
	if factor <= 0 {
		clear(c.img.Pix)
		return
	}
	for i, v := range c.img.Pix {
		c.img.Pix[i] = uint8(float64(v) * factor)
	}
}

// DrawImage composites a premultiplied image of the same pixel size over the canvas
func (c *Canvas) DrawImage(src *image.RGBA, alpha float64) {
	if src == nil || alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	r := c.img.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := c.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			sa := float64(src.Pix[si+3]) * alpha
			if sa > 0 {
				inv := 1 - sa/255
				d := c.img.Pix[di : di+4 : di+4]
				s := src.Pix[si : si+4 : si+4]
				d[0] = clamp(float64(s[0])*alpha + float64(d[0])*inv)
				d[1] = clamp(float64(s[1])*alpha + float64(d[1])*inv)
				d[2] = clamp(float64(s[2])*alpha + float64(d[2])*inv)
				d[3] = clamp(sa + float64(d[3])*inv)
			}
			si += 4
			di += 4
		}
	}
}

// FillRect fills an axis-aligned rectangle
func (c *Canvas) FillRect(x, y, w, h float64, p Paint) {
	c.beginPolys()
	c.addPoly([]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}})
	c.rasterize(p)
}

// FillCircle fills a circle
func (c *Canvas) FillCircle(cx, cy, r float64, p Paint) {
	if !(r > 0) {
		return
	}
	c.stroke.Reset()
	c.stroke.Circle(cx, cy, r)
	c.FillPath(&c.stroke, p)
}

// FillPath fills every subpath using nonzero winding; open subpaths are closed implicitly
func (c *Canvas) FillPath(path *Path, p Paint) {
	if path == nil || path.Empty() {
		return
	}
	c.beginPolys()
	for i := 0; i < path.Subpaths(); i++ {
		pts, _ := path.subpath(i)
		if len(pts) >= 3 {
			c.addPoly(pts)
		}
	}
	c.rasterize(p)
}

// StrokePath strokes subpaths with round joins at the given logical width
func (c *Canvas) StrokePath(path *Path, width float64, p Paint) {
	if path == nil || path.Empty() || !(width > 0) {
		return
	}
	hw := width / 2
	c.beginPolys()
	for i := 0; i < path.Subpaths(); i++ {
		pts, closed := path.subpath(i)
		n := len(pts)
		if n == 0 {
			continue
		}
		segs := n - 1
		if closed && n > 2 {
			segs = n
		}
		for k := 0; k < segs; k++ {
			c.addSegment(pts[k], pts[(k+1)%n], hw)
		}
		// Round joins and caps; orientation matches segment quads so overlaps never cancel
		for k := 0; k < n; k++ {
			c.addDisc(pts[k], hw)
		}
	}
	c.rasterize(p)
}

func (c *Canvas) beginPolys() {
	c.polyPts = c.polyPts[:0]
	c.polyStarts = c.polyStarts[:0]
}

// addPoly appends a polygon converting logical to pixel space
func (c *Canvas) addPoly(pts []Point) {
	c.polyStarts = append(c.polyStarts, len(c.polyPts))
	for _, pt := range pts {
		c.polyPts = append(c.polyPts, Point{pt.X * c.scale, pt.Y * c.scale})
	}
}

func (c *Canvas) addSegment(a, b Point, hw float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw
	c.addPoly([]Point{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	})
}

// addDisc appends a clockwise-in-math-space octagon matching segment quad winding
func (c *Canvas) addDisc(center Point, r float64) {
	const n = 8
	var vs [n]Point
	for i := 0; i < n; i++ {
		a := -2 * math.Pi * float64(i) / n
		vs[i] = Point{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)}
	}
	c.addPoly(vs[:])
}

// rasterize renders the accumulated pixel-space polygons with paint p
func (c *Canvas) rasterize(p Paint) {
	if len(c.polyPts) == 0 || p.Alpha <= 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range c.polyPts {
		if !finite(pt.X) || !finite(pt.Y) {
			return
		}
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}

	b := c.img.Bounds()
	x0 := max(int(math.Floor(minX)), b.Min.X)
	y0 := max(int(math.Floor(minY)), b.Min.Y)
	x1 := min(int(math.Ceil(maxX)), b.Max.X)
	y1 := min(int(math.Ceil(maxY)), b.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	bw, bh := x1-x0, y1-y0
	fx0, fy0, fx1, fy1 := float64(x0), float64(y0), float64(x1), float64(y1)

	c.raster.Reset(bw, bh)
	c.raster.DrawOp = draw.Src
	for i, start := range c.polyStarts {
		end := len(c.polyPts)
		if i+1 < len(c.polyStarts) {
			end = c.polyStarts[i+1]
		}
		poly := c.clipPoly(c.polyPts[start:end], fx0, fy0, fx1, fy1)
		if len(poly) < 3 {
			continue
		}
		c.raster.MoveTo(float32(poly[0].X-fx0), float32(poly[0].Y-fy0))
		for _, pt := range poly[1:] {
			c.raster.LineTo(float32(pt.X-fx0), float32(pt.Y-fy0))
		}
		c.raster.ClosePath()
	}

	if cap(c.mask) < bw*bh {
		c.mask = make([]uint8, bw*bh)
	}
	mask := &image.Alpha{Pix: c.mask[:bw*bh], Stride: bw, Rect: image.Rect(0, 0, bw, bh)}
	c.raster.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	c.composite(mask, x0, y0, p)
}

// clipPoly clips a polygon to a rectangle (Sutherland-Hodgman), result aliases scratch
func (c *Canvas) clipPoly(in []Point, x0, y0, x1, y1 float64) []Point {
	inside := true
	for _, pt := range in {
		if pt.X < x0 || pt.X > x1 || pt.Y < y0 || pt.Y > y1 {
			inside = false
			break
		}
	}
	if inside {
		return in
	}

	c.clipA = append(c.clipA[:0], in...)
	type edge struct {
		in    func(Point) bool
		cross func(a, b Point) Point
	}
	edges := [4]edge{
		{func(p Point) bool { return p.X >= x0 }, func(a, b Point) Point {
			t := (x0 - a.X) / (b.X - a.X)
			return Point{x0, a.Y + t*(b.Y-a.Y)}
		}},
		{func(p Point) bool { return p.X <= x1 }, func(a, b Point) Point {
			t := (x1 - a.X) / (b.X - a.X)
			return Point{x1, a.Y + t*(b.Y-a.Y)}
		}},
		{func(p Point) bool { return p.Y >= y0 }, func(a, b Point) Point {
			t := (y0 - a.Y) / (b.Y - a.Y)
			return Point{a.X + t*(b.X-a.X), y0}
		}},
		{func(p Point) bool { return p.Y <= y1 }, func(a, b Point) Point {
			t := (y1 - a.Y) / (b.Y - a.Y)
			return Point{a.X + t*(b.X-a.X), y1}
		}},
	}

	for _, e := range edges {
		c.clipB = c.clipB[:0]
		n := len(c.clipA)
		for i := 0; i < n; i++ {
			cur, next := c.clipA[i], c.clipA[(i+1)%n]
			curIn, nextIn := e.in(cur), e.in(next)
			if curIn {
				c.clipB = append(c.clipB, cur)
			}
			if curIn != nextIn {
				c.clipB = append(c.clipB, e.cross(cur, next))
			}
		}
		c.clipA, c.clipB = c.clipB, c.clipA
		if len(c.clipA) < 3 {
			return nil
		}
	}
	return c.clipA
}

// composite blends paint through the coverage mask at pixel offset (ox, oy)
func (c *Canvas) composite(mask *image.Alpha, ox, oy int, p Paint) {
	alpha := p.Alpha
	if alpha > 1 {
		alpha = 1
	}
	inv := 1 / c.scale
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		di := c.img.PixOffset(ox, oy+y)
		for x, m := range row {
			if m != 0 {
				col := p.Color
				if p.Shader != nil {
					col = p.Shader.ColorAt((float64(ox+x)+0.5)*inv, (float64(oy+y)+0.5)*inv)
				}
				a := float64(m) / 255 * alpha * float64(col.A) / 255
				blendPixel(c.img.Pix[di:di+4:di+4], col, a, p.Blend)
			}
			di += 4
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
