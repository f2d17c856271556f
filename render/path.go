package render

import "math"

// Point is a 2D coordinate in logical surface units
type Point struct {
	X, Y float64
}

// Path is a flattened polyline set; curves are sampled by the caller
// Reset and reuse a Path across frames to avoid allocation
type Path struct {
	pts    []Point
	starts []int
	closed []bool
}

// Reset clears the path keeping capacity
func (p *Path) Reset() {
	p.pts = p.pts[:0]
	p.starts = p.starts[:0]
	p.closed = p.closed[:0]
}

// MoveTo begins a new subpath
func (p *Path) MoveTo(x, y float64) {
	p.starts = append(p.starts, len(p.pts))
	p.closed = append(p.closed, false)
	p.pts = append(p.pts, Point{x, y})
}

// LineTo extends the current subpath, starting one if none is open
func (p *Path) LineTo(x, y float64) {
	if len(p.starts) == 0 {
		p.MoveTo(x, y)
		return
	}
	p.pts = append(p.pts, Point{x, y})
}

// Close marks the current subpath closed
func (p *Path) Close() {
	if n := len(p.closed); n > 0 {
		p.closed[n-1] = true
	}
}

// Empty reports whether the path has no points
func (p *Path) Empty() bool {
	return len(p.pts) == 0
}

// Subpaths returns the number of subpaths
func (p *Path) Subpaths() int {
	return len(p.starts)
}

// subpath returns points and closed flag of subpath i
func (p *Path) subpath(i int) ([]Point, bool) {
	end := len(p.pts)
	if i+1 < len(p.starts) {
		end = p.starts[i+1]
	}
	return p.pts[p.starts[i]:end], p.closed[i]
}

// Circle appends a closed circle approximation
func (p *Path) Circle(cx, cy, r float64) {
	n := circleSegments(r)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
}

// Polygon appends a closed polygon from vertices
func (p *Path) Polygon(vs []Point) {
	for i, v := range vs {
		if i == 0 {
			p.MoveTo(v.X, v.Y)
		} else {
			p.LineTo(v.X, v.Y)
		}
	}
	p.Close()
}

// Rect appends a closed axis-aligned rectangle
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// circleSegments picks a segment count proportional to radius
func circleSegments(r float64) int {
	n := int(r * 0.8)
	if n < 8 {
		return 8
	}
	if n > 96 {
		return 96
	}
	return n
}
