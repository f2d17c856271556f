package systems

import (
	"math"

	"github.com/lixenwraith/resonance/render"
)

// Shape tags a particle's silhouette
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeStar
	ShapeDiamond
	ShapeSparkle
	ShapeMist
	ShapeCount
)

var shapeNames = [ShapeCount]string{
	ShapeCircle:  "circle",
	ShapeStar:    "star",
	ShapeDiamond: "diamond",
	ShapeSparkle: "sparkle",
	ShapeMist:    "mist",
}

func (s Shape) String() string {
	if s.Valid() {
		return shapeNames[s]
	}
	return "unknown"
}

// Valid reports whether s names a known shape
func (s Shape) Valid() bool {
	return s < ShapeCount
}

// ParseShape maps a name to a Shape; unknown names return ShapeCircle, false
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return ShapeCircle, false
}

// ShapeForEmotion picks a particle shape from a note's emotion tag
func ShapeForEmotion(emotion string) Shape {
	switch emotion {
	case "joy", "happy", "bright":
		return ShapeStar
	case "tension", "tense", "anger":
		return ShapeDiamond
	case "wonder", "magic", "surprise":
		return ShapeSparkle
	case "sad", "melancholy", "calm", "dreamy":
		return ShapeMist
	default:
		return ShapeCircle
	}
}

// shapeFunc appends a shape outline centered at (x, y) with size s and rotation r
// It reports whether the outline is meant to be stroked rather than filled
type shapeFunc func(p *render.Path, x, y, s, r float64) (stroke bool)

// shapeTable has one entry per Shape; the array length makes a missing entry a compile error
var shapeTable = [ShapeCount]shapeFunc{
	ShapeCircle:  circleShape,
	ShapeStar:    starShape,
	ShapeDiamond: diamondShape,
	ShapeSparkle: sparkleShape,
	ShapeMist:    mistShape,
}

// AppendShape appends the outline for shape to p; unknown shapes fall back to circle
func AppendShape(p *render.Path, shape Shape, x, y, size, rotation float64) (stroke bool) {
	if !shape.Valid() {
		shape = ShapeCircle
	}
	return shapeTable[shape](p, x, y, size, rotation)
}

func circleShape(p *render.Path, x, y, s, _ float64) bool {
	p.Circle(x, y, s)
	return false
}

// starShape is a five point star with inner radius at 45%
func starShape(p *render.Path, x, y, s, r float64) bool {
	const points = 5
	for i := 0; i < points*2; i++ {
		rad := s
		if i%2 == 1 {
			rad = s * 0.45
		}
		a := r + float64(i)*math.Pi/points - math.Pi/2
		px, py := x+rad*math.Cos(a), y+rad*math.Sin(a)
		if i == 0 {
			p.MoveTo(px, py)
		} else {
			p.LineTo(px, py)
		}
	}
	p.Close()
	return false
}

func diamondShape(p *render.Path, x, y, s, r float64) bool {
	sin, cos := math.Sincos(r)
	// Taller than wide
	pts := [4][2]float64{{0, -s * 1.3}, {s * 0.8, 0}, {0, s * 1.3}, {-s * 0.8, 0}}
	for i, v := range pts {
		px := x + v[0]*cos - v[1]*sin
		py := y + v[0]*sin + v[1]*cos
		if i == 0 {
			p.MoveTo(px, py)
		} else {
			p.LineTo(px, py)
		}
	}
	p.Close()
	return false
}

// sparkleShape is a four arm cross of open strokes
func sparkleShape(p *render.Path, x, y, s, r float64) bool {
	for i := 0; i < 4; i++ {
		a := r + float64(i)*math.Pi/4
		l := s * 1.4
		if i%2 == 1 {
			l = s * 0.8
		}
		dx, dy := l*math.Cos(a), l*math.Sin(a)
		p.MoveTo(x-dx, y-dy)
		p.LineTo(x+dx, y+dy)
	}
	return true
}

// mistShape is a wide soft puff approximated by three overlapping circles
func mistShape(p *render.Path, x, y, s, r float64) bool {
	off := s * 0.7
	sin, cos := math.Sincos(r)
	p.Circle(x, y, s*1.2)
	p.Circle(x+off*cos, y+off*sin, s*0.9)
	p.Circle(x-off*cos, y-off*sin, s*0.9)
	return false
}
