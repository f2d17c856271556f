package render

import (
	"image/color"
)

// clamp converts float to uint8 with rounding
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v + 0.5)
}

// blendPixel composites non-premultiplied src at coverage-scaled alpha a into
// a premultiplied RGBA pixel d (len 4)
func blendPixel(d []uint8, s color.NRGBA, a float64, mode BlendMode) {
	if a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}

	sr := float64(s.R) * a
	sg := float64(s.G) * a
	sb := float64(s.B) * a

	switch mode {
	case BlendAdd:
		d[0] = clamp(float64(d[0]) + sr)
		d[1] = clamp(float64(d[1]) + sg)
		d[2] = clamp(float64(d[2]) + sb)
		d[3] = clamp(float64(d[3]) + 255*a)

	case BlendScreen:
		// 1 - (1-Dst)*(1-Src) on premultiplied channels
		d[0] = clamp(float64(d[0]) + sr - float64(d[0])*sr/255)
		d[1] = clamp(float64(d[1]) + sg - float64(d[1])*sg/255)
		d[2] = clamp(float64(d[2]) + sb - float64(d[2])*sb/255)
		d[3] = clamp(float64(d[3]) + 255*a - float64(d[3])*a)

	default:
		inv := 1.0 - a
		d[0] = clamp(sr + float64(d[0])*inv)
		d[1] = clamp(sg + float64(d[1])*inv)
		d[2] = clamp(sb + float64(d[2])*inv)
		d[3] = clamp(255*a + float64(d[3])*inv)
	}
}

// Lerp linearly interpolates between two colors including alpha
// t=0 returns a, t=1 returns b
func Lerp(a, b color.NRGBA, t float64) color.NRGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return color.NRGBA{
		R: uint8(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: uint8(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: uint8(float64(a.B) + t*float64(int(b.B)-int(a.B))),
		A: uint8(float64(a.A) + t*float64(int(b.A)-int(a.A))),
	}
}

// Scale multiplies RGB channels by factor, alpha unchanged
func Scale(c color.NRGBA, factor float64) color.NRGBA {
	return color.NRGBA{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
		A: c.A,
	}
}

// WithAlpha returns c with alpha replaced by a in [0, 1]
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = clamp(a * 255)
	return c
}
