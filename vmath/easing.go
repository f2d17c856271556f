package vmath

import "math"

// Overshoot constant for back easing, ~10% overshoot
const backOvershoot = 1.70158

// EaseOutBack rises past 1 and settles back, t clamped to [0, 1]
// EaseOutBack(0) = 0, EaseOutBack(1) = 1
func EaseOutBack(t float64) float64 {
	t = Clamp01(t)
	c3 := backOvershoot + 1
	u := t - 1
	return 1 + c3*u*u*u + backOvershoot*u*u
}

// EaseInQuad accelerates from zero
func EaseInQuad(t float64) float64 {
	t = Clamp01(t)
	return t * t
}

// EaseOutCubic decelerates to one
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutSine is symmetric sine easing
func EaseInOutSine(t float64) float64 {
	t = Clamp01(t)
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// CosFade maps progress [0, 1] to [1, 0] along a quarter cosine
// Flat at the start, steepest at the tail end
func CosFade(t float64) float64 {
	return math.Cos(Clamp01(t) * math.Pi / 2)
}

// SinPulse maps [0, 1] to a single hump peaking at 0.5
func SinPulse(t float64) float64 {
	return math.Sin(Clamp01(t) * math.Pi)
}
