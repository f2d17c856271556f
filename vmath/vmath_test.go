package vmath

import (
	"math"
	"testing"
)

func TestEaseOutBackEndpoints(t *testing.T) {
	if v := EaseOutBack(0); math.Abs(v) > 1e-12 {
		t.Errorf("EaseOutBack(0) = %f, want 0", v)
	}
	if v := EaseOutBack(1); math.Abs(v-1) > 1e-12 {
		t.Errorf("EaseOutBack(1) = %f, want 1", v)
	}

	// Overshoot occurs before the end
	peak := 0.0
	for i := 0; i <= 100; i++ {
		if v := EaseOutBack(float64(i) / 100); v > peak {
			peak = v
		}
	}
	if peak <= 1 {
		t.Errorf("Expected overshoot above 1, peak %f", peak)
	}
}

func TestEaseMonotonic(t *testing.T) {
	funcs := map[string]func(float64) float64{
		"InQuad":    EaseInQuad,
		"OutCubic":  EaseOutCubic,
		"InOutSine": EaseInOutSine,
	}
	for name, fn := range funcs {
		t.Run(name, func(t *testing.T) {
			prev := fn(0)
			for i := 1; i <= 100; i++ {
				v := fn(float64(i) / 100)
				if v < prev {
					t.Fatalf("Not monotonic at %d: %f < %f", i, v, prev)
				}
				prev = v
			}
		})
	}
}

func TestCosFade(t *testing.T) {
	if v := CosFade(0); v != 1 {
		t.Errorf("CosFade(0) = %f, want 1", v)
	}
	if v := CosFade(1); math.Abs(v) > 1e-12 {
		t.Errorf("CosFade(1) = %f, want 0", v)
	}
	if v := CosFade(2); math.Abs(v) > 1e-12 {
		t.Errorf("CosFade clamps above 1, got %f", v)
	}
}

func TestExpSmooth(t *testing.T) {
	v := 0.0
	for i := 0; i < 600; i++ {
		next := ExpSmooth(v, 10, 0.1, 1.0/60)
		if next < v || next > 10 {
			t.Fatalf("Step %d left range: %f -> %f", i, v, next)
		}
		v = next
	}
	if math.Abs(v-10) > 1e-3 {
		t.Errorf("Expected convergence to 10, got %f", v)
	}

	if got := ExpSmooth(3, 7, 0, 1); got != 3 {
		t.Errorf("Zero rate should hold value, got %f", got)
	}
	if got := ExpSmooth(3, 7, 1, 1); got != 7 {
		t.Errorf("Unit rate should snap, got %f", got)
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{-1e300, true},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tt := range tests {
		if got := IsFinite(tt.v); got != tt.want {
			t.Errorf("IsFinite(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
	if AllFinite(1, 2, math.NaN()) {
		t.Error("AllFinite should reject NaN")
	}
}

func TestFastRandRange(t *testing.T) {
	r := NewFastRand(0)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of range: %f", v)
		}
		if n := r.Intn(7); n < 0 || n >= 7 {
			t.Fatalf("Intn out of range: %d", n)
		}
	}
	if r.Intn(0) != 0 {
		t.Error("Intn(0) should return 0")
	}
}
