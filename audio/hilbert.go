package audio

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// DesignHilbert returns a Hamming-windowed type III FIR Hilbert transformer
// Length is forced odd and at least 3; taps at even offsets from center are zero
func DesignHilbert(length int) []float64 {
	if length < 3 {
		length = 3
	}
	if length%2 == 0 {
		length++
	}
	mid := (length - 1) / 2

	h := make([]float64, length)
	for i := range h {
		k := i - mid
		if k%2 != 0 {
			h[i] = 2 / (math.Pi * float64(k))
		}
	}

	w := make([]float64, length)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(length-1))
	}
	vecmath.MulBlockInPlace(h, w)
	return h
}

// Analytic splits a real signal into a time-aligned in-phase and quadrature pair
// The quadrature branch is the Hilbert FIR, the in-phase branch a pure delay of (length-1)/2
type Analytic struct {
	taps  []float64
	odd   []int // indices of nonzero taps
	delay int
}

// NewAnalytic builds the pipeline for a filter of the given length
func NewAnalytic(length int) *Analytic {
	taps := DesignHilbert(length)
	a := &Analytic{
		taps:  taps,
		delay: (len(taps) - 1) / 2,
	}
	for i, v := range taps {
		if v != 0 {
			a.odd = append(a.odd, i)
		}
	}
	return a
}

// Len returns the filter length
func (a *Analytic) Len() int {
	return len(a.taps)
}

// Delay returns the in-phase branch delay in samples
func (a *Analytic) Delay() int {
	return a.delay
}

// Taps returns the filter coefficients; callers must not modify them
func (a *Analytic) Taps() []float64 {
	return a.taps
}

// Process filters one block and writes aligned pairs for every sample with a full
// filter history. Returns the pair count, limited by the output slice lengths
func (a *Analytic) Process(block, inPhase, quadrature []float64) int {
	n := len(block) - len(a.taps) + 1
	if n <= 0 {
		return 0
	}
	n = min(n, len(inPhase), len(quadrature))

	last := len(a.taps) - 1
	for j := 0; j < n; j++ {
		pos := last + j
		var q float64
		for _, k := range a.odd {
			q += a.taps[k] * block[pos-k]
		}
		quadrature[j] = q
		inPhase[j] = block[pos-a.delay]
	}
	return n
}
