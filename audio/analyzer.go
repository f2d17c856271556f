package audio

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/pkg/errors"

	"github.com/lixenwraith/resonance/parameter"
)

// AnalyzerConfig controls loudness mapping
type AnalyzerConfig struct {
	MinDB     float64
	MaxDB     float64
	Smoothing float64 // weight of the previous frame, 0..1
	Exponent  float64 // perceptual compression of the averaged level
}

// DefaultAnalyzerConfig maps [-100, -30] dB with 0.8 smoothing and x^0.8
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinDB:     parameter.AnalyzerMinDB,
		MaxDB:     parameter.AnalyzerMaxDB,
		Smoothing: parameter.AnalyzerSmoothing,
		Exponent:  parameter.AnalyzerExponent,
	}
}

// Analyzer turns the latest block into a loudness scalar in [0, 1]
// Not safe for concurrent use
type Analyzer struct {
	cfg  AnalyzerConfig
	size int
	plan *algofft.Plan[complex128]

	window   []float64
	windowed []float64
	in       []complex128
	out      []complex128
	re, im   []float64
	mag      []float64
	smooth   []float64
	norm     float64
}

// NewAnalyzer creates an analyzer over size samples, rounded up to a power of two
func NewAnalyzer(size int, cfg AnalyzerConfig) (*Analyzer, error) {
	if size < 2 {
		size = 2
	}
	size = nextPow2(size)
	if cfg.MaxDB <= cfg.MinDB {
		return nil, errors.Errorf("analyzer: invalid dB range [%g, %g]", cfg.MinDB, cfg.MaxDB)
	}
	cfg.Smoothing = math.Max(0, math.Min(cfg.Smoothing, 0.999))
	if cfg.Exponent <= 0 {
		cfg.Exponent = 1
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, errors.Wrapf(err, "analyzer: fft plan size %d", size)
	}

	bins := size / 2
	a := &Analyzer{
		cfg:      cfg,
		size:     size,
		plan:     plan,
		window:   make([]float64, size),
		windowed: make([]float64, size),
		in:       make([]complex128, size),
		out:      make([]complex128, size),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
		mag:      make([]float64, bins),
		smooth:   make([]float64, bins),
	}

	var sum float64
	for i := range a.window {
		a.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size))
		sum += a.window[i]
	}
	// Full-scale sine at a bin center reads 0 dB
	a.norm = 2 / sum
	return a, nil
}

// Size returns the FFT length
func (a *Analyzer) Size() int {
	return a.size
}

// Level analyzes the most recent Size() samples of block (zero padded when short)
func (a *Analyzer) Level(block []float64) float64 {
	clear(a.windowed)
	if len(block) > a.size {
		block = block[len(block)-a.size:]
	}
	copy(a.windowed[a.size-len(block):], block)
	vecmath.MulBlockInPlace(a.windowed, a.window)

	for i, v := range a.windowed {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0
	}

	for i := range a.re {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}
	vecmath.Magnitude(a.mag, a.re, a.im)
	vecmath.ScaleBlock(a.mag, a.mag, a.norm)

	k := a.cfg.Smoothing
	span := a.cfg.MaxDB - a.cfg.MinDB
	var total float64
	for i, m := range a.mag {
		s := k*a.smooth[i] + (1-k)*m
		if !(s > 1e-30) || math.IsInf(s, 0) {
			s = 0
		}
		a.smooth[i] = s
		if s == 0 {
			continue
		}
		v := (20*math.Log10(s) - a.cfg.MinDB) / span
		total += math.Max(0, math.Min(1, v))
	}

	avg := total / float64(len(a.mag))
	return math.Pow(avg, a.cfg.Exponent)
}

// Reset clears smoothing history
func (a *Analyzer) Reset() {
	clear(a.smooth)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
