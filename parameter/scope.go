package parameter

import "time"

// Hilbert scope geometry
const (
	ScopeSizeRatio = 0.22
	ScopeMinSize   = 60.0
	ScopeMaxSize   = 260.0

	// ScopeRadiusSmoothing is the per-1/60s easing factor toward target radius
	ScopeRadiusSmoothing = 0.08

	// ScopeDrift is max random center displacement per second
	ScopeDrift = 12.0

	ScopeLineWidth     = 1.5
	ScopeGlow          = 0.6
	ScopeTrailStrength = 0.82
	ScopeGain          = 3.0
)

// Hilbert scope timing
const (
	ScopeScaleIn  = 800 * time.Millisecond
	ScopeScaleOut = 600 * time.Millisecond
)

// Analytic signal pipeline
const (
	// ScopeBlockSize is samples read per frame, power of two for the FFT
	ScopeBlockSize = 1024

	// ScopeFilterLength is the Hilbert FIR length, must be odd
	ScopeFilterLength = 63

	// ScopeNoiseFloor below this loudness the color cycles with time
	ScopeNoiseFloor = 0.05

	// Analyzer dB mapping range and smoothing
	AnalyzerMinDB     = -100.0
	AnalyzerMaxDB     = -30.0
	AnalyzerSmoothing = 0.8
	AnalyzerExponent  = 0.8
)
