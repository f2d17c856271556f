package parameter

import "time"

// Frame Loop & Engine Timing
const (
	// FrameUpdateInterval is the self-driven frame loop interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta caps the simulation step after a stall (tab switch, debugger)
	MaxFrameDelta = 100 * time.Millisecond

	// DefaultPixelRatio is used when the host reports a non-positive ratio
	DefaultPixelRatio = 1.0
)

// Event Queue
const (
	// EventQueueSize is the fixed capacity of the note event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// Caches
const (
	// GradientCacheSize bounds memoized gradient objects
	GradientCacheSize = 128

	// ColorCacheSize bounds memoized parsed color strings
	ColorCacheSize = 256
)

// Performance Monitor
const (
	// PerfWindowFrames is the rolling window for frame time averaging
	PerfWindowFrames = 60

	// PerfWarnIntervalFrames spaces diagnostic warnings to avoid log spam
	PerfWarnIntervalFrames = 300

	// FPS tier thresholds
	PerfExcellentFPS = 58.0
	PerfGoodFPS      = 45.0
	PerfFairFPS      = 30.0

	// PerfBytesPerObject is the crude per-entity memory estimate
	PerfBytesPerObject = 512
)

// Polyphony load shedding
const (
	// ParticleVoiceFalloff divides spawn count as voices pile up: base / (1 + active*falloff)
	ParticleVoiceFalloff = 0.5
)
