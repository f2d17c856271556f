package parameter

import "time"

// Blob lifecycle
const (
	// BlobGrowIn is the overshoot grow-in duration
	BlobGrowIn = 300 * time.Millisecond

	// BlobFadeOut is the release fade duration
	BlobFadeOut = 1200 * time.Millisecond

	// BlobFadeGrace is tolerated fade overrun before forced removal
	BlobFadeGrace = 500 * time.Millisecond

	// BlobMaxLifetime removes blobs whose release event was dropped
	BlobMaxLifetime = 30 * time.Second

	// BlobMax caps simultaneous blobs; the oldest is retired to make room
	BlobMax = 24
)

// Blob geometry and motion
const (
	BlobMinRadius   = 40.0
	BlobMaxRadius   = 90.0
	BlobBaseOpacity = 0.75

	// BlobDriftSpeed is max drift velocity in px/sec per axis
	BlobDriftSpeed = 24.0

	// BlobBounceDamping is velocity retained after an edge reflection
	BlobBounceDamping = 0.8

	// BlobSteadyWobble is the steady-state scale oscillation amplitude
	BlobSteadyWobble = 0.03

	// BlobSteadyRate is the steady-state oscillation rate in rad/sec
	BlobSteadyRate = 1.5

	// BlobMinScale below this a blob is not drawn
	BlobMinScale = 0.01

	// BlobSegments is the angular sample count for the silhouette
	BlobSegments = 64

	// BlobVibrationIntensity scales harmonic perturbation relative to radius
	BlobVibrationIntensity = 0.08

	// BlobReferenceFrequency maps musical frequency to vibration amplitude (A4)
	BlobReferenceFrequency = 440.0
)

// BlobHarmonics are frequency multiples and phase offsets for silhouette perturbation
var BlobHarmonics = [4]struct {
	Multiple float64
	Phase    float64
	Damping  float64
}{
	{2, 0, 1.0},
	{3, 1.3, 0.6},
	{5, 2.1, 0.35},
	{7, 0.7, 0.2},
}
