package parameter

// Ambient background
const (
	AmbientMajorBrightness = 0.16
	AmbientMinorBrightness = 0.10
	AmbientMajorSaturation = 0.55
	AmbientMinorSaturation = 0.40

	// AmbientMajorHue and AmbientMinorHue are base hues in degrees
	AmbientMajorHue = 210.0
	AmbientMinorHue = 265.0

	// AmbientHueDrift is hue drift in degrees/sec
	AmbientHueDrift = 2.0

	// AmbientHueBucket quantizes hue for gradient cache keys
	AmbientHueBucket = 2.0

	AmbientNoiseDots  = 220
	AmbientNoiseAlpha = 0.05
)
