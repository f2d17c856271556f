package parameter

// Vibrating strings
const (
	StringActiveAmplitude = 18.0 // px
	StringActiveOpacity   = 0.9
	StringIdleOpacity     = 0.12

	// StringIdleFrequency keeps idle strings slowly moving instead of snapping to zero
	StringIdleFrequency = 0.4 // Hz visual

	// StringFrequencyScale maps musical Hz to visual oscillation Hz
	StringFrequencyScale = 0.01

	// StringResponse is the per-1/60s interpolation factor toward targets
	StringResponse = 0.12

	StringSamples       = 48
	StringLineWidth     = 1.5
	StringGlowThreshold = 4.0 // px amplitude
	StringGlowWidth     = 6.0
)
