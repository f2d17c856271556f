package systems

import (
	"image/color"
	"math"

	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/parameter/visual"
	"github.com/lixenwraith/resonance/vmath"
)

// VibratingString is one vertical string per scale degree
type VibratingString struct {
	Degree    int
	X         float64
	Amplitude float64 // px
	Frequency float64 // visual Hz
	Phase     float64 // radians, accumulated so frequency changes never jump
	Color     color.NRGBA
	Opacity   float64
	Active    bool
}

// StringConfig holds string response and drawing parameters
type StringConfig struct {
	Enabled         bool
	ActiveAmplitude float64
	ActiveOpacity   float64
	IdleOpacity     float64
	IdleFrequency   float64
	FrequencyScale  float64
	Response        float64 // fraction covered per 1/60s
	Samples         int
	LineWidth       float64
	GlowThreshold   float64
	GlowWidth       float64
}

// DefaultStringConfig returns the standard string parameters
func DefaultStringConfig() StringConfig {
	return StringConfig{
		Enabled:         true,
		ActiveAmplitude: parameter.StringActiveAmplitude,
		ActiveOpacity:   parameter.StringActiveOpacity,
		IdleOpacity:     parameter.StringIdleOpacity,
		IdleFrequency:   parameter.StringIdleFrequency,
		FrequencyScale:  parameter.StringFrequencyScale,
		Response:        parameter.StringResponse,
		Samples:         parameter.StringSamples,
		LineWidth:       parameter.StringLineWidth,
		GlowThreshold:   parameter.StringGlowThreshold,
		GlowWidth:       parameter.StringGlowWidth,
	}
}

// StringSystem relaxes each string toward active or idle targets
type StringSystem struct {
	cfg     StringConfig
	strings []VibratingString
	width   float64
}

// NewStringSystem creates an empty string system; call Initialize before use
func NewStringSystem(cfg StringConfig) *StringSystem {
	return &StringSystem{cfg: cfg}
}

// SetConfig applies new parameters; current values relax toward the new targets
func (s *StringSystem) SetConfig(cfg StringConfig) {
	s.cfg = cfg
}

// Config returns the active parameters
func (s *StringSystem) Config() StringConfig {
	return s.cfg
}

// Initialize lays out n idle strings evenly across width
// Colors already assigned to surviving degrees are kept
func (s *StringSystem) Initialize(n int, width float64) {
	n = max(n, 0)
	prev := s.strings
	s.strings = make([]VibratingString, n)
	s.width = width
	for i := range s.strings {
		c := visual.RgbFallbackTertiary
		if i < len(prev) {
			c = prev[i].Color
		}
		s.strings[i] = VibratingString{
			Degree:    i,
			X:         width * float64(i+1) / float64(n+1),
			Frequency: s.cfg.IdleFrequency,
			Phase:     float64(i) * 0.7,
			Color:     c,
			Opacity:   s.cfg.IdleOpacity,
		}
	}
}

// Update moves strings toward targets; active maps degree to the sounding frequency in Hz
func (s *StringSystem) Update(active map[int]float64, dt float64) {
	if dt <= 0 {
		return
	}
	for i := range s.strings {
		st := &s.strings[i]
		freq, on := active[st.Degree]
		st.Active = on

		ampTarget, opTarget, freqTarget := 0.0, s.cfg.IdleOpacity, s.cfg.IdleFrequency
		if on {
			ampTarget = s.cfg.ActiveAmplitude
			opTarget = s.cfg.ActiveOpacity
			if vmath.IsFinite(freq) {
				freqTarget = math.Max(s.cfg.IdleFrequency, freq*s.cfg.FrequencyScale)
			}
		}

		st.Amplitude = vmath.ExpSmooth(st.Amplitude, ampTarget, s.cfg.Response, dt)
		st.Opacity = vmath.ExpSmooth(st.Opacity, opTarget, s.cfg.Response, dt)
		st.Frequency = vmath.ExpSmooth(st.Frequency, freqTarget, s.cfg.Response, dt)
		st.Phase = math.Mod(st.Phase+2*math.Pi*st.Frequency*dt, 2*math.Pi)
	}
}

// SetColor assigns the color of degree i; out of range is ignored
func (s *StringSystem) SetColor(i int, c color.NRGBA) {
	if i >= 0 && i < len(s.strings) {
		s.strings[i].Color = c
	}
}

// Strings exposes the string slice for drawing; callers must not modify it
func (s *StringSystem) Strings() []VibratingString {
	return s.strings
}

// Count returns the number of strings
func (s *StringSystem) Count() int {
	return len(s.strings)
}

// ActiveCount returns strings currently driven by a voice
func (s *StringSystem) ActiveCount() int {
	n := 0
	for i := range s.strings {
		if s.strings[i].Active {
			n++
		}
	}
	return n
}

// Width returns the layout width
func (s *StringSystem) Width() float64 {
	return s.width
}

// Clear returns all strings to rest
func (s *StringSystem) Clear() {
	for i := range s.strings {
		st := &s.strings[i]
		st.Amplitude = 0
		st.Opacity = s.cfg.IdleOpacity
		st.Frequency = s.cfg.IdleFrequency
		st.Active = false
	}
}
