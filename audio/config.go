package audio

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the demo host audio configuration
type Config struct {
	Enabled      bool
	MasterVolume float64
	SampleRate   int
	Buffer       time.Duration
	Voices       int
	Attack       time.Duration
	Release      time.Duration
	Wave         WaveType
}

// DefaultConfig returns the default host audio configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   DefaultSampleRate,
		Buffer:       100 * time.Millisecond,
		Voices:       8,
		Attack:       10 * time.Millisecond,
		Release:      400 * time.Millisecond,
		Wave:         WaveSine,
	}
}

// synthOverrides is the JSON shape of RESONANCE_SYNTH
type synthOverrides struct {
	Voices    *int    `json:"voices"`
	AttackMs  *int    `json:"attack_ms"`
	ReleaseMs *int    `json:"release_ms"`
	Wave      *string `json:"wave"`
}

// LoadConfig loads audio configuration from environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("RESONANCE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if volume := os.Getenv("RESONANCE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if rate := os.Getenv("RESONANCE_SAMPLE_RATE"); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	// Synth shape from JSON
	if synth := os.Getenv("RESONANCE_SYNTH"); synth != "" {
		var o synthOverrides
		if err := json.Unmarshal([]byte(synth), &o); err == nil {
			if o.Voices != nil && *o.Voices > 0 {
				cfg.Voices = *o.Voices
			}
			if o.AttackMs != nil && *o.AttackMs >= 0 {
				cfg.Attack = time.Duration(*o.AttackMs) * time.Millisecond
			}
			if o.ReleaseMs != nil && *o.ReleaseMs >= 0 {
				cfg.Release = time.Duration(*o.ReleaseMs) * time.Millisecond
			}
			if o.Wave != nil {
				if w, ok := ParseWave(*o.Wave); ok {
					cfg.Wave = w
				}
			}
		}
	}

	return cfg
}

// ParseWave maps a wave name to WaveType
func ParseWave(s string) (WaveType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sine":
		return WaveSine, true
	case "square":
		return WaveSquare, true
	case "saw":
		return WaveSaw, true
	case "triangle":
		return WaveTriangle, true
	}
	return WaveSine, false
}
