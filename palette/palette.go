// Package palette maps notes to colors and defines musical scales
package palette

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Mode is the musical mode driving color temperature
type Mode uint8

const (
	Major Mode = iota
	Minor
)

func (m Mode) String() string {
	if m == Minor {
		return "minor"
	}
	return "major"
}

// ParseMode accepts "major"/"minor" in any case; ok is false for anything else
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major", "maj", "ionian":
		return Major, true
	case "minor", "min", "aeolian":
		return Minor, true
	}
	return Major, false
}

// NoteColors is the color set returned for a note, as CSS-like strings
type NoteColors struct {
	Primary   string
	Accent    string
	Secondary string
	Tertiary  string
}

// Provider resolves note colors; implementations must be safe to call every frame
type Provider interface {
	Colors(note string, mode Mode, octave int) NoteColors
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(note string, mode Mode, octave int) NoteColors

func (f ProviderFunc) Colors(note string, mode Mode, octave int) NoteColors {
	return f(note, mode, octave)
}

// Wheel is the default provider: pitch class around the hue circle,
// mode sets saturation, octave sets lightness
type Wheel struct {
	// Offset rotates the wheel in degrees; C sits at Offset
	Offset float64
}

// Colors returns hex colors for note, empty strings for unknown notes
func (w Wheel) Colors(note string, mode Mode, octave int) NoteColors {
	pc := NoteIndex(note)
	if pc < 0 {
		return NoteColors{}
	}

	hue := math.Mod(w.Offset+float64(pc)*30, 360)
	sat := 0.75
	if mode == Minor {
		sat = 0.55
	}
	// Octave 4 is the reference lightness
	light := 0.55 + float64(octave-4)*0.05
	light = math.Max(0.3, math.Min(0.75, light))

	return NoteColors{
		Primary:   colorful.Hsl(hue, sat, light).Clamped().Hex(),
		Accent:    colorful.Hsl(math.Mod(hue+30, 360), sat, math.Min(light+0.15, 0.9)).Clamped().Hex(),
		Secondary: colorful.Hsl(math.Mod(hue+330, 360), sat*0.9, light*0.6).Clamped().Hex(),
		Tertiary:  colorful.Hsl(hue, sat*0.4, math.Min(light+0.3, 0.95)).Clamped().Hex(),
	}
}
