package render

import (
	"image/color"
	"time"

	"github.com/lixenwraith/resonance/palette"
	"github.com/lixenwraith/resonance/parameter/visual"
)

// RenderContext provides frame state for renderers, passed by value
type RenderContext struct {
	// Time state
	Now       time.Time
	Elapsed   float64 // seconds on the shared animation clock
	DeltaTime float64 // seconds since previous frame
	Frame     uint64

	// Logical surface size and device pixel ratio
	Width      int
	Height     int
	PixelRatio float64

	// Musical context
	Mode         palette.Mode
	Scale        palette.Scale
	ActiveNote   string // most recent sounding note, empty when silent
	ActiveOctave int

	// Degraded is set when the quality tier is poor; layers shed work
	Degraded bool

	ClearColor color.NRGBA
	Colors     palette.Provider
	Paints     *PaintCache
}

// Colors is a resolved note color set
type Colors struct {
	Primary   color.NRGBA
	Accent    color.NRGBA
	Secondary color.NRGBA
	Tertiary  color.NRGBA
}

// NoteColors resolves provider colors for a note, substituting fallbacks for
// anything missing or unparseable
func (rc *RenderContext) NoteColors(note string, octave int) Colors {
	out := Colors{
		Primary:   visual.RgbFallbackPrimary,
		Accent:    visual.RgbFallbackAccent,
		Secondary: visual.RgbFallbackSecondary,
		Tertiary:  visual.RgbFallbackTertiary,
	}
	if rc.Colors == nil {
		return out
	}
	nc := rc.Colors.Colors(note, rc.Mode, octave)
	out.Primary = rc.parse(nc.Primary, out.Primary)
	out.Accent = rc.parse(nc.Accent, out.Accent)
	out.Secondary = rc.parse(nc.Secondary, out.Secondary)
	out.Tertiary = rc.parse(nc.Tertiary, out.Tertiary)
	return out
}

func (rc *RenderContext) parse(s string, fallback color.NRGBA) color.NRGBA {
	if s == "" {
		return fallback
	}
	if rc.Paints != nil {
		return rc.Paints.Color(s, fallback)
	}
	return palette.ParseOr(s, fallback)
}

// Center returns the logical surface center
func (rc *RenderContext) Center() (float64, float64) {
	return float64(rc.Width) / 2, float64(rc.Height) / 2
}
