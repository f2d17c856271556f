package main

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/resonance/palette"
)

func TestNoteForKey(t *testing.T) {
	cMajor, _ := palette.NewScale("C", palette.Major)
	aMinor, _ := palette.NewScale("A", palette.Minor)

	tests := []struct {
		name   string
		key    rune
		scale  palette.Scale
		note   string
		octave int
		voice  string
		freq   float64
	}{
		{"tonic", 'a', cMajor, "C", 4, "k0", 261.63},
		{"fifth", 'g', cMajor, "G", 4, "k4", 392.00},
		{"octave up", 'k', cMajor, "C", 5, "k7", 523.25},
		{"shift second voice", 'A', cMajor, "C", 4, "k0-2", 261.63},
		{"minor tonic", 'a', aMinor, "A", 4, "k0", 440.00},
		{"minor wraps past B", 'd', aMinor, "C", 5, "k2", 523.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := noteForKey(tt.key, tt.scale, 4)
			if !ok {
				t.Fatalf("Key %q not mapped", tt.key)
			}
			if n.Name != tt.note || n.Octave != tt.octave || n.VoiceID != tt.voice {
				t.Errorf("Got %s%d voice %s, want %s%d voice %s", n.Name, n.Octave, n.VoiceID, tt.note, tt.octave, tt.voice)
			}
			if math.Abs(n.Frequency-tt.freq) > 0.01 {
				t.Errorf("Frequency = %.2f, want %.2f", n.Frequency, tt.freq)
			}
			if n.Emotion == "" {
				t.Error("Expected an emotion tag")
			}
		})
	}

	if _, ok := noteForKey('z', cMajor, 4); ok {
		t.Error("Unmapped key must be ignored")
	}
	if _, ok := noteForKey('a', palette.Scale{}, 4); ok {
		t.Error("Empty scale must map nothing")
	}
}

func TestDrawHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.SetRGBA(1, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 1, color.RGBA{0, 0, 255, 255})

	type cell struct {
		r     rune
		style tcell.Style
	}
	cells := map[[2]int]cell{}
	set := func(x, y int, r rune, _ []rune, st tcell.Style) {
		cells[[2]int{x, y}] = cell{r, st}
	}
	drawHalfBlocks(img, 5, 2, set)

	// 3 columns clipped to the image; the odd last row has no bottom pixel
	if len(cells) != 6 {
		t.Fatalf("Expected 6 cells, got %d", len(cells))
	}
	c := cells[[2]int{1, 0}]
	fg, bg, _ := c.style.Decompose()
	if c.r != '▀' || fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("Cell (1,0) = %q fg %v bg %v", c.r, fg, bg)
	}
	if _, bg, _ := cells[[2]int{0, 1}].style.Decompose(); bg != tcell.ColorBlack {
		t.Errorf("Missing bottom pixel should be black, got %v", bg)
	}
}

func TestLogicalSize(t *testing.T) {
	w, h, pr := logicalSize(80, 24)
	if w != 320 || h != 192 || pr != 0.25 {
		t.Errorf("logicalSize(80, 24) = %d, %d, %v", w, h, pr)
	}
}
