package main

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/resonance/render"
)

// Logical pixels per terminal column; each cell shows two vertically stacked pixels
const cellPixels = 4

// termHost renders the engine into a terminal with half-block cells
// The backing canvas has exactly one pixel per half cell
type termHost struct {
	screen   tcell.Screen
	detached atomic.Bool
}

func newTermHost(screen tcell.Screen) *termHost {
	return &termHost{screen: screen}
}

// Size maps the terminal grid to logical pixels
func (h *termHost) Size() (int, int, float64) {
	cols, rows := h.screen.Size()
	return logicalSize(cols, rows)
}

func logicalSize(cols, rows int) (int, int, float64) {
	return cols * cellPixels, rows * 2 * cellPixels, 1.0 / cellPixels
}

// NewSurface returns a CPU canvas sized to the terminal
func (h *termHost) NewSurface(width, height int, pixelRatio float64) render.Surface {
	if width <= 0 || height <= 0 {
		return nil
	}
	return render.NewCanvas(width, height, pixelRatio)
}

// Unsubscribe stops forwarding terminal resizes to the engine
func (h *termHost) Unsubscribe() {
	h.detached.Store(true)
}

// Attached reports whether resize events should still reach the engine
func (h *termHost) Attached() bool {
	return !h.detached.Load()
}

// present copies the canvas to the screen, top pixel as foreground of '▀'
func (h *termHost) present(s render.Surface) {
	c, ok := s.(*render.Canvas)
	if !ok {
		return
	}
	img := c.Image()
	cols, rows := h.screen.Size()
	drawHalfBlocks(img, cols, rows, h.screen.SetContent)
	h.screen.Show()
}

type setContentFunc func(x, y int, primary rune, combining []rune, style tcell.Style)

// drawHalfBlocks maps pixel rows 2y and 2y+1 to cell row y
func drawHalfBlocks(img *image.RGBA, cols, rows int, set setContentFunc) {
	b := img.Bounds()
	for y := 0; y < rows; y++ {
		top, bottom := 2*y, 2*y+1
		if top >= b.Dy() {
			break
		}
		for x := 0; x < cols && x < b.Dx(); x++ {
			fg := cellColor(img.RGBAAt(x, top))
			bg := tcell.ColorBlack
			if bottom < b.Dy() {
				bg = cellColor(img.RGBAAt(x, bottom))
			}
			set(x, y, '▀', nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
}

// cellColor drops alpha; the canvas is cleared opaque every frame
func cellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
