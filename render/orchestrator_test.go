package render

import (
	"bytes"
	"image/color"
	"log"
	"strings"
	"testing"

	"github.com/lixenwraith/resonance/palette"
)

type recorder struct {
	name  string
	log   *[]string
	fail  bool
	shown bool
}

func (r *recorder) Render(ctx RenderContext, s Surface) {
	*r.log = append(*r.log, r.name)
	if r.fail {
		panic("boom")
	}
}

type toggled struct {
	recorder
}

func (t *toggled) IsVisible() bool { return t.shown }

func TestOrchestratorOrder(t *testing.T) {
	var calls []string
	o := NewRenderOrchestrator(log.New(&bytes.Buffer{}, "", 0))

	// Registered out of order on purpose
	o.Register(&recorder{name: "strings", log: &calls}, PriorityStrings)
	o.Register(&recorder{name: "blobs", log: &calls}, PriorityBlobs)
	o.Register(&recorder{name: "ambient", log: &calls}, PriorityAmbient)
	o.Register(&recorder{name: "particles", log: &calls}, PriorityParticles)
	o.Register(&recorder{name: "scope", log: &calls}, PriorityScope)
	o.Register(&recorder{name: "scope2", log: &calls}, PriorityScope)

	o.RenderFrame(RenderContext{}, NewCanvas(4, 4, 1))

	want := []string{"ambient", "scope", "scope2", "blobs", "particles", "strings"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("Order = %v, want %v", calls, want)
	}
}

func TestOrchestratorClearsFirst(t *testing.T) {
	o := NewRenderOrchestrator(nil)
	c := NewCanvas(2, 2, 1)
	c.FillRect(0, 0, 2, 2, Solid(red, 1))
	bg := color.NRGBA{1, 2, 3, 255}
	o.RenderFrame(RenderContext{ClearColor: bg}, c)
	if got := pixel(c, 1, 1); got != [4]uint8{1, 2, 3, 255} {
		t.Errorf("Frame not cleared: %v", got)
	}
	// Nil surface is a no-op
	o.RenderFrame(RenderContext{}, nil)
}

func TestOrchestratorPanicIsolation(t *testing.T) {
	var calls []string
	var buf bytes.Buffer
	o := NewRenderOrchestrator(log.New(&buf, "", 0))
	o.Register(&recorder{name: "bad", log: &calls, fail: true}, PriorityAmbient)
	o.Register(&recorder{name: "good", log: &calls}, PriorityStrings)

	c := NewCanvas(2, 2, 1)
	for i := 0; i < 3; i++ {
		o.RenderFrame(RenderContext{}, c)
	}

	if n := strings.Count(strings.Join(calls, ","), "good"); n != 3 {
		t.Errorf("Good layer rendered %d times, want 3", n)
	}
	if n := strings.Count(buf.String(), "failed"); n != 1 {
		t.Errorf("Failure logged %d times, want once: %q", n, buf.String())
	}
	if o.Failures() != 3 {
		t.Errorf("Failures = %d, want 3", o.Failures())
	}
}

func TestOrchestratorVisibility(t *testing.T) {
	var calls []string
	o := NewRenderOrchestrator(nil)
	layer := &toggled{recorder{name: "hidden", log: &calls}}
	o.Register(layer, PriorityScope)

	o.RenderFrame(RenderContext{}, NewCanvas(2, 2, 1))
	if len(calls) != 0 {
		t.Error("Invisible layer rendered")
	}
	layer.shown = true
	o.RenderFrame(RenderContext{}, NewCanvas(2, 2, 1))
	if len(calls) != 1 {
		t.Error("Visible layer skipped")
	}
	if o.Len() != 1 {
		t.Errorf("Len = %d", o.Len())
	}
}

func TestRenderContextNoteColors(t *testing.T) {
	ctx := RenderContext{
		Paints: NewPaintCache(8, 8),
		Colors: palette.ProviderFunc(func(note string, _ palette.Mode, _ int) palette.NoteColors {
			return palette.NoteColors{Primary: "#ff0000", Accent: "garbage"}
		}),
	}
	c := ctx.NoteColors("C", 4)
	if c.Primary != red {
		t.Errorf("Primary = %v", c.Primary)
	}
	if c.Accent == (color.NRGBA{}) || c.Secondary == (color.NRGBA{}) {
		t.Error("Missing colors should fall back to defaults")
	}

	none := RenderContext{}
	if none.NoteColors("C", 4).Primary == (color.NRGBA{}) {
		t.Error("Nil provider should yield fallbacks")
	}
}
