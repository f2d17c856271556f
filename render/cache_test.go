package render

import (
	"fmt"
	"image/color"
	"testing"
)

func TestCacheGetOrCreateIdempotent(t *testing.T) {
	c := NewCache[string, *RadialGradient](4)
	builds := 0
	build := func() *RadialGradient {
		builds++
		return NewRadialGradient(Stop{0, red})
	}

	first := c.GetOrCreate("C:major", build)
	second := c.GetOrCreate("C:major", build)
	if first != second {
		t.Error("Same key returned a different object")
	}
	if builds != 1 {
		t.Errorf("Builder ran %d times, want 1", builds)
	}
}

func TestCacheBound(t *testing.T) {
	const limit = 8
	c := NewCache[int, int](limit)
	for i := 0; i < limit*5; i++ {
		c.Put(i, i)
		if c.Len() > limit {
			t.Fatalf("Cache grew to %d after %d inserts", c.Len(), i+1)
		}
	}
	if c.Len() != limit {
		t.Errorf("Len = %d, want %d", c.Len(), limit)
	}
	if _, ok := c.Get(0); ok {
		t.Error("Oldest entry should be evicted")
	}
	if v, ok := c.Get(limit*5 - 1); !ok || v != limit*5-1 {
		t.Error("Newest entry missing")
	}

	// Overwrite does not evict
	c.Put(limit*5-1, -1)
	if c.Len() != limit {
		t.Errorf("Overwrite changed Len to %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	c.Put(1, 1)
	if v, _ := c.Get(1); v != 1 {
		t.Error("Cache unusable after Clear")
	}
}

func TestPaintCacheColor(t *testing.T) {
	p := NewPaintCache(4, 4)
	fb := color.NRGBA{9, 9, 9, 255}

	if got := p.Color("#ff0000", fb); got != red {
		t.Errorf("Color(#ff0000) = %v", got)
	}
	if got := p.Color("bogus", fb); got != fb {
		t.Errorf("Unparseable color = %v, want fallback", got)
	}
	p.Color("bogus", fb)
	if p.ParseFailures() != 1 {
		t.Errorf("ParseFailures = %d, want 1 (cached)", p.ParseFailures())
	}

	for i := 0; i < 20; i++ {
		p.Color(fmt.Sprintf("rgb(%d,0,0)", i), fb)
	}
	if p.Len() > 4 {
		t.Errorf("Color cache exceeded bound: %d", p.Len())
	}

	g := p.Radial("k", func() *RadialGradient { return NewRadialGradient() })
	if p.Radial("k", func() *RadialGradient { return nil }) != g {
		t.Error("Radial cache not idempotent")
	}
	l := p.Linear("k", func() *LinearGradient { return NewLinearGradient() })
	if p.Linear("k", func() *LinearGradient { return nil }) != l {
		t.Error("Linear cache not idempotent")
	}
	if p.GradientLen() != 2 {
		t.Errorf("GradientLen = %d, want 2", p.GradientLen())
	}

	p.Clear()
	if p.Len() != 0 {
		t.Errorf("Len after Clear = %d", p.Len())
	}
}
