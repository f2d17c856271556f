package render

import (
	"image/color"

	"github.com/lixenwraith/resonance/palette"
)

// Cache is a bounded memo with insertion-order eviction
// Not safe for concurrent use; owned by the render thread
type Cache[K comparable, V any] struct {
	items map[K]V
	order []K // ring of insertion order
	head  int // oldest entry when full
	limit int
}

// NewCache creates a cache holding at most limit entries
func NewCache[K comparable, V any](limit int) *Cache[K, V] {
	if limit < 1 {
		limit = 1
	}
	return &Cache[K, V]{
		items: make(map[K]V, limit),
		order: make([]K, 0, limit),
		limit: limit,
	}
}

// Get returns the cached value for key
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.items[key]
	return v, ok
}

// Put stores value, evicting the oldest entry when at capacity
func (c *Cache[K, V]) Put(key K, value V) {
	if _, ok := c.items[key]; ok {
		c.items[key] = value
		return
	}
	if len(c.order) < c.limit {
		c.order = append(c.order, key)
	} else {
		delete(c.items, c.order[c.head])
		c.order[c.head] = key
		c.head = (c.head + 1) % c.limit
	}
	c.items[key] = value
}

// GetOrCreate returns the cached value or builds, stores and returns a new one
func (c *Cache[K, V]) GetOrCreate(key K, build func() V) V {
	if v, ok := c.items[key]; ok {
		return v
	}
	v := build()
	c.Put(key, v)
	return v
}

// Len returns the number of cached entries
func (c *Cache[K, V]) Len() int {
	return len(c.items)
}

// Limit returns the capacity
func (c *Cache[K, V]) Limit() int {
	return c.limit
}

// Clear drops all entries keeping capacity
func (c *Cache[K, V]) Clear() {
	clear(c.items)
	c.order = c.order[:0]
	c.head = 0
}

// PaintCache memoizes parsed colors and gradient objects across frames
type PaintCache struct {
	colors  *Cache[string, color.NRGBA]
	radials *Cache[string, *RadialGradient]
	linears *Cache[string, *LinearGradient]
	misses  int
}

// NewPaintCache creates a paint cache with the given color and gradient limits
func NewPaintCache(colorLimit, gradientLimit int) *PaintCache {
	return &PaintCache{
		colors:  NewCache[string, color.NRGBA](colorLimit),
		radials: NewCache[string, *RadialGradient](gradientLimit),
		linears: NewCache[string, *LinearGradient](gradientLimit),
	}
}

// Color parses s once and returns the cached result, fallback when unparseable
// Failed parses are cached as fallback too
func (p *PaintCache) Color(s string, fallback color.NRGBA) color.NRGBA {
	if c, ok := p.colors.Get(s); ok {
		return c
	}
	c, ok := palette.Parse(s)
	if !ok {
		p.misses++
		c = fallback
	}
	p.colors.Put(s, c)
	return c
}

// Radial returns the cached radial gradient for key, building it on first use
func (p *PaintCache) Radial(key string, build func() *RadialGradient) *RadialGradient {
	return p.radials.GetOrCreate(key, build)
}

// Linear returns the cached linear gradient for key, building it on first use
func (p *PaintCache) Linear(key string, build func() *LinearGradient) *LinearGradient {
	return p.linears.GetOrCreate(key, build)
}

// Len returns total cached entries across all kinds
func (p *PaintCache) Len() int {
	return p.colors.Len() + p.radials.Len() + p.linears.Len()
}

// GradientLen returns cached gradient count
func (p *PaintCache) GradientLen() int {
	return p.radials.Len() + p.linears.Len()
}

// ParseFailures returns how many distinct color strings fell back
func (p *PaintCache) ParseFailures() int {
	return p.misses
}

// Clear empties all caches
func (p *PaintCache) Clear() {
	p.colors.Clear()
	p.radials.Clear()
	p.linears.Clear()
	p.misses = 0
}
