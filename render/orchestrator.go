package render

import (
	"log"
)

type rendererEntry struct {
	renderer SystemRenderer
	priority RenderPriority
	index    int  // registration order for stable sort
	failed   bool // a panic was already logged for this renderer
}

// RenderOrchestrator coordinates the render pipeline
type RenderOrchestrator struct {
	renderers []rendererEntry
	regCount  int
	logger    *log.Logger
	failures  int
}

// NewRenderOrchestrator creates an empty orchestrator; nil logger uses log.Default
func NewRenderOrchestrator(logger *log.Logger) *RenderOrchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &RenderOrchestrator{
		renderers: make([]rendererEntry, 0, 8),
		logger:    logger,
	}
}

// Register adds a renderer at the specified priority. Maintains sorted order via insertion sort
func (o *RenderOrchestrator) Register(r SystemRenderer, priority RenderPriority) {
	entry := rendererEntry{
		renderer: r,
		priority: priority,
		index:    o.regCount,
	}
	o.regCount++

	// Insertion sort: find position and insert
	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// Len returns the number of registered renderers
func (o *RenderOrchestrator) Len() int {
	return len(o.renderers)
}

// Failures returns the total renderer panics recovered
func (o *RenderOrchestrator) Failures() int {
	return o.failures
}

// RenderFrame executes the render pipeline: clear, then every visible layer back to front
func (o *RenderOrchestrator) RenderFrame(ctx RenderContext, s Surface) {
	if s == nil {
		return
	}
	s.Clear(ctx.ClearColor)

	for i := range o.renderers {
		entry := &o.renderers[i]
		// Skip if renderer implements VisibilityToggle and is not visible
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		o.renderOne(entry, ctx, s)
	}
}

// renderOne isolates a layer so one failure never aborts the frame
func (o *RenderOrchestrator) renderOne(entry *rendererEntry, ctx RenderContext, s Surface) {
	defer func() {
		if r := recover(); r != nil {
			o.failures++
			if !entry.failed {
				entry.failed = true
				o.logger.Printf("render: layer %T (priority %d) failed: %v", entry.renderer, entry.priority, r)
			}
		}
	}()
	entry.renderer.Render(ctx, s)
}
