package render

// RenderPriority determines render order. Lower values render first
type RenderPriority int

const (
	PriorityAmbient RenderPriority = iota
	PriorityScope
	PriorityBlobs
	PriorityParticles
	PriorityStrings
	PriorityOverlay
)
