package render

// BlendMode defines how a paint is composited onto the surface
type BlendMode uint8

const (
	// BlendOver is standard source-over alpha compositing
	BlendOver BlendMode = iota
	// BlendAdd adds source light to destination ("lighter"), used for glow
	BlendAdd
	// BlendScreen brightens without blowing out as fast as BlendAdd
	BlendScreen
)
