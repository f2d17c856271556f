package visual

import "image/color"

// Fallback colors when a provider color string cannot be parsed
var (
	RgbBlack      = color.NRGBA{0, 0, 0, 255}
	RgbWhite      = color.NRGBA{255, 255, 255, 255}
	RgbBackground = color.NRGBA{10, 12, 20, 255} // Deep navy clear color

	RgbFallbackPrimary   = color.NRGBA{120, 170, 255, 255}
	RgbFallbackAccent    = color.NRGBA{255, 182, 193, 255}
	RgbFallbackSecondary = color.NRGBA{60, 90, 200, 255}
	RgbFallbackTertiary  = color.NRGBA{200, 230, 255, 255}

	RgbScopeIdle = color.NRGBA{0, 220, 220, 255} // Cyan when no scale colors resolve
	RgbNoise     = color.NRGBA{255, 255, 255, 255}
)

// Performance overlay tier colors
var (
	RgbTierExcellent = color.NRGBA{80, 220, 120, 255}
	RgbTierGood      = color.NRGBA{200, 220, 80, 255}
	RgbTierFair      = color.NRGBA{240, 160, 60, 255}
	RgbTierPoor      = color.NRGBA{230, 70, 70, 255}
	RgbOverlayTrack  = color.NRGBA{30, 34, 48, 255}
)
