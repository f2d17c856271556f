package palette

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Parse converts a color string to NRGBA
// Accepts #rgb, #rrggbb, rgb(), rgba(), hsl(), hsla() and named colors
func Parse(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, false
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, false
		}
		r, g, b := c.Clamped().RGB255()
		return color.NRGBA{r, g, b, 255}, true
	}

	if name, args, ok := splitFunc(s); ok {
		switch name {
		case "rgb", "rgba":
			return parseRGB(args)
		case "hsl", "hsla":
			return parseHSL(args)
		}
		return color.NRGBA{}, false
	}

	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, true
	}
	return color.NRGBA{}, false
}

// ParseOr returns the parsed color or fallback
func ParseOr(s string, fallback color.NRGBA) color.NRGBA {
	if c, ok := Parse(s); ok {
		return c
	}
	return fallback
}

// splitFunc splits "name(a, b, c)" into name and trimmed args
func splitFunc(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	inner := s[open+1 : len(s)-1]
	// Space separated CSS4 syntax with optional "/ alpha"
	inner = strings.ReplaceAll(inner, "/", ",")
	var args []string
	if strings.Contains(inner, ",") {
		args = strings.Split(inner, ",")
	} else {
		args = strings.Fields(inner)
	}
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return strings.TrimSpace(s[:open]), args, true
}

func parseRGB(args []string) (color.NRGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, pct, ok := parseNumber(args[i])
		if !ok {
			return color.NRGBA{}, false
		}
		if pct {
			v *= 255
		}
		ch[i] = channel(v)
	}
	a, ok := parseAlpha(args)
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{ch[0], ch[1], ch[2], a}, true
}

func parseHSL(args []string) (color.NRGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, false
	}
	h, _, ok1 := parseNumber(strings.TrimSuffix(args[0], "deg"))
	s, _, ok2 := parseNumber(args[1])
	l, _, ok3 := parseNumber(args[2])
	if !ok1 || !ok2 || !ok3 {
		return color.NRGBA{}, false
	}
	// Saturation and lightness are percentages with or without the sign
	if s > 1 || strings.HasSuffix(args[1], "%") {
		s = normPercent(args[1], s)
	}
	if l > 1 || strings.HasSuffix(args[2], "%") {
		l = normPercent(args[2], l)
	}
	a, ok := parseAlpha(args)
	if !ok {
		return color.NRGBA{}, false
	}
	r, g, b := colorful.Hsl(h, clampUnit(s), clampUnit(l)).Clamped().RGB255()
	return color.NRGBA{r, g, b, a}, true
}

func parseAlpha(args []string) (uint8, bool) {
	if len(args) < 4 {
		return 255, true
	}
	v, _, ok := parseNumber(args[3])
	if !ok {
		return 0, false
	}
	return channel(clampUnit(v) * 255), true
}

// parseNumber parses a float; percentages are returned as fractions with pct set
func parseNumber(s string) (float64, bool, bool) {
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false, false
	}
	if pct {
		v /= 100
	}
	return v, pct, true
}

// normPercent handles "50" meaning 50% when the sign is omitted
func normPercent(raw string, v float64) float64 {
	if strings.HasSuffix(raw, "%") {
		return v
	}
	return v / 100
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
