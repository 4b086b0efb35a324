package box

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an sRGB colour with alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

var (
	Black       = Color{A: 1}
	Transparent = Color{}
)

// Transparent reports whether the colour would not be visible at all.
func (c Color) Transparent() bool {
	return c.A <= 0
}

// String formats the colour as a CSS rgba() value.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// ParseColor parses a CSS colour value. It accepts hex notations, rgb()/rgba(),
// "transparent" and the CSS named colours. The boolean is false for values it
// does not understand.
func ParseColor(value string) (Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return Color{}, false
	case v == "transparent":
		return Transparent, true
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v)
	case strings.HasPrefix(v, "rgb"):
		return parseFuncColor(v)
	}
	if c, ok := colornames.Map[v]; ok {
		return Color{R: c.R, G: c.G, B: c.B, A: 1}, true
	}
	return Color{}, false
}

// parseHexColor parses #RGB, #RGBA, #RRGGBB and #RRGGBBAA
func parseHexColor(s string) (Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 || len(s) == 4 {
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			b.WriteByte(s[i])
			b.WriteByte(s[i])
		}
		s = b.String()
	}
	if len(s) != 6 && len(s) != 8 {
		return Color{}, false
	}
	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, false
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: float64(ch[3]) / 255}, true
}

// parseFuncColor parses rgb(r, g, b), rgba(r, g, b, a) and the space separated
// rgb(r g b / a) form.
func parseFuncColor(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Color{}, false
	}
	body := s[open+1 : len(s)-1]
	body = strings.NewReplacer(",", " ", "/", " ").Replace(body)
	parts := strings.Fields(body)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(parts[i])
		if !ok {
			return Color{}, false
		}
		rgb[i] = v
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, ok := parseAlpha(parts[3])
		if !ok {
			return Color{}, false
		}
		alpha = a
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, true
}

func parseChannel(s string) (uint8, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return uint8(clamp(f, 0, 100) * 255 / 100), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return uint8(clamp(f, 0, 255)), true
}

func parseAlpha(s string) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return clamp(f, 0, 100) / 100, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(f, 0, 1), true
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
