package style

import (
	"strings"

	"github.com/gompdf/boxpdf/internal/parser/css"
)

var sides = [4]string{"top", "right", "bottom", "left"}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// Expand rewrites a shorthand declaration into its longhands. Other
// declarations are returned unchanged.
func Expand(d *css.Declaration) []*css.Declaration {
	long := func(prop, val string) *css.Declaration {
		return &css.Declaration{Property: prop, Value: val, Important: d.Important}
	}
	switch d.Property {
	case "margin", "padding":
		t, r, b, l := boxValues(d.Value)
		return []*css.Declaration{
			long(d.Property+"-top", t), long(d.Property+"-right", r),
			long(d.Property+"-bottom", b), long(d.Property+"-left", l),
		}
	case "border-width", "border-style", "border-color":
		kind := strings.TrimPrefix(d.Property, "border-")
		t, r, b, l := boxValues(d.Value)
		return []*css.Declaration{
			long("border-top-"+kind, t), long("border-right-"+kind, r),
			long("border-bottom-"+kind, b), long("border-left-"+kind, l),
		}
	case "border", "border-top", "border-right", "border-bottom", "border-left":
		width, style, color := borderParts(d.Value)
		targets := sides[:]
		if side, ok := strings.CutPrefix(d.Property, "border-"); ok {
			targets = []string{side}
		}
		var out []*css.Declaration
		for _, s := range targets {
			out = append(out,
				long("border-"+s+"-width", width),
				long("border-"+s+"-style", style),
				long("border-"+s+"-color", color))
		}
		return out
	case "background":
		color, image := backgroundParts(d.Value)
		return []*css.Declaration{long("background-color", color), long("background-image", image)}
	case "font":
		return fontParts(d.Value, long)
	}
	return []*css.Declaration{d}
}

// boxValues applies the 1 to 4 value rule of box shorthands.
func boxValues(v string) (t, r, b, l string) {
	parts := strings.Fields(v)
	switch len(parts) {
	case 0:
		return "", "", "", ""
	case 1:
		return parts[0], parts[0], parts[0], parts[0]
	case 2:
		return parts[0], parts[1], parts[0], parts[1]
	case 3:
		return parts[0], parts[1], parts[2], parts[1]
	default:
		return parts[0], parts[1], parts[2], parts[3]
	}
}

// fields splits a value at spaces outside parentheses.
func fields(v string) []string {
	var out []string
	depth, start := 0, -1
	for i, r := range v {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ' ' && depth == 0:
			if start >= 0 {
				out = append(out, v[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, v[start:])
	}
	return out
}

func borderParts(v string) (width, style, color string) {
	width, style, color = "medium", "none", "currentcolor"
	for _, p := range fields(v) {
		lp := strings.ToLower(p)
		switch {
		case borderStyles[lp]:
			style = lp
		case lp == "thin" || lp == "medium" || lp == "thick" || isLength(lp):
			width = lp
		default:
			color = p
		}
	}
	return width, style, color
}

func backgroundParts(v string) (color, image string) {
	color, image = "transparent", "none"
	for _, p := range fields(v) {
		lp := strings.ToLower(p)
		switch {
		case strings.HasPrefix(lp, "url("), strings.Contains(lp, "gradient("):
			image = p
		case lp == "none", lp == "repeat", lp == "no-repeat", lp == "repeat-x", lp == "repeat-y",
			lp == "center", lp == "top", lp == "bottom", lp == "left", lp == "right",
			lp == "fixed", lp == "scroll", lp == "cover", lp == "contain", lp == "/", isLength(lp):
		default:
			color = p
		}
	}
	return color, image
}

// fontParts expands "font: [style] [weight] size[/line-height] family".
func fontParts(v string, long func(prop, val string) *css.Declaration) []*css.Declaration {
	parts := fields(v)
	style, weight := "normal", "normal"
	for i, p := range parts {
		lp := strings.ToLower(p)
		switch {
		case lp == "italic" || lp == "oblique":
			style = lp
		case lp == "bold" || lp == "bolder" || lp == "lighter" || (len(lp) == 3 && lp[1:] == "00"):
			weight = lp
		case lp == "normal" || lp == "small-caps":
		default:
			size, lineHeight, _ := strings.Cut(p, "/")
			out := []*css.Declaration{
				long("font-style", style),
				long("font-weight", weight),
				long("font-size", size),
				long("font-family", strings.Join(parts[i+1:], " ")),
			}
			if lineHeight != "" {
				out = append(out, long("line-height", lineHeight))
			}
			return out
		}
	}
	return nil
}

func isLength(v string) bool {
	if v == "" {
		return false
	}
	c := v[0]
	return (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+'
}
