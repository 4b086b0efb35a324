package layout

import (
	"strconv"
	"strings"

	"github.com/gompdf/boxpdf/internal/style"
)

// Computed holds the resolved values of one element. font-size and
// line-height are in px; other values are kept as written.
type Computed map[string]string

// lineHeightSpec keeps the inheritable form of line-height: a number is
// inherited as a factor, a length as the parent's pixels.
const lineHeightSpec = "-line-height-spec"

var initialValues = map[string]string{
	"display":          "inline",
	"visibility":       "visible",
	"color":            "#000000",
	"background-color": "transparent",
	"background-image": "none",
	"font-family":      "Helvetica",
	"font-size":        "16px",
	"font-weight":      "normal",
	"font-style":       "normal",
	"line-height":      "normal",
	"text-align":       "left",
	"white-space":      "normal",
	"width":            "auto",
	"height":           "auto",
	"box-sizing":       "content-box",
}

func init() {
	for _, side := range []string{"top", "right", "bottom", "left"} {
		initialValues["margin-"+side] = "0"
		initialValues["padding-"+side] = "0"
		initialValues["border-"+side+"-width"] = "medium"
		initialValues["border-"+side+"-style"] = "none"
		initialValues["border-"+side+"-color"] = "currentcolor"
	}
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
}

// resolve computes the values of an element from its cascaded style and the
// parent's computed values; parent is nil for the document node.
func resolve(cascaded style.ComputedStyle, parent Computed) Computed {
	c := Computed{}
	get := func(prop string) (string, bool) {
		v := strings.TrimSpace(cascaded.Value(prop))
		switch strings.ToLower(v) {
		case "", "unset":
			if style.Inherited(prop) && parent != nil {
				return parent[prop], true
			}
			return initialValues[prop], false
		case "inherit":
			if parent != nil {
				return parent[prop], true
			}
			return initialValues[prop], false
		case "initial":
			return initialValues[prop], false
		}
		return v, false
	}

	for prop := range initialValues {
		c[prop], _ = get(prop)
	}
	for prop, p := range cascaded {
		if _, ok := c[prop]; !ok {
			c[prop] = p.Value
		}
	}

	parentSize := 16.0
	if parent != nil {
		parentSize = parseLength(parent["font-size"], 16, 16, 16)
	}
	size := resolveFontSize(c["font-size"], parentSize)
	c["font-size"] = formatPx(size)

	spec, inherited := get("line-height")
	if inherited && parent != nil {
		spec = parent[lineHeightSpec]
	}
	lh, keep := resolveLineHeight(spec, size)
	c["line-height"] = formatPx(lh)
	c[lineHeightSpec] = keep

	if strings.EqualFold(c["color"], "currentcolor") {
		if parent != nil {
			c["color"] = parent["color"]
		} else {
			c["color"] = initialValues["color"]
		}
	}
	for _, side := range []string{"top", "right", "bottom", "left"} {
		key := "border-" + side + "-color"
		if strings.EqualFold(c[key], "currentcolor") {
			c[key] = c["color"]
		}
	}
	return c
}

func resolveFontSize(v string, parent float64) float64 {
	v = strings.ToLower(strings.TrimSpace(v))
	if k, ok := fontSizeKeywords[v]; ok {
		return k
	}
	switch v {
	case "smaller":
		return parent / 1.2
	case "larger":
		return parent * 1.2
	}
	return parseLength(v, parent, parent, parent)
}

// resolveLineHeight returns the line height in px and the value children
// inherit.
func resolveLineHeight(v string, size float64) (float64, string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == "normal" {
		return 1.15 * size, "normal"
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f * size, v
	}
	px := parseLength(v, size, size, 1.15*size)
	return px, formatPx(px)
}

// parseLength parses a CSS length value. Percentages refer to containerSize,
// em to the font size em.
func parseLength(value string, containerSize, em, defaultValue float64) float64 {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == "auto" || value == "none" || value == "normal" {
		return defaultValue
	}

	units := []struct {
		suffix string
		factor float64
	}{
		{"%", containerSize / 100},
		{"px", 1},
		{"rem", 16},
		{"em", em},
		{"pt", 96.0 / 72},
		{"pc", 16},
		{"cm", 96 / 2.54},
		{"mm", 96 / 25.4},
		{"in", 96},
	}
	for _, u := range units {
		if num, ok := strings.CutSuffix(value, u.suffix); ok {
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return defaultValue
			}
			return f * u.factor
		}
	}

	pixels, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return pixels
}

// isAuto reports whether a size value leaves the size to layout.
func isAuto(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || v == "auto"
}

func borderWidth(c Computed, side string) float64 {
	switch strings.ToLower(c["border-"+side+"-style"]) {
	case "none", "hidden", "":
		return 0
	}
	switch v := strings.ToLower(c["border-"+side+"-width"]); v {
	case "thin":
		return 1
	case "medium":
		return 3
	case "thick":
		return 5
	default:
		return parseLength(v, 0, parseLength(c["font-size"], 16, 16, 16), 0)
	}
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
