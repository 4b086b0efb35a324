package box

import (
	"strconv"
	"strings"

	"github.com/gompdf/boxpdf/internal/geom"
)

// Category classifies what a box contributes to the output.
type Category int

const (
	// Container boxes only paint background and borders.
	Container Category = iota
	// Image boxes hold an intrinsic raster element (<img>).
	Image
	// Drawable boxes are canvas-like elements painted by the page (<canvas>, <svg>).
	Drawable
)

// Selectors name the criteria the printer uses to classify nodes.
type Selectors struct {
	Export string
	Group  string
	Break  string
}

// Border is the resolved border of one box side.
type Border struct {
	Width geom.Px
	Style string
	Color Color
}

// Visible reports whether the border would paint anything.
func (b Border) Visible() bool {
	return b.Width > 0 && b.Style != "none" && b.Style != "hidden" && b.Style != ""
}

// Font is the resolved font of a box.
type Font struct {
	Family     string
	Weight     string
	Style      string
	Size       geom.Px
	LineHeight geom.Px
}

// LineHeightFactor returns line height divided by font size.
func (f Font) LineHeightFactor() float64 {
	if f.Size <= 0 || f.LineHeight <= 0 {
		return 1.15
	}
	return float64(f.LineHeight) / float64(f.Size)
}

// Group is the geometry of the enclosing unsplittable ancestor.
type Group struct {
	Node   Node
	Y      geom.Px
	Height geom.Px
}

// Box is a snapshot of one visited node. It is rebuilt from the provider on
// every visit and never cached across passes.
type Box struct {
	Node Node
	Tag  string

	X      geom.Px
	Y      geom.Px
	Width  geom.Px
	Height geom.Px

	Padding geom.Sides[geom.Px]
	Borders geom.Sides[Border]

	Background      Color
	BackgroundImage string
	Color           Color
	Font            Font

	Text     string
	Src      string
	Category Category

	Group      *Group
	ForceBreak bool
	Excluded   bool
	// Leaf is false when the box contains other exportable boxes.
	Leaf bool
}

// HasRaster reports whether the renderer should embed an image for the box.
func (b *Box) HasRaster() bool {
	return b.Category == Image || b.Category == Drawable || b.BackgroundImage != ""
}

// Load derives the box for n from the provider.
func Load(p Provider, n Node, sel Selectors) (*Box, error) {
	root := p.Root()
	b := &Box{
		Node:     n,
		Tag:      strings.ToLower(p.Tag(n)),
		Excluded: p.Hidden(n),
	}
	b.X, b.Y = p.Position(n, root)
	b.Width = p.Width(n)
	b.Height = p.Height(n)

	b.Padding = geom.Sides[geom.Px]{
		Top:    ParsePx(p.Style(n, "padding-top")),
		Right:  ParsePx(p.Style(n, "padding-right")),
		Bottom: ParsePx(p.Style(n, "padding-bottom")),
		Left:   ParsePx(p.Style(n, "padding-left")),
	}
	b.Borders = geom.Sides[Border]{
		Top:    loadBorder(p, n, "top"),
		Right:  loadBorder(p, n, "right"),
		Bottom: loadBorder(p, n, "bottom"),
		Left:   loadBorder(p, n, "left"),
	}

	b.Background, _ = ParseColor(p.Style(n, "background-color"))
	b.BackgroundImage = ParseURL(p.Style(n, "background-image"))
	if c, ok := ParseColor(p.Style(n, "color")); ok {
		b.Color = c
	} else {
		b.Color = Black
	}
	b.Font = Font{
		Family:     FirstFamily(p.Style(n, "font-family")),
		Weight:     NormalizeWeight(p.Style(n, "font-weight")),
		Style:      normalizeFontStyle(p.Style(n, "font-style")),
		Size:       ParsePx(p.Style(n, "font-size")),
		LineHeight: ParsePx(p.Style(n, "line-height")),
	}

	b.Text = p.Text(n)
	switch b.Tag {
	case "img":
		b.Category = Image
		b.Src, _ = p.Attr(n, "src")
	case "canvas", "svg":
		b.Category = Drawable
	}

	if sel.Break != "" {
		b.ForceBreak = p.Matches(n, sel.Break)
	}
	if sel.Group != "" {
		if g, ok := p.Closest(n, sel.Group); ok {
			_, gy := p.Position(g, root)
			b.Group = &Group{Node: g, Y: gy, Height: p.Height(g)}
		}
	}
	b.Leaf = true
	if sel.Export != "" {
		nested, err := p.Select(n, sel.Export)
		if err != nil {
			return nil, err
		}
		b.Leaf = len(nested) == 0
	}
	return b, nil
}

func loadBorder(p Provider, n Node, side string) Border {
	prefix := "border-" + side + "-"
	c, ok := ParseColor(p.Style(n, prefix+"color"))
	if !ok {
		c = Black
	}
	return Border{
		Width: ParsePx(p.Style(n, prefix+"width")),
		Style: strings.ToLower(strings.TrimSpace(p.Style(n, prefix+"style"))),
		Color: c,
	}
}

// ParsePx parses a resolved pixel length such as "12px" or "12". Anything
// else yields 0.
func ParsePx(value string) geom.Px {
	v := strings.TrimSpace(value)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return geom.Px(f)
}

// ParseURL extracts the location from a CSS url(...) value; "none" and other
// values yield "".
func ParseURL(value string) string {
	v := strings.TrimSpace(value)
	start := strings.Index(v, "url(")
	if start < 0 {
		return ""
	}
	v = v[start+4:]
	end := strings.IndexByte(v, ')')
	if end < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(v[:end]), `"'`)
}

// FirstFamily returns the first family of a CSS font-family list, unquoted.
func FirstFamily(value string) string {
	first, _, _ := strings.Cut(value, ",")
	return strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(first))
}

// NormalizeWeight converts keyword weights to their numeric form.
func NormalizeWeight(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "normal":
		return "400"
	case "bold", "bolder":
		return "700"
	case "lighter":
		return "300"
	default:
		return v
	}
}

func normalizeFontStyle(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "italic", "oblique":
		return v
	default:
		return "normal"
	}
}
