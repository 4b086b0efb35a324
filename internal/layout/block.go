package layout

import (
	"strings"

	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/parser/html"
)

var blockDisplays = map[string]bool{
	"block":              true,
	"list-item":          true,
	"flex":               true,
	"grid":               true,
	"inline-block":       true,
	"table":              true,
	"table-row-group":    true,
	"table-header-group": true,
	"table-footer-group": true,
	"table-row":          true,
	"table-cell":         true,
	"table-caption":      true,
	"flow-root":          true,
}

// isBlockLevel reports whether n starts its own block. Replaced elements and
// inline elements wrapping blocks are laid out as blocks too.
func (e *Engine) isBlockLevel(s *state, n *html.Node) bool {
	if !n.IsElement() {
		return false
	}
	if blockDisplays[s.computed[n]["display"]] || isReplaced(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement() && s.computed[c]["display"] != "none" && e.isBlockLevel(s, c) {
			return true
		}
	}
	return false
}

// layoutBlock lays out n as a block whose margin box starts at (x, y) inside
// a containing block of width avail. A positive fixed forces the border-box
// width, as table rows do for their cells.
func (e *Engine) layoutBlock(s *state, n *html.Node, parent *Box, x, y, avail, fixed float64) *Box {
	c := s.computed[n]
	b := &Box{Node: n, Style: c}
	if parent != nil {
		parent.addChild(b)
	}
	s.boxes[n] = b

	em := parseLength(c["font-size"], 16, 16, 16)
	b.Margin = lengths(c, "margin-", avail, em)
	b.Padding = lengths(c, "padding-", avail, em)
	b.Border = geom.Sides[float64]{
		Top:    borderWidth(c, "top"),
		Right:  borderWidth(c, "right"),
		Bottom: borderWidth(c, "bottom"),
		Left:   borderWidth(c, "left"),
	}
	borderBox := strings.EqualFold(c["box-sizing"], "border-box")

	// content sizes from CSS; negative means auto
	cssW, cssH := -1.0, -1.0
	if !isAuto(c["width"]) {
		cssW = parseLength(c["width"], avail, em, 0)
		if borderBox {
			cssW -= b.frameX()
		}
	}
	if !isAuto(c["height"]) && !strings.HasSuffix(strings.TrimSpace(c["height"]), "%") {
		cssH = parseLength(c["height"], 0, em, 0)
		if borderBox {
			cssH -= b.frameY()
		}
	}

	var contentW float64
	switch {
	case fixed > 0:
		contentW = fixed - b.frameX()
	case cssW >= 0:
		contentW = cssW
	default:
		contentW = avail - b.Margin.Left - b.Margin.Right - b.frameX()
	}
	if mw := c["max-width"]; mw != "" && !isAuto(mw) && mw != "none" {
		if m := parseLength(mw, avail, em, contentW); m < contentW {
			contentW = m
		}
	}
	contentW = max(contentW, 0)

	b.X = x + b.Margin.Left
	b.Y = y + b.Margin.Top
	cx := b.X + b.Border.Left + b.Padding.Left
	cy := b.Y + b.Border.Top + b.Padding.Top

	var contentH float64
	switch {
	case isReplaced(n):
		contentW, contentH = e.replacedSize(n, cssW, cssH, contentW)
	case n.Data == "tr":
		contentH = e.layoutRow(s, b, cx, cy, contentW)
	default:
		contentH = e.layoutChildren(s, b, cx, cy, contentW)
	}
	if cssH >= 0 {
		contentH = cssH
	}
	if mh := c["min-height"]; mh != "" && !isAuto(mh) {
		contentH = max(contentH, parseLength(mh, 0, em, 0))
	}

	b.Width = contentW + b.frameX()
	b.Height = max(contentH, 0) + b.frameY()
	return b
}

// layoutChildren lays out the children of b in normal flow and returns the
// content height.
func (e *Engine) layoutChildren(s *state, b *Box, x, y, width float64) float64 {
	cursor := y
	prevMargin := 0.0
	var flow []*html.Node

	flush := func() {
		if len(flow) == 0 {
			return
		}
		if h := e.layoutInline(s, b, flow, x, cursor, width); h > 0 {
			cursor += prevMargin + h
			prevMargin = 0
		}
		flow = flow[:0]
	}

	for ch := b.Node.FirstChild; ch != nil; ch = ch.NextSibling {
		switch {
		case ch.IsElement() && s.computed[ch]["display"] == "none":
			continue
		case e.isBlockLevel(s, ch):
			flush()
			cc := s.computed[ch]
			mt := lengths(cc, "margin-", width, parseLength(cc["font-size"], 16, 16, 16)).Top
			// adjacent vertical margins collapse to the larger one
			top := cursor + max(prevMargin, mt) - mt
			cb := e.layoutBlock(s, ch, b, x, top, width, 0)
			cursor = cb.Y + cb.Height
			prevMargin = cb.Margin.Bottom
		default:
			flow = append(flow, ch)
		}
	}
	flush()
	return cursor + prevMargin - y
}

func lengths(c Computed, prefix string, avail, em float64) geom.Sides[float64] {
	return geom.Sides[float64]{
		Top:    parseLength(c[prefix+"top"], avail, em, 0),
		Right:  parseLength(c[prefix+"right"], avail, em, 0),
		Bottom: parseLength(c[prefix+"bottom"], avail, em, 0),
		Left:   parseLength(c[prefix+"left"], avail, em, 0),
	}
}
