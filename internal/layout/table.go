package layout

import (
	"strconv"
	"strings"

	"github.com/gompdf/boxpdf/internal/parser/html"
)

// layoutRow arranges the <td>/<th> children of a <tr> horizontally and
// returns the row height. Cells are stretched to the tallest cell.
func (e *Engine) layoutRow(s *state, row *Box, x, y, width float64) float64 {
	var cells []*html.Node
	for c := row.Node.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement("td", "th") && s.computed[c]["display"] != "none" {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return 0
	}

	gap := e.borderSpacing(s, row.Node)
	widths := e.columnWidths(s, cells, width, gap)

	var boxes []*Box
	height := 0.0
	cx := x
	for i, c := range cells {
		b := e.layoutBlock(s, c, row, cx, y, widths[i], widths[i])
		boxes = append(boxes, b)
		height = max(height, b.Margin.Top+b.Height+b.Margin.Bottom)
		cx += widths[i] + gap
	}
	for _, b := range boxes {
		b.Height = height - b.Margin.Top - b.Margin.Bottom
	}
	return height
}

// borderSpacing returns the horizontal spacing of the enclosing table.
func (e *Engine) borderSpacing(s *state, n *html.Node) float64 {
	for t := n.Parent; t != nil; t = t.Parent {
		if t.IsElement("table") {
			first := strings.Fields(s.computed[t]["border-spacing"])
			if len(first) == 0 {
				return 0
			}
			return parseLength(first[0], 0, 16, 0)
		}
	}
	return 0
}

// columnWidths honors percentage and px widths declared on the cells, through
// CSS or the width attribute, and shares the remaining width evenly. colspan
// divides a declared width across the spanned columns.
func (e *Engine) columnWidths(s *state, cells []*html.Node, total, gap float64) []float64 {
	type colSpec struct {
		width    float64
		span     int
		hasWidth bool
	}
	effective := total - gap*float64(len(cells)-1)
	specs := make([]colSpec, len(cells))
	cols := 0
	for i, c := range cells {
		span := 1
		if v, ok := c.Attribute("colspan"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 1 {
				span = n
			}
		}
		specs[i].span = span
		cols += span

		v := s.computed[c]["width"]
		if isAuto(v) {
			v, _ = c.Attribute("width")
		}
		if !isAuto(v) {
			if w := parseLength(v, effective, 16, 0); w > 0 {
				specs[i].width, specs[i].hasWidth = w, true
			}
		}
	}

	declared, undeclared := 0.0, 0
	for _, sp := range specs {
		if sp.hasWidth {
			declared += sp.width
		} else {
			undeclared += sp.span
		}
	}
	share := 0.0
	if undeclared > 0 {
		share = max(effective-declared, 0) / float64(undeclared)
	}

	out := make([]float64, len(cells))
	for i, sp := range specs {
		if sp.hasWidth {
			out[i] = sp.width
		} else {
			out[i] = share * float64(sp.span)
		}
	}
	return out
}
