// Package pdf draws paginated boxes onto a PDF backend: the element renderer,
// the page number stamper and the output sink they draw through.
package pdf

import (
	"strings"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/raster"
)

// Align is the horizontal alignment of text relative to its anchor.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign parses an alignment name; anything unknown is left aligned.
func ParseAlign(s string) Align {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignCenter, AlignRight:
		return a
	default:
		return AlignLeft
	}
}

// Font selects the backend font. Fonts are looked up by Key, the name they
// were registered under.
type Font struct {
	Family string
	Weight string
	Style  string
	Size   geom.Pt
	// LineHeight is the ratio of line height to font size.
	LineHeight float64
}

// Key returns the registration key "<family> <weight> <style>".
func (f Font) Key() string {
	return f.Family + " " + f.Weight + " " + f.Style
}

// Sink accepts primitive drawing commands in document units.
type Sink interface {
	AddPage()
	SetFont(f Font)
	SetTextColor(c box.Color)
	SetDrawColor(c box.Color)
	SetFillColor(c box.Color)
	// SetAlpha sets the opacity of following fills and strokes.
	SetAlpha(a float64)
	SetLineWidth(w geom.Doc)
	// SplitText wraps s to lines no wider than w in the current font.
	SplitText(s string, w geom.Doc) []string
	// Text draws lines with the first baseline at y, spaced by the line
	// height of the current font.
	Text(x, y geom.Doc, lines []string, align Align)
	// Rect draws a rectangle; style is "F" (fill), "D" (stroke) or "FD".
	Rect(r geom.Rect, style string)
	Line(x1, y1, x2, y2 geom.Doc)
	Image(img *raster.Raster, r geom.Rect) error
}
