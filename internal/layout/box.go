package layout

import (
	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/parser/html"
)

// Box is the layout of one element. X, Y, Width and Height describe the
// border box in absolute CSS pixels.
type Box struct {
	Node     *html.Node
	Parent   *Box
	Children []*Box
	Style    Computed

	X      float64
	Y      float64
	Width  float64
	Height float64

	Margin  geom.Sides[float64]
	Padding geom.Sides[float64]
	Border  geom.Sides[float64]

	// Lines is the number of text lines of an inline formatting context.
	Lines int
}

func (b *Box) addChild(c *Box) {
	c.Parent = b
	b.Children = append(b.Children, c)
}

// frameX is the horizontal padding plus border.
func (b *Box) frameX() float64 {
	return b.Padding.Left + b.Padding.Right + b.Border.Left + b.Border.Right
}

// frameY is the vertical padding plus border.
func (b *Box) frameY() float64 {
	return b.Padding.Top + b.Padding.Bottom + b.Border.Top + b.Border.Bottom
}
