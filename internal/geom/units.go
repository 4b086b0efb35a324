// Package geom holds the unit types shared by pagination and rendering and the
// transformer that converts between them.
package geom

// Px is a length measured on the source document, in CSS pixels.
type Px float64

// Doc is a length in target document units (centimetres for the default backend).
type Doc float64

// Pt is a font size in typographic points, the unit the backend expects for text.
type Pt float64

// pointInCm is the size of one typographic point in centimetres.
const pointInCm = 0.03528

// Rect is a rectangle in target document units.
type Rect struct {
	X Doc
	Y Doc
	W Doc
	H Doc
}

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() Doc {
	return r.Y + r.H
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() Doc {
	return r.X + r.W
}

// Inset shrinks the rectangle by the given amounts on each side.
func (r Rect) Inset(top, right, bottom, left Doc) Rect {
	return Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: r.W - left - right,
		H: r.H - top - bottom,
	}
}

// Sides holds one value per box side in CSS order.
type Sides[T any] struct {
	Top    T
	Right  T
	Bottom T
	Left   T
}
