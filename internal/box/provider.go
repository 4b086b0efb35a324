// Package box describes the read-only geometry provider the printer consumes
// and the per-visit Box snapshot derived from it.
package box

import (
	"image"

	"github.com/gompdf/boxpdf/internal/geom"
)

// Node is an opaque handle to one element of the source tree. Providers hand
// out nodes and accept them back; the printer never inspects them.
type Node any

// Provider answers geometry and style queries about a laid-out tree.
// All lengths are in source pixels; Position is relative to the given ancestor
// and refers to the border box, as do Width and Height.
type Provider interface {
	Root() Node
	// Select returns the descendants of n matching selector, in document order.
	Select(n Node, selector string) ([]Node, error)
	// Closest returns the nearest ancestor of n (excluding n) matching selector.
	Closest(n Node, selector string) (Node, bool)
	Matches(n Node, selector string) bool
	// Hidden reports whether n or one of its ancestors is not displayed.
	Hidden(n Node) bool

	Position(n, ancestor Node) (x, y geom.Px)
	Width(n Node) geom.Px
	Height(n Node) geom.Px

	// Style returns the resolved value of a CSS property; lengths are in px.
	Style(n Node, property string) string
	Tag(n Node) string
	Attr(n Node, key string) (string, bool)
	// Text returns the rendered text of n, with block boundaries as newlines.
	Text(n Node) string
}

// Mutator is implemented by providers that allow the printer to add helper
// elements and toggle classes on the tree.
type Mutator interface {
	// Append creates an element with the given class under parent.
	Append(parent Node, tag, class string) Node
	AddClass(n Node, class string)
	RemoveClass(n Node, class string)
}

// Markup is implemented by providers that can serialize a subtree, which is
// needed to rasterize inline drawables such as <svg>.
type Markup interface {
	OuterHTML(n Node) (string, error)
}

// Rasterizer is implemented by providers that hold the pixels of drawables
// such as <canvas>, which have no markup to render from.
type Rasterizer interface {
	Raster(n Node) (image.Image, error)
}
