// Package layout lays out a styled HTML document as a tree of blocks in CSS
// pixels. It is deliberately small: block flow with sibling margin collapsing,
// inline text wrapping, replaced elements and table rows.
package layout

import (
	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/parser/html"
	"github.com/gompdf/boxpdf/internal/style"
)

// DefaultViewportWidth is the width of an A4 page at 96 dpi.
const DefaultViewportWidth = 794

// DefaultHiddenClass excludes a box and its subtree from layout.
const DefaultHiddenClass = "d-none"

// ImageSizeFunc returns the intrinsic pixel size of an image source.
type ImageSizeFunc func(src string) (w, h float64, ok bool)

// Options represents options for the layout engine
type Options struct {
	// Width is the viewport width in px.
	Width float64
	// HiddenClass marks elements that are never exported.
	HiddenClass string
	ImageSize   ImageSizeFunc
}

// Engine lays out documents
type Engine struct {
	options Options
	measure Measurer
	log     *zap.Logger
}

// NewEngine creates a new layout engine
func NewEngine(m Measurer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = NewFpdfMeasurer()
	}
	return &Engine{
		options: Options{Width: DefaultViewportWidth, HiddenClass: DefaultHiddenClass},
		measure: m,
		log:     log.Named("layout"),
	}
}

// SetOptions sets the options for the layout engine
func (e *Engine) SetOptions(options Options) {
	if options.Width <= 0 {
		options.Width = DefaultViewportWidth
	}
	if options.HiddenClass == "" {
		options.HiddenClass = DefaultHiddenClass
	}
	e.options = options
}

// state is the per-run result of a layout.
type state struct {
	computed map[*html.Node]Computed
	boxes    map[*html.Node]*Box
}

// Layout resolves styles and lays out the tree under root. It returns the
// computed values and the boxes of every laid out element.
func (e *Engine) Layout(root *html.Node, styles map[*html.Node]style.ComputedStyle) (map[*html.Node]Computed, map[*html.Node]*Box) {
	s := &state{
		computed: map[*html.Node]Computed{},
		boxes:    map[*html.Node]*Box{},
	}
	e.resolveTree(s, root, nil, styles)

	top := root
	if !top.IsElement() {
		top = firstElement(root)
	}
	if top == nil {
		return s.computed, s.boxes
	}
	if s.computed[top]["display"] == "none" {
		return s.computed, s.boxes
	}
	rb := e.layoutBlock(s, top, nil, 0, 0, e.options.Width, 0)
	e.log.Debug("Layout complete",
		zap.Int("boxes", len(s.boxes)),
		zap.Float64("width", rb.Width),
		zap.Float64("height", rb.Height))
	return s.computed, s.boxes
}

func (e *Engine) resolveTree(s *state, n *html.Node, parent Computed, styles map[*html.Node]style.ComputedStyle) {
	c := parent
	if n.IsElement() {
		c = resolve(styles[n], parent)
		s.computed[n] = c
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		e.resolveTree(s, ch, c, styles)
	}
}

func firstElement(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement() {
			return c
		}
	}
	return nil
}
