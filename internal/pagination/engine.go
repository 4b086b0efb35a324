package pagination

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
)

// ErrTraceMismatch reports that two passes over the same tree disagreed about
// where pages break.
var ErrTraceMismatch = errors.New("pagination passes disagree")

// Options represents options for the pagination engine
type Options struct {
	Selectors box.Selectors
	// PageTop is the top offset applied to every page after the first.
	PageTop geom.Doc
	// PageBottom is the content limit of a page.
	PageBottom geom.Doc
}

// Reason tells why a page break happened.
type Reason int

const (
	NoBreak Reason = iota
	Overflow
	GroupOverflow
	Forced
)

func (r Reason) String() string {
	switch r {
	case Overflow:
		return "overflow"
	case GroupOverflow:
		return "group"
	case Forced:
		return "forced"
	default:
		return "none"
	}
}

// Frame is one visited box placed on its page.
type Frame struct {
	Box *box.Box
	// Index is the position of the box among all exportable boxes.
	Index int
	Page  int
	// Reference is the source y of the current page origin.
	Reference geom.Px
	// Top is the page top offset (0 on the first page).
	Top geom.Doc
	// Rect is the border box in page coordinates.
	Rect      geom.Rect
	Transform *geom.Transformer
}

// Break is a page break event. Page and Reference describe the new page.
type Break struct {
	Index     int
	Page      int
	Reference geom.Px
	Reason    Reason
	Box       *box.Box
}

// Visitor receives the traversal events of one pass.
type Visitor interface {
	// PageBreak is called before the breaking box is visited on its new page.
	PageBreak(ctx context.Context, br Break) error
	Visit(ctx context.Context, f *Frame) error
}

// Trace records the break decisions of one pass.
type Trace struct {
	Breaks []Break
	Pages  int
}

// Equal reports whether two traces broke at the same boxes with the same origins.
func (t Trace) Equal(o Trace) bool {
	if t.Pages != o.Pages || len(t.Breaks) != len(o.Breaks) {
		return false
	}
	for i := range t.Breaks {
		a, b := t.Breaks[i], o.Breaks[i]
		if a.Index != b.Index || a.Page != b.Page || a.Reference != b.Reference {
			return false
		}
	}
	return true
}

// Engine handles the pagination process
type Engine struct {
	provider  box.Provider
	transform *geom.Transformer
	options   Options
	log       *zap.Logger
}

// NewEngine creates a new pagination engine
func NewEngine(p box.Provider, t *geom.Transformer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		provider:  p,
		transform: t,
		options: Options{
			Selectors:  box.Selectors{Export: ".hp-export"},
			PageBottom: 29.7,
		},
		log: log.Named("pagination"),
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// cursor is the per-pass state: OnPage(page) with the current origin.
type cursor struct {
	page      int
	reference geom.Px
	top       geom.Doc
}

// Run walks the exportable boxes in document order, feeding v. Each call
// starts again from page 1 with a zero reference offset.
func (e *Engine) Run(ctx context.Context, v Visitor) (Trace, error) {
	if err := e.transform.Validate(); err != nil {
		return Trace{}, fmt.Errorf("unable to compute scale factor: %w", err)
	}
	nodes, err := e.provider.Select(e.provider.Root(), e.options.Selectors.Export)
	if err != nil {
		return Trace{}, fmt.Errorf("unable to select exportable boxes: %w", err)
	}

	var trace Trace
	c := cursor{page: 1}
	for i, n := range nodes {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		b, err := box.Load(e.provider, n, e.options.Selectors)
		if err != nil {
			return trace, fmt.Errorf("unable to load box %d: %w", i, err)
		}
		if b.Excluded {
			continue
		}

		if reason := e.breakReason(&c, b); reason != NoBreak {
			c.page++
			c.reference = b.Y
			if reason == GroupOverflow {
				// start the page at the top of the group so that it is not split
				c.reference = b.Group.Y
			}
			c.top = e.options.PageTop

			br := Break{Index: i, Page: c.page, Reference: c.reference, Reason: reason, Box: b}
			e.log.Debug("Page break",
				zap.Int("index", i),
				zap.Int("page", c.page),
				zap.Stringer("reason", reason),
				zap.Float64("reference", float64(c.reference)))
			if err := v.PageBreak(ctx, br); err != nil {
				return trace, err
			}
			trace.Breaks = append(trace.Breaks, br)
		}

		if err := v.Visit(ctx, e.frame(&c, i, b)); err != nil {
			return trace, err
		}
	}
	trace.Pages = c.page
	return trace, nil
}

// breakReason evaluates the break predicate for b on the current page.
func (e *Engine) breakReason(c *cursor, b *box.Box) Reason {
	bottom := e.options.PageBottom
	y := e.transform.ToDoc(b.Y - c.reference)
	// a box already at the page origin would overflow the next page the same way
	if y+e.transform.ToDoc(b.Height) > bottom && b.Y != c.reference {
		return Overflow
	}
	if b.Group != nil && b.Group.Y > c.reference {
		limit := e.transform.ToDoc(b.Group.Y-c.reference) + e.transform.ToDoc(b.Group.Height)
		if limit > bottom {
			return GroupOverflow
		}
	}
	if b.ForceBreak {
		return Forced
	}
	return NoBreak
}

func (e *Engine) frame(c *cursor, index int, b *box.Box) *Frame {
	t := e.transform
	return &Frame{
		Box:       b,
		Index:     index,
		Page:      c.page,
		Reference: c.reference,
		Top:       c.top,
		Rect: geom.Rect{
			X: t.ToDoc(b.X),
			Y: c.top + t.ToDoc(b.Y-c.reference),
			W: t.ToDoc(b.Width),
			H: t.ToDoc(b.Height),
		},
		Transform: t,
	}
}
