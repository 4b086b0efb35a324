package pdf

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
)

// PageNumberClass marks the hidden label whose style the page numbers use.
const PageNumberClass = "hp-page-number"

// PageNumber places the page label.
type PageNumber struct {
	// Format is the label template; {page} or {current} is replaced by the
	// page index and {pages} or {total} by the page count. An empty format
	// disables page numbers.
	Format string
	X      geom.Doc
	Y      geom.Doc
	Align  Align
}

// DefaultPageNumber is the label drawn when no other is configured.
var DefaultPageNumber = PageNumber{
	Format: " {current} / {total}",
	X:      10.5,
	Y:      28.5,
	Align:  AlignCenter,
}

// FormatPageNumber substitutes the page tokens of format.
func FormatPageNumber(format string, page, total int) string {
	p, t := strconv.Itoa(page), strconv.Itoa(total)
	return strings.NewReplacer(
		"{page}", p,
		"{current}", p,
		"{pages}", t,
		"{total}", t,
	).Replace(format)
}

// Stamper draws page numbers with the style of a hidden label element.
type Stamper struct {
	provider    box.Provider
	renderer    *Renderer
	opts        PageNumber
	hiddenClass string
	label       box.Node
	log         *zap.Logger
}

// NewStamper creates a stamper drawing through renderer. hiddenClass is
// added to a label the stamper creates so that it is never exported.
func NewStamper(p box.Provider, renderer *Renderer, opts PageNumber, hiddenClass string, log *zap.Logger) *Stamper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stamper{
		provider:    p,
		renderer:    renderer,
		opts:        opts,
		hiddenClass: hiddenClass,
		log:         log.Named("stamper"),
	}
}

// Prepare finds the label under the root, creating it if the provider allows
// it. It is idempotent; call it before the first pass so that the label is
// part of the tree both passes see.
func (s *Stamper) Prepare() error {
	if s.label != nil || s.opts.Format == "" {
		return nil
	}
	root := s.provider.Root()
	found, err := s.provider.Select(root, "."+PageNumberClass)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		s.label = found[0]
		return nil
	}
	m, ok := s.provider.(box.Mutator)
	if !ok {
		s.log.Debug("Provider is read-only, page numbers use the root style")
		s.label = root
		return nil
	}
	s.label = m.Append(root, "div", PageNumberClass)
	if s.hiddenClass != "" {
		m.AddClass(s.label, s.hiddenClass)
	}
	return nil
}

// Stamp draws the label for one page.
func (s *Stamper) Stamp(page, total int, t *geom.Transformer) error {
	if s.opts.Format == "" {
		return nil
	}
	if err := s.Prepare(); err != nil {
		return err
	}
	b, err := box.Load(s.provider, s.label, box.Selectors{})
	if err != nil {
		return err
	}
	label := FormatPageNumber(s.opts.Format, page, total)
	s.log.Debug("Page number", zap.Int("page", page), zap.String("label", label))
	s.renderer.Text(b, t, s.opts.X, s.opts.Y, label, s.opts.Align)
	return nil
}
