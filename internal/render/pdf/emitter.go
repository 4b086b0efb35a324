package pdf

import (
	"context"

	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/pagination"
)

// Emitter is the visitor of the emit pass: it starts pages, stamps page
// numbers and renders every visited box.
type Emitter struct {
	sink      Sink
	renderer  *Renderer
	stamper   *Stamper
	transform *geom.Transformer
	total     int
}

// NewEmitter creates the emit visitor for a document of total pages, as
// counted by the counting pass. stamper may be nil.
func NewEmitter(sink Sink, renderer *Renderer, stamper *Stamper, t *geom.Transformer, total int) *Emitter {
	return &Emitter{
		sink:      sink,
		renderer:  renderer,
		stamper:   stamper,
		transform: t,
		total:     total,
	}
}

// Begin starts the first page.
func (e *Emitter) Begin() error {
	return e.startPage(1)
}

func (e *Emitter) PageBreak(_ context.Context, br pagination.Break) error {
	return e.startPage(br.Page)
}

func (e *Emitter) startPage(page int) error {
	e.sink.AddPage()
	if e.stamper == nil {
		return nil
	}
	return e.stamper.Stamp(page, e.total, e.transform)
}

func (e *Emitter) Visit(ctx context.Context, f *pagination.Frame) error {
	e.renderer.Render(ctx, f)
	return nil
}
