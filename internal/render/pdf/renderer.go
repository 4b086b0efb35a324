package pdf

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/pagination"
	"github.com/gompdf/boxpdf/internal/raster"
	"github.com/gompdf/boxpdf/internal/res"
	"github.com/gompdf/boxpdf/internal/text"
)

// debugLineWidth is the stroke width of debug outlines, in document units.
const debugLineWidth geom.Doc = 0.025

var (
	debugTextColor  = box.Color{R: 0xff, G: 0x99, A: 1}
	debugImageColor = box.Color{R: 0xff, B: 0xff, A: 1}
)

// ImageLoader fetches image sources referenced by boxes. *res.Loader
// implements it.
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) (*res.Resource, error)
}

// Renderer draws visited boxes onto a sink in a fixed order: background,
// borders, raster, text.
type Renderer struct {
	sink       Sink
	provider   box.Provider
	images     ImageLoader
	compositor *raster.Compositor
	debug      bool
	log        *zap.Logger
}

// NewRenderer creates a renderer drawing onto sink. images may be nil, in
// which case boxes with image sources draw no raster.
func NewRenderer(sink Sink, p box.Provider, images ImageLoader, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		sink:       sink,
		provider:   p,
		images:     images,
		compositor: raster.NewCompositor(log),
		log:        log.Named("render"),
	}
}

// SetDebug enables diagnostic outlines around text and images.
func (r *Renderer) SetDebug(debug bool) {
	r.debug = debug
}

// Render draws one visited box.
func (r *Renderer) Render(ctx context.Context, f *pagination.Frame) {
	b := f.Box
	r.background(b, f.Rect)
	r.borders(b, f.Rect, f.Transform)
	if b.HasRaster() {
		r.raster(ctx, b, f.Rect)
	}
	if b.Leaf && b.Text != "" {
		r.Text(b, f.Transform, f.Rect.X, f.Rect.Y, "", AlignLeft)
	}
}

func (r *Renderer) background(b *box.Box, rect geom.Rect) {
	if b.Background.Transparent() {
		return
	}
	r.sink.SetLineWidth(0)
	r.sink.SetFillColor(b.Background)
	if b.Background.A < 1 {
		r.sink.SetAlpha(b.Background.A)
		defer r.sink.SetAlpha(1)
	}
	r.sink.Rect(rect, "F")
}

func (r *Renderer) borders(b *box.Box, rect geom.Rect, t *geom.Transformer) {
	x1, y1 := rect.X, rect.Y
	x2, y2 := rect.Right(), rect.Bottom()
	sides := []struct {
		border         box.Border
		ax, ay, bx, by geom.Doc
	}{
		{b.Borders.Top, x1, y1, x2, y1},
		{b.Borders.Right, x2, y1, x2, y2},
		{b.Borders.Bottom, x1, y2, x2, y2},
		{b.Borders.Left, x1, y1, x1, y2},
	}
	for _, s := range sides {
		if !s.border.Visible() {
			continue
		}
		r.sink.SetDrawColor(s.border.Color)
		r.sink.SetLineWidth(t.ToDoc(s.border.Width))
		r.sink.Line(s.ax, s.ay, s.bx, s.by)
	}
}

// raster embeds the background image and the element's own pixels. Failures
// only cost the image of this box.
func (r *Renderer) raster(ctx context.Context, b *box.Box, rect geom.Rect) {
	if b.BackgroundImage != "" {
		if err := r.embed(ctx, b, rect, b.BackgroundImage, raster.Natural); err != nil {
			r.log.Warn("Unable to draw background image",
				zap.String("tag", b.Tag), zap.String("src", b.BackgroundImage), zap.Error(err))
		}
	}
	switch b.Category {
	case box.Image:
		if err := r.embed(ctx, b, rect, b.Src, raster.Stretch); err != nil {
			r.log.Warn("Unable to draw image", zap.String("src", b.Src), zap.Error(err))
		}
	case box.Drawable:
		if err := r.drawable(b, rect); err != nil {
			r.log.Warn("Unable to draw drawable", zap.String("tag", b.Tag), zap.Error(err))
		}
	}
}

func (r *Renderer) embed(ctx context.Context, b *box.Box, rect geom.Rect, src string, fit raster.Fit) error {
	if src == "" {
		return fmt.Errorf("empty source")
	}
	if r.images == nil {
		return fmt.Errorf("no image loader")
	}
	resource, err := r.images.LoadImage(ctx, src)
	if err != nil {
		return err
	}
	img, err := r.compositor.Render(resource.Data, b.Background, float64(b.Width), float64(b.Height), fit)
	if err != nil {
		return err
	}
	return r.place(img, rect)
}

func (r *Renderer) drawable(b *box.Box, rect geom.Rect) error {
	var src *raster.Source
	if px, ok := r.provider.(box.Rasterizer); ok {
		if img, err := px.Raster(b.Node); err == nil {
			src = &raster.Source{Image: img, Format: raster.PNG}
		} else if b.Tag != "svg" {
			return err
		}
	}
	if src == nil {
		m, ok := r.provider.(box.Markup)
		if !ok || b.Tag != "svg" {
			return fmt.Errorf("no pixels available for <%s>", b.Tag)
		}
		markup, err := m.OuterHTML(b.Node)
		if err != nil {
			return err
		}
		if src, err = raster.Decode([]byte(markup)); err != nil {
			return err
		}
	}
	canvas, err := r.compositor.Compose(src, b.Background, float64(b.Width), float64(b.Height), raster.Stretch)
	if err != nil {
		return err
	}
	img, err := r.compositor.Encode(canvas, src.Format)
	if err != nil {
		return err
	}
	return r.place(img, rect)
}

func (r *Renderer) place(img *raster.Raster, rect geom.Rect) error {
	if r.debug {
		r.outline(rect, debugImageColor)
	}
	return r.sink.Image(img, rect)
}

func (r *Renderer) outline(rect geom.Rect, c box.Color) {
	r.sink.SetDrawColor(c)
	r.sink.SetLineWidth(debugLineWidth)
	r.sink.Rect(rect, "D")
}

// Text draws text in the font and colour of b, inside its padding, starting
// at (x, y). With alt empty the box text is wrapped to the content width;
// otherwise alt is drawn as a single line.
func (r *Renderer) Text(b *box.Box, t *geom.Transformer, x, y geom.Doc, alt string, align Align) {
	font := Font{
		Family:     b.Font.Family,
		Weight:     b.Font.Weight,
		Style:      b.Font.Style,
		Size:       t.FontSize(b.Font.Size),
		LineHeight: b.Font.LineHeightFactor(),
	}
	r.sink.SetFont(font)
	r.sink.SetTextColor(b.Color)

	pad := geom.Sides[geom.Doc]{
		Top:    t.ToDoc(b.Padding.Top),
		Right:  t.ToDoc(b.Padding.Right),
		Bottom: t.ToDoc(b.Padding.Bottom),
		Left:   t.ToDoc(b.Padding.Left),
	}
	content := geom.Rect{X: x, Y: y, W: t.ToDoc(b.Width), H: t.ToDoc(b.Height)}.
		Inset(pad.Top, pad.Right, pad.Bottom, pad.Left)

	var lines []string
	if alt != "" {
		lines = []string{alt}
	} else {
		for _, para := range text.Lines(b.Text) {
			lines = append(lines, r.sink.SplitText(para, content.W)...)
		}
	}
	if len(lines) == 0 {
		return
	}

	if r.debug {
		r.outline(content, debugTextColor)
	}
	r.sink.Text(content.X, content.Y+geom.FontOffset(font.Size), lines, align)
}
