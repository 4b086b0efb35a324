package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	xhtml "golang.org/x/net/html"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/layout"
	"github.com/gompdf/boxpdf/internal/pagination"
	"github.com/gompdf/boxpdf/internal/parser/css"
	"github.com/gompdf/boxpdf/internal/parser/html"
	"github.com/gompdf/boxpdf/internal/raster"
	"github.com/gompdf/boxpdf/internal/render/pdf"
	"github.com/gompdf/boxpdf/internal/res"
	"github.com/gompdf/boxpdf/internal/style"
)

var (
	// ErrNoFontPath is returned by Init when no font path is configured.
	ErrNoFontPath = errors.New("font path is required")
	// ErrUnknownFormat is returned for page formats the backend cannot produce.
	ErrUnknownFormat = errors.New("unknown page format")
)

// Result describes a printed document.
type Result struct {
	Pages int
	// Path is the saved file, empty when the document went to a target.
	Path string
	Data []byte
}

// Printer is the main API for printing box trees to PDF. Fonts are loaded once
// per printer; everything else is per call, so a Printer can print several
// documents concurrently.
type Printer struct {
	options Options
	log     *zap.Logger

	mu    sync.Mutex
	fonts []res.Font
}

// New creates a printer with the default options modified by opts
func New(opts ...Option) *Printer {
	options := DefaultOptions()
	for _, o := range opts {
		o(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a printer with the specified options
func NewWithOptions(options Options) *Printer {
	log := options.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Printer{
		options: options,
		log:     log.Named("printer"),
	}
}

// Options returns a copy of the printer options.
func (p *Printer) Options() Options {
	return p.options
}

// WithOption returns a new printer with the specified option set
func (p *Printer) WithOption(option Option) *Printer {
	newOptions := p.options
	newOptions.ResourcePaths = append([]string(nil), p.options.ResourcePaths...)
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// Init loads the fonts of the font manifest. A successful load is kept for the
// lifetime of the printer; Print calls Init on its own.
func (p *Printer) Init(ctx context.Context) ([]res.Font, error) {
	if p.options.FontPath == "" {
		return nil, ErrNoFontPath
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fonts != nil {
		return p.fonts, nil
	}
	fonts, err := p.newLoader("").FetchFonts(ctx, p.options.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}
	if fonts == nil {
		fonts = []res.Font{}
	}
	p.fonts = fonts
	p.log.Info("Fonts loaded", zap.String("path", p.options.FontPath), zap.Int("count", len(fonts)))
	return fonts, nil
}

func (p *Printer) newLoader(base string) *res.Loader {
	loader := res.NewLoader(base, p.log)
	for _, path := range p.options.ResourcePaths {
		loader.AddSearchPath(path)
	}
	return loader
}

// Print paginates doc and renders it. With a target the document is attached
// as a data URI, otherwise it is saved under the configured filename. Without
// a font path nothing is printed and Print returns (nil, nil).
func (p *Printer) Print(ctx context.Context, doc box.Provider, target Target) (*Result, error) {
	fonts, ok, err := p.prepare(ctx)
	if !ok {
		return nil, err
	}
	return p.print(ctx, doc, p.newLoader(""), fonts, "", target)
}

// prepare loads the fonts. ok is false when printing must stop.
func (p *Printer) prepare(ctx context.Context) ([]res.Font, bool, error) {
	fonts, err := p.Init(ctx)
	if errors.Is(err, ErrNoFontPath) {
		p.log.Error("No font path configured, document is not printed")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return fonts, true, nil
}

// documentContext is the state of one print call.
type documentContext struct {
	provider   box.Provider
	format     geom.PageFormat
	transform  *geom.Transformer
	selectors  box.Selectors
	pageTop    geom.Doc
	pageBottom geom.Doc
	pageNumber PageNumber
	title      string
	debug      bool
	log        *zap.Logger
}

func (p *Printer) newDocumentContext(doc box.Provider, title string) (*documentContext, error) {
	o := p.options
	name := o.Backend.Format
	if name == "" {
		name = geom.FormatA4.Name
	}
	format, ok := geom.LookupFormat(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	if o.Title != "" {
		title = o.Title
	}
	reference := geom.ReferenceWidth(format.Name, o.Backend.Orientation)
	return &documentContext{
		provider: doc,
		format:   format,
		transform: geom.NewTransformer(reference, func() geom.Px {
			return doc.Width(doc.Root())
		}),
		selectors: box.Selectors{
			Export: o.Selector,
			Group:  o.GroupSelector,
			Break:  o.BreakSelector,
		},
		pageTop:    geom.Doc(o.PageTop),
		pageBottom: geom.Doc(o.PageBottom),
		pageNumber: o.PageNumber,
		title:      title,
		debug:      o.Debug,
		log:        p.log.With(zap.String("format", format.Name)),
	}, nil
}

func (p *Printer) print(ctx context.Context, doc box.Provider, images pdf.ImageLoader, fonts []res.Font, title string, target Target) (*Result, error) {
	dc, err := p.newDocumentContext(doc, title)
	if err != nil {
		return nil, err
	}

	sink := pdf.NewFpdfSink(pdf.SinkOptions{
		Format:      dc.format.Name,
		Orientation: p.options.Backend.Orientation,
		DisplayMode: p.options.DisplayMode,
		Title:       dc.title,
		Author:      p.options.Author,
		Subject:     p.options.Subject,
		Keywords:    p.options.Keywords,
	}, dc.log)
	for _, f := range fonts {
		if err := sink.RegisterFont(f.Key, f.Data); err != nil {
			dc.log.Warn("Unable to register font, using a core font", zap.String("key", f.Key), zap.Error(err))
		}
	}

	if m, ok := doc.(box.Mutator); ok {
		m.AddClass(doc.Root(), PrintClass)
		defer m.RemoveClass(doc.Root(), PrintClass)
	}

	renderer := pdf.NewRenderer(sink, doc, images, dc.log)
	renderer.SetDebug(dc.debug)
	stamper := pdf.NewStamper(doc, renderer, dc.pageNumber, HiddenClass, dc.log)
	if err := stamper.Prepare(); err != nil {
		return nil, fmt.Errorf("failed to prepare page numbers: %w", err)
	}

	engine := pagination.NewEngine(doc, dc.transform, dc.log)
	engine.SetOptions(pagination.Options{
		Selectors:  dc.selectors,
		PageTop:    dc.pageTop,
		PageBottom: dc.pageBottom,
	})

	counted, err := engine.Run(ctx, &pagination.Counter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	dc.log.Debug("Counted pages", zap.Int("pages", counted.Pages), zap.Int("breaks", len(counted.Breaks)))

	emitter := pdf.NewEmitter(sink, renderer, stamper, dc.transform, counted.Pages)
	if err := emitter.Begin(); err != nil {
		return nil, fmt.Errorf("failed to start document: %w", err)
	}
	emitted, err := engine.Run(ctx, emitter)
	if err != nil {
		return nil, fmt.Errorf("failed to render pages: %w", err)
	}
	if !counted.Equal(emitted) {
		return nil, fmt.Errorf("%w: counted %d pages, emitted %d", pagination.ErrTraceMismatch, counted.Pages, emitted.Pages)
	}
	if err := sink.Err(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return p.finalize(dc, sink, counted.Pages, target)
}

func (p *Printer) finalize(dc *documentContext, sink *pdf.FpdfSink, pages int, target Target) (*Result, error) {
	data, err := sink.Bytes()
	if err != nil {
		return nil, err
	}
	result := &Result{Pages: pages, Data: data}
	if target != nil {
		uri, err := sink.DataURI()
		if err != nil {
			return nil, err
		}
		if err := target.Attach(uri); err != nil {
			return nil, fmt.Errorf("failed to attach PDF: %w", err)
		}
		dc.log.Info("Document attached", zap.Int("pages", pages), zap.Int("bytes", len(data)))
		return result, nil
	}

	result.Path = outputPath(p.options.Filename, dc.title)
	if err := sink.Save(result.Path); err != nil {
		return nil, err
	}
	dc.log.Info("Document saved", zap.String("path", result.Path), zap.Int("pages", pages))
	return result, nil
}

// outputPath derives the file name of a saved document. The placeholder name
// gives way to a slug of the title.
func outputPath(filename, title string) string {
	if (filename == "" || filename == DefaultFilename) && title != "" {
		if s := slug.Make(title); s != "" {
			filename = s
		}
	}
	if filename == "" {
		filename = DefaultFilename
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		filename += ".pdf"
	}
	return filename
}

// PrintHTML lays out an HTML document and prints it. base resolves relative
// resource URLs and may be a file path or URL.
func (p *Printer) PrintHTML(ctx context.Context, content, base string, target Target) (*Result, error) {
	doc, err := html.NewParser().ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return p.printDocument(ctx, doc, base, target)
}

// PrintFile prints an HTML file.
func (p *Printer) PrintFile(ctx context.Context, path string, target Target) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML file: %w", err)
	}
	doc, err := html.NewParser().Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return p.printDocument(ctx, doc, path, target)
}

// PrintURL fetches an HTML page and prints it.
func (p *Printer) PrintURL(ctx context.Context, url string, target Target) (*Result, error) {
	resource, err := p.newLoader(url).LoadHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load HTML from URL: %w", err)
	}
	doc, err := html.NewParser().ParseContentType(resource.GetReader(), resource.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return p.printDocument(ctx, doc, url, target)
}

func (p *Printer) printDocument(ctx context.Context, doc *html.Document, base string, target Target) (*Result, error) {
	fonts, ok, err := p.prepare(ctx)
	if !ok {
		return nil, err
	}
	loader := p.newLoader(base)
	d, err := p.layoutDocument(ctx, doc, loader, fonts)
	if err != nil {
		return nil, err
	}
	return p.print(ctx, d, loader, fonts, doc.Title(), target)
}

// layoutDocument builds the geometry provider of an HTML document.
func (p *Printer) layoutDocument(ctx context.Context, doc *html.Document, loader *res.Loader, fonts []res.Font) (*layout.Document, error) {
	cssParser := css.NewParser(p.log)
	styleEngine := style.NewStyleEngine(p.log)
	if p.options.UserAgentStylesheet != "" {
		ua, err := cssParser.ParseString(p.options.UserAgentStylesheet)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSS: %w", err)
		}
		styleEngine.SetUserAgentStylesheet(ua)
	}
	for _, cssText := range collectDocumentStylesheets(ctx, doc.Root, loader, p.log) {
		if sheet, parseErr := cssParser.ParseString(cssText); parseErr == nil {
			styleEngine.AddStylesheet(sheet)
		} else {
			p.log.Warn("Failed to parse stylesheet", zap.Error(parseErr))
		}
	}

	measurer := layout.NewFpdfMeasurer()
	for _, f := range fonts {
		measurer.RegisterFont(f.Key, f.Data)
	}
	engine := layout.NewEngine(measurer, p.log)
	engine.SetOptions(layout.Options{
		Width:       p.options.ViewportWidth,
		HiddenClass: HiddenClass,
		ImageSize:   imageSize(ctx, loader),
	})
	return layout.NewDocument(doc, styleEngine, engine, p.log), nil
}

// imageSize reads intrinsic image sizes through the loader, whose cache the
// renderer reuses later.
func imageSize(ctx context.Context, loader *res.Loader) layout.ImageSizeFunc {
	return func(src string) (float64, float64, bool) {
		r, err := loader.LoadImage(ctx, src)
		if err != nil {
			return 0, 0, false
		}
		w, h, err := raster.DecodeSize(r.Data)
		if err != nil {
			return 0, 0, false
		}
		return float64(w), float64(h), true
	}
}

// collectDocumentStylesheets walks the HTML node tree in document order and
// returns the list of author stylesheets (external <link rel="stylesheet">
// and inline <style> blocks) preserving source order. The loader resolves
// external stylesheets against its base URL and search paths.
func collectDocumentStylesheets(ctx context.Context, n *html.Node, loader *res.Loader, log *zap.Logger) []string {
	var styles []string

	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur == nil {
			return
		}

		if cur.Type == xhtml.ElementNode {
			// <link rel="stylesheet" href="...">
			if strings.EqualFold(cur.Data, "link") {
				var rel, href string
				for _, a := range cur.Attr {
					if strings.EqualFold(a.Key, "rel") {
						rel = a.Val
					} else if strings.EqualFold(a.Key, "href") {
						href = a.Val
					}
				}
				if href != "" && strings.Contains(strings.ToLower(rel), "stylesheet") && loader != nil {
					if resrc, err := loader.LoadCSS(ctx, href); err == nil {
						log.Debug("Loaded external stylesheet", zap.String("href", href))
						styles = append(styles, resrc.GetString())
					} else {
						log.Warn("Failed to load external stylesheet", zap.String("href", href), zap.Error(err))
					}
				}
			}

			// <style>...</style>
			if strings.EqualFold(cur.Data, "style") {
				var b strings.Builder
				for c := cur.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == xhtml.TextNode {
						b.WriteString(c.Data)
						b.WriteString("\n")
					}
				}
				if cssText := strings.TrimSpace(b.String()); cssText != "" {
					styles = append(styles, cssText)
				}
			}
		}

		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return styles
}
