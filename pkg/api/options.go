package api

import (
	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/render/pdf"
)

// Options represents configuration options for the printer
type Options struct {
	// FontPath is the directory or URL holding fonts.json. Nothing is printed
	// without it.
	FontPath string

	// Selectors of exported boxes, page groups and forced breaks
	Selector      string
	GroupSelector string
	BreakSelector string

	// Filename is the output file name used when no target is given. The
	// ".pdf" extension is added.
	Filename string

	// Page geometry in document units (cm)
	PageTop    float64
	PageBottom float64

	// DisplayMode is the viewer zoom hint: fullheight, fullwidth, real or default
	DisplayMode string

	PageNumber PageNumber
	Debug      bool
	Backend    Backend

	// ViewportWidth is the layout width of HTML documents, in px.
	ViewportWidth float64

	// Resource paths
	ResourcePaths []string

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string

	// UserAgentStylesheet replaces the built-in user agent stylesheet of
	// HTML documents when set.
	UserAgentStylesheet string

	Logger *zap.Logger
}

// Backend selects the paper of the generated document.
type Backend struct {
	Format      string
	Orientation Orientation
}

// Option is a function that modifies Options
type Option func(*Options)

// Orientation represents page orientation
type Orientation = geom.Orientation

const (
	OrientationPortrait  = geom.Portrait
	OrientationLandscape = geom.Landscape
)

// PageNumber places the page label; see DefaultOptions for the template
// tokens.
type PageNumber = pdf.PageNumber

// Align is the horizontal anchoring of the page label.
type Align = pdf.Align

const (
	AlignLeft   = pdf.AlignLeft
	AlignCenter = pdf.AlignCenter
	AlignRight  = pdf.AlignRight
)

const (
	// DefaultFilename is the placeholder output name. A document title
	// replaces it.
	DefaultFilename = "please_set_a_filename"

	// PrintClass is added to the root while a document prints.
	PrintClass = "print"
	// HiddenClass marks elements that are never exported.
	HiddenClass = "d-none"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Selector:      ".hp-export",
		GroupSelector: ".hp-group",
		BreakSelector: ".export-page-break",
		Filename:      DefaultFilename,

		PageTop:     0,
		PageBottom:  29.7,
		DisplayMode: "fullheight",

		// {current}/{page} is the page index, {total}/{pages} the page count
		PageNumber: pdf.DefaultPageNumber,

		Backend: Backend{
			Format:      geom.FormatA4.Name,
			Orientation: OrientationPortrait,
		},
		ViewportWidth: 794,

		ResourcePaths: []string{},
	}
}

// WithFontPath sets the location of the font manifest
func WithFontPath(path string) Option {
	return func(o *Options) {
		o.FontPath = path
	}
}

// WithSelectors sets the export, group and break selectors. Empty values
// keep the current selector.
func WithSelectors(export, group, brk string) Option {
	return func(o *Options) {
		if export != "" {
			o.Selector = export
		}
		if group != "" {
			o.GroupSelector = group
		}
		if brk != "" {
			o.BreakSelector = brk
		}
	}
}

// WithFilename sets the output file name
func WithFilename(name string) Option {
	return func(o *Options) {
		o.Filename = name
	}
}

// WithPageTop sets the top offset of every page after the first
func WithPageTop(top float64) Option {
	return func(o *Options) {
		o.PageTop = top
	}
}

// WithPageBottom sets the content limit of a page
func WithPageBottom(bottom float64) Option {
	return func(o *Options) {
		o.PageBottom = bottom
	}
}

// WithDisplayMode sets the viewer zoom hint
func WithDisplayMode(mode string) Option {
	return func(o *Options) {
		o.DisplayMode = mode
	}
}

// WithPageNumber sets the page label. An empty format disables it.
func WithPageNumber(format string, x, y float64, align Align) Option {
	return func(o *Options) {
		o.PageNumber = PageNumber{Format: format, X: geom.Doc(x), Y: geom.Doc(y), Align: align}
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithFormat sets the page format (A3, A4, A5, Letter or Legal)
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Backend.Format = format
	}
}

// WithOrientation sets the page orientation
func WithOrientation(orientation Orientation) Option {
	return func(o *Options) {
		o.Backend.Orientation = orientation
	}
}

// WithViewportWidth sets the layout width of HTML documents
func WithViewportWidth(width float64) Option {
	return func(o *Options) {
		o.ViewportWidth = width
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithUserAgentStylesheet sets the user agent stylesheet
func WithUserAgentStylesheet(stylesheet string) Option {
	return func(o *Options) {
		o.UserAgentStylesheet = stylesheet
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}
