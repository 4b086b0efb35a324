// Package boxpdf prints styled box trees, such as laid out HTML documents,
// to paginated PDF.
package boxpdf

import (
	"github.com/gompdf/boxpdf/pkg/api"
)

type Printer = api.Printer
type Options = api.Options
type Option = api.Option
type Result = api.Result
type Target = api.Target
type DataURI = api.DataURI
type WriterTarget = api.WriterTarget
type Backend = api.Backend
type PageNumber = api.PageNumber
type Orientation = api.Orientation
type Align = api.Align

func New(opts ...Option) *Printer             { return api.New(opts...) }
func NewWithOptions(options Options) *Printer { return api.NewWithOptions(options) }
func DefaultOptions() Options                 { return api.DefaultOptions() }

var (
	WithFontPath            = api.WithFontPath
	WithSelectors           = api.WithSelectors
	WithFilename            = api.WithFilename
	WithPageTop             = api.WithPageTop
	WithPageBottom          = api.WithPageBottom
	WithDisplayMode         = api.WithDisplayMode
	WithPageNumber          = api.WithPageNumber
	WithDebug               = api.WithDebug
	WithFormat              = api.WithFormat
	WithOrientation         = api.WithOrientation
	WithViewportWidth       = api.WithViewportWidth
	WithResourcePath        = api.WithResourcePath
	WithTitle               = api.WithTitle
	WithAuthor              = api.WithAuthor
	WithSubject             = api.WithSubject
	WithKeywords            = api.WithKeywords
	WithUserAgentStylesheet = api.WithUserAgentStylesheet
	WithLogger              = api.WithLogger

	DecodeDataURI = api.DecodeDataURI

	ErrNoFontPath    = api.ErrNoFontPath
	ErrUnknownFormat = api.ErrUnknownFormat
)

const (
	OrientationPortrait  = api.OrientationPortrait
	OrientationLandscape = api.OrientationLandscape

	AlignLeft   = api.AlignLeft
	AlignCenter = api.AlignCenter
	AlignRight  = api.AlignRight

	DefaultFilename = api.DefaultFilename
)
