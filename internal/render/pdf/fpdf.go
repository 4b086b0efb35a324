package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/layout"
	"github.com/gompdf/boxpdf/internal/raster"
	"github.com/gompdf/boxpdf/internal/text"
)

// DataURIPrefix starts the data URI returned by FpdfSink.DataURI.
const DataURIPrefix = "data:application/pdf;filename=generated.pdf;base64,"

// SinkOptions configures an FpdfSink. Document units are centimetres.
type SinkOptions struct {
	Format      string
	Orientation geom.Orientation
	// DisplayMode is the viewer zoom hint; "fullheight" is accepted as an
	// alias of fpdf's "fullpage".
	DisplayMode string

	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
}

// FpdfSink is a Sink over codeberg.org/go-pdf/fpdf.
type FpdfSink struct {
	pdf   *fpdf.Fpdf
	fonts map[string]bool
	// translate maps UTF-8 text to cp1252 for the core fonts.
	translate func(string) string
	core      bool
	font      Font
	missing   map[string]bool
	out       []byte
	log       *zap.Logger
}

// NewFpdfSink creates an empty document.
func NewFpdfSink(opts SinkOptions, log *zap.Logger) *FpdfSink {
	if log == nil {
		log = zap.NewNop()
	}
	orient := "P"
	if opts.Orientation == geom.Landscape {
		orient = "L"
	}
	format := opts.Format
	if format == "" {
		format = geom.FormatA4.Name
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "cm",
		SizeStr:        format,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetDisplayMode(displayMode(opts.DisplayMode), "default")

	pdf.SetTitle(opts.Title, true)
	pdf.SetAuthor(opts.Author, true)
	pdf.SetSubject(opts.Subject, true)
	pdf.SetKeywords(opts.Keywords, true)
	creator := opts.Creator
	if creator == "" {
		creator = "boxpdf"
	}
	pdf.SetCreator(creator, true)
	pdf.SetProducer("boxpdf", true)
	pdf.SetFont("Helvetica", "", 12)

	return &FpdfSink{
		pdf:       pdf,
		fonts:     map[string]bool{},
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		core:      true,
		font:      Font{Family: "Helvetica", Size: 12, LineHeight: 1.15},
		missing:   map[string]bool{},
		log:       log.Named("fpdf"),
	}
}

func displayMode(mode string) string {
	switch mode {
	case "", "fullheight":
		return "fullpage"
	case "fullpage", "fullwidth", "real", "default":
		return mode
	default:
		return "default"
	}
}

// RegisterFont adds a TrueType font under its manifest key.
func (s *FpdfSink) RegisterFont(key string, data []byte) (err error) {
	defer func() {
		// the TrueType parser indexes without bounds checks
		if r := recover(); r != nil {
			s.pdf.ClearError()
			err = fmt.Errorf("register font %q: malformed font: %v", key, r)
		}
	}()
	s.pdf.AddUTF8FontFromBytes(key, "", data)
	// fpdf drops fonts it cannot parse without an error; selecting the font
	// turns that into one.
	s.pdf.SetFont(key, "", float64(s.font.Size))
	if s.pdf.Err() {
		err := s.pdf.Error()
		s.pdf.ClearError()
		s.SetFont(s.font)
		return fmt.Errorf("register font %q: %w", key, err)
	}
	s.fonts[strings.ToLower(key)] = true
	s.SetFont(s.font)
	return nil
}

func (s *FpdfSink) AddPage() { s.pdf.AddPage() }

// PageNo returns the current page number.
func (s *FpdfSink) PageNo() int { return s.pdf.PageNo() }

func (s *FpdfSink) SetFont(f Font) {
	if f.LineHeight <= 0 {
		f.LineHeight = 1.15
	}
	s.font = f
	if key := f.Key(); s.fonts[strings.ToLower(key)] {
		s.pdf.SetFont(key, "", float64(f.Size))
		s.core = false
		return
	}
	family, style := layout.CoreFont(layout.FontSpec{Family: f.Family, Weight: f.Weight, Style: f.Style})
	if key := f.Key(); !s.missing[key] {
		s.missing[key] = true
		s.log.Debug("Font not registered, using core font",
			zap.String("key", key), zap.String("family", family), zap.String("style", style))
	}
	s.pdf.SetFont(family, style, float64(f.Size))
	s.core = true
}

func (s *FpdfSink) SetTextColor(c box.Color) { s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }
func (s *FpdfSink) SetDrawColor(c box.Color) { s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func (s *FpdfSink) SetFillColor(c box.Color) { s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func (s *FpdfSink) SetAlpha(a float64)       { s.pdf.SetAlpha(a, "Normal") }
func (s *FpdfSink) SetLineWidth(w geom.Doc)  { s.pdf.SetLineWidth(float64(w)) }

func (s *FpdfSink) SplitText(txt string, w geom.Doc) []string {
	if w <= 0 {
		return []string{txt}
	}
	return s.pdf.SplitText(txt, float64(w))
}

func (s *FpdfSink) Text(x, y geom.Doc, lines []string, align Align) {
	lineHeight := float64(s.font.Size) * s.font.LineHeight / s.pdf.GetConversionRatio()
	for i, line := range lines {
		out := line
		if s.core {
			out = s.translate(line)
		}
		width := s.pdf.GetStringWidth(out)
		lx := float64(x)
		switch align {
		case AlignCenter:
			lx -= width / 2
		case AlignRight:
			lx -= width
		}
		ly := float64(y) + float64(i)*lineHeight
		if !s.core && text.IsRTL(line) {
			// fpdf draws right-to-left text leftwards from x
			s.pdf.RTL()
			s.pdf.Text(lx+width, ly, out)
			s.pdf.LTR()
			continue
		}
		s.pdf.Text(lx, ly, out)
	}
}

func (s *FpdfSink) Rect(r geom.Rect, style string) {
	s.pdf.Rect(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), style)
}

func (s *FpdfSink) Line(x1, y1, x2, y2 geom.Doc) {
	s.pdf.Line(float64(x1), float64(y1), float64(x2), float64(y2))
}

// Image registers the raster under a fresh name and places it.
func (s *FpdfSink) Image(img *raster.Raster, r geom.Rect) error {
	name := uuid.NewString()
	opts := fpdf.ImageOptions{ImageType: string(img.Format), AllowNegativePosition: true}
	s.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if s.pdf.Err() {
		err := s.pdf.Error()
		s.pdf.ClearError()
		return fmt.Errorf("register image: %w", err)
	}
	s.pdf.ImageOptions(name, float64(r.X), float64(r.Y), float64(r.W), float64(r.H), false, opts, 0, "")
	return nil
}

// Err returns the sticky backend error, if any.
func (s *FpdfSink) Err() error {
	return s.pdf.Error()
}

// Bytes finalizes the document and returns it. Later calls return the same
// bytes.
func (s *FpdfSink) Bytes() ([]byte, error) {
	if s.out != nil {
		return s.out, nil
	}
	var buf bytes.Buffer
	if err := s.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	s.out = buf.Bytes()
	return s.out, nil
}

// DataURI finalizes the document as an embeddable data URI.
func (s *FpdfSink) DataURI() (string, error) {
	data, err := s.Bytes()
	if err != nil {
		return "", err
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// Save finalizes the document into a file, creating its directory.
func (s *FpdfSink) Save(path string) error {
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
