package layout

import (
	"strconv"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

// FontSpec selects a font for measurement. Size is in pixels.
type FontSpec struct {
	Family string
	Weight string
	Style  string
	Size   float64
}

// Key returns the font manifest key "family weight style".
func (f FontSpec) Key() string {
	return f.Family + " " + f.Weight + " " + f.Style
}

// Measurer measures the advance width of text, in the unit of FontSpec.Size.
type Measurer interface {
	StringWidth(s string, f FontSpec) float64
}

// FpdfMeasurer measures text with fpdf font metrics, so that layout wraps text
// the same way the PDF backend does.
type FpdfMeasurer struct {
	mu    sync.Mutex
	pdf   *fpdf.Fpdf
	fonts map[string]bool
}

// NewFpdfMeasurer creates a measurer that knows the PDF core fonts.
func NewFpdfMeasurer() *FpdfMeasurer {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	return &FpdfMeasurer{pdf: pdf, fonts: map[string]bool{}}
}

// RegisterFont adds a TrueType font under its manifest key. Fonts fpdf
// cannot parse are ignored and measured with a core font.
func (m *FpdfMeasurer) RegisterFont(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			m.pdf.ClearError()
		}
	}()
	m.pdf.AddUTF8FontFromBytes(key, "", data)
	m.pdf.SetFont(key, "", 12)
	if m.pdf.Err() {
		m.pdf.ClearError()
		return
	}
	m.fonts[strings.ToLower(key)] = true
}

// StringWidth returns a font-aware width using fpdf metrics
func (m *FpdfMeasurer) StringWidth(s string, f FontSpec) float64 {
	if s == "" || f.Size <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if key := f.Key(); m.fonts[strings.ToLower(key)] {
		m.pdf.SetFont(key, "", f.Size)
	} else {
		fam, sty := CoreFont(f)
		m.pdf.SetFont(fam, sty, f.Size)
	}
	w := m.pdf.GetStringWidth(s)
	if m.pdf.Err() {
		m.pdf.ClearError()
		return 0
	}
	return w
}

// CoreFont maps a font to one of the PDF core fonts and an fpdf style string.
func CoreFont(f FontSpec) (string, string) {
	family := "Helvetica"
	switch strings.ToLower(f.Family) {
	case "times", "times new roman", "serif", "georgia":
		family = "Times"
	case "courier", "courier new", "monospace", "consolas":
		family = "Courier"
	}
	styleStr := ""
	if w, err := strconv.Atoi(f.Weight); err == nil && w >= 600 {
		styleStr += "B"
	} else if f.Weight == "bold" {
		styleStr += "B"
	}
	if f.Style == "italic" || f.Style == "oblique" {
		styleStr += "I"
	}
	return family, styleStr
}
