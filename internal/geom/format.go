package geom

import "strings"

// Orientation is the page orientation of the target document.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// PageFormat describes a supported paper size in centimetres (portrait).
type PageFormat struct {
	Name   string
	Width  float64
	Height float64
}

// fallbackReferenceWidth is used for formats missing from the table.
const fallbackReferenceWidth = 29.7

// Standard page formats in centimetres
var (
	FormatA3     = PageFormat{Name: "A3", Width: 29.7, Height: 42.0}
	FormatA4     = PageFormat{Name: "A4", Width: 21.0, Height: 29.7}
	FormatA5     = PageFormat{Name: "A5", Width: 14.8, Height: 21.0}
	FormatLetter = PageFormat{Name: "Letter", Width: 21.59, Height: 27.94}
	FormatLegal  = PageFormat{Name: "Legal", Width: 21.59, Height: 35.56}
)

var formats = map[string]PageFormat{
	"a3":     FormatA3,
	"a4":     FormatA4,
	"a5":     FormatA5,
	"letter": FormatLetter,
	"legal":  FormatLegal,
}

// LookupFormat finds a page format by case-insensitive name.
func LookupFormat(name string) (PageFormat, bool) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// ReferenceWidth returns the printable width of the named format for the given
// orientation. Unknown formats use the A3-portrait/A4-landscape width.
func ReferenceWidth(name string, o Orientation) float64 {
	f, ok := LookupFormat(name)
	if !ok {
		return fallbackReferenceWidth
	}
	if o == Landscape {
		return f.Height
	}
	return f.Width
}
