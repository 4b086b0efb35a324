package geom

import "errors"

// ErrEmptyRoot is returned when the measured root width is not positive.
var ErrEmptyRoot = errors.New("root box has no width")

// WidthFunc reports the current measured width of the document root.
type WidthFunc func() Px

// Transformer maps source pixels to target document units. The ratio is derived
// from the page reference width and the measured root width and is recomputed
// whenever the measured width changes.
type Transformer struct {
	reference float64
	measure   WidthFunc

	lastWidth Px
	scale     float64
	fontScale float64
	valid     bool
}

// NewTransformer creates a transformer for a reference width (target units) and
// a root width source.
func NewTransformer(reference float64, measure WidthFunc) *Transformer {
	return &Transformer{
		reference: reference,
		measure:   measure,
	}
}

func (t *Transformer) refresh() error {
	w := t.measure()
	if t.valid && w == t.lastWidth {
		return nil
	}
	if w <= 0 {
		t.valid = false
		return ErrEmptyRoot
	}
	t.lastWidth = w
	t.scale = t.reference / float64(w)
	t.fontScale = pointInCm / t.scale
	t.valid = true
	return nil
}

// Validate measures the root once and reports whether it can be transformed.
func (t *Transformer) Validate() error {
	return t.refresh()
}

// ScaleFactor returns target units per source pixel.
func (t *Transformer) ScaleFactor() float64 {
	if err := t.refresh(); err != nil {
		return 0
	}
	return t.scale
}

// FontScaleFactor returns source pixels per font point.
func (t *Transformer) FontScaleFactor() float64 {
	if err := t.refresh(); err != nil {
		return 0
	}
	return t.fontScale
}

// ToDoc converts a source length to target units.
func (t *Transformer) ToDoc(v Px) Doc {
	return Doc(float64(v) * t.ScaleFactor())
}

// FontSize converts a source font size to points.
func (t *Transformer) FontSize(v Px) Pt {
	fs := t.FontScaleFactor()
	if fs == 0 {
		return 0
	}
	return Pt(float64(v) / fs)
}

// FontOffset is the distance between the top of a line box and the text
// baseline for a given font size, in target units.
func FontOffset(size Pt) Doc {
	return Doc(float64(size) * pointInCm)
}
