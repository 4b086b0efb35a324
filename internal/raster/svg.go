package raster

import (
	"bytes"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGWidth and defaultSVGHeight apply when a document has no viewBox,
// matching the default size of a replaced element.
const (
	defaultSVGWidth  = 300
	defaultSVGHeight = 150
)

// SVGSize returns the viewBox size of an SVG document.
func SVGSize(data []byte) (int, int, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return 0, 0, err
	}
	return intrinsic(icon)
}

func intrinsic(icon *oksvg.SvgIcon) (int, int, error) {
	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 {
		w = defaultSVGWidth
	}
	if h <= 0 {
		h = defaultSVGHeight
	}
	return w, h, nil
}

// RasterizeSVG renders an SVG document onto a transparent canvas. With a zero
// width and height the viewBox size is used; otherwise the drawing is stretched
// to the given size. Either edge is clamped to MaxDimension.
func RasterizeSVG(data []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		w, h, _ = intrinsic(icon)
	}
	if w > MaxDimension || h > MaxDimension {
		s := min(float64(MaxDimension)/float64(w), float64(MaxDimension)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
