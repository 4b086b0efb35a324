// Package raster turns image sources into encoded canvases the PDF backend can
// embed. Sources are decoded, drawn over the box background at twice the box
// size and re-encoded as PNG, or JPEG when the source was a JPEG.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/box"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Format is the encoding of a composited raster, named the way the PDF
// backend expects it.
type Format string

const (
	PNG  Format = "PNG"
	JPEG Format = "JPG"
)

const (
	// Scale is the oversampling factor of composited canvases.
	Scale = 2
	// MaxDimension caps either canvas edge, in pixels.
	MaxDimension = 4096
)

// ErrUnsupported is returned for data that is neither a known raster format
// nor SVG.
var ErrUnsupported = errors.New("unsupported image data")

// Fit controls how a source is placed on the canvas.
type Fit int

const (
	// Stretch scales the source to the whole canvas, like an <img>.
	Stretch Fit = iota
	// Natural draws the source at its intrinsic size from the top left corner,
	// like a non-repeating background image.
	Natural
)

// Raster is an encoded canvas ready for embedding.
type Raster struct {
	Data   []byte
	Format Format
	Width  int
	Height int
}

// Source is decoded image data. SVG sources keep their document so they can
// be rendered at the final canvas size instead of being resampled.
type Source struct {
	Image  image.Image
	Format Format
	svg    []byte
}

// Size returns the intrinsic size of the source in pixels.
func (s *Source) Size() (int, int) {
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Compositor builds rasters for boxes.
type Compositor struct {
	log     *zap.Logger
	quality int
}

// NewCompositor creates a compositor.
func NewCompositor(log *zap.Logger) *Compositor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compositor{log: log.Named("raster"), quality: 92}
}

// IsSVG reports whether data looks like an SVG document.
func IsSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// Decode decodes raster or SVG data. The returned format is JPEG only for
// JPEG input.
func Decode(data []byte) (*Source, error) {
	if IsSVG(data) {
		img, err := RasterizeSVG(data, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("rasterize svg: %w", err)
		}
		return &Source{Image: img, Format: PNG, svg: data}, nil
	}

	kind, _ := filetype.Match(data)
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%w (%s)", ErrUnsupported, kindName(kind.Extension))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	format := PNG
	if filetype.Is(data, "jpg") {
		format = JPEG
	}
	return &Source{Image: img, Format: format}, nil
}

func kindName(ext string) string {
	if ext == "" || ext == "unknown" {
		return "unknown type"
	}
	return ext
}

// DecodeSize returns the intrinsic size of raster or SVG data without keeping
// the decoded pixels.
func DecodeSize(data []byte) (w, h int, err error) {
	if IsSVG(data) {
		return SVGSize(data)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// canvasSize returns the oversampled canvas for a box, clamped to
// MaxDimension keeping the aspect ratio, and the effective scale.
func canvasSize(w, h float64) (int, int, float64) {
	scale := float64(Scale)
	if m := math.Max(w, h) * scale; m > MaxDimension {
		scale *= MaxDimension / m
	}
	cw := min(max(int(math.Ceil(w*scale)), 1), MaxDimension)
	ch := min(max(int(math.Ceil(h*scale)), 1), MaxDimension)
	return cw, ch, scale
}

// Compose draws src over the background colour on a canvas of the box size
// (w x h source pixels) times Scale.
func (c *Compositor) Compose(src *Source, bg box.Color, w, h float64, fit Fit) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %gx%g", w, h)
	}
	cw, ch, scale := canvasSize(w, h)

	fill := color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: uint8(math.Round(bg.A * 255))}
	if src.Format == JPEG && fill.A < 255 {
		// JPEG has no alpha channel.
		fill = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	canvas := imaging.New(cw, ch, fill)

	var tw, th int
	switch fit {
	case Natural:
		iw, ih := src.Size()
		tw = max(int(math.Round(float64(iw)*scale)), 1)
		th = max(int(math.Round(float64(ih)*scale)), 1)
	default:
		tw, th = cw, ch
	}

	var scaled image.Image
	if src.svg != nil {
		img, err := RasterizeSVG(src.svg, tw, th)
		if err != nil {
			return nil, err
		}
		scaled = img
	} else {
		scaled = imaging.Resize(src.Image, tw, th, imaging.Lanczos)
	}
	c.log.Debug("Composited raster",
		zap.Int("canvasWidth", cw), zap.Int("canvasHeight", ch),
		zap.Int("imageWidth", tw), zap.Int("imageHeight", th))
	return imaging.Overlay(canvas, scaled, image.Point{}, 1.0), nil
}

// Encode encodes a canvas in the given format.
func (c *Compositor) Encode(img image.Image, format Format) (*Raster, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case JPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.quality))
	default:
		format = PNG
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", strings.ToLower(string(format)), err)
	}
	b := img.Bounds()
	return &Raster{Data: buf.Bytes(), Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// Render decodes data and composites it for a box in one step.
func (c *Compositor) Render(data []byte, bg box.Color, w, h float64, fit Fit) (*Raster, error) {
	src, err := Decode(data)
	if err != nil {
		return nil, err
	}
	img, err := c.Compose(src, bg, w, h, fit)
	if err != nil {
		return nil, err
	}
	return c.Encode(img, src.Format)
}
