package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/gompdf/boxpdf/internal/box"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const redSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 20"><rect x="0" y="0" width="10" height="20" fill="#ff0000"/></svg>`

func TestDecodeFormats(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, solid(4, 4, color.White), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		data   []byte
		format Format
		w, h   int
	}{
		{"png", encodePNG(t, solid(3, 2, color.Black)), PNG, 3, 2},
		{"jpeg", jpg.Bytes(), JPEG, 4, 4},
		{"svg", []byte(redSVG), PNG, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.Format != tt.format {
				t.Errorf("format = %s, want %s", src.Format, tt.format)
			}
			if w, h := src.Size(); w != tt.w || h != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
			w, h, err := DecodeSize(tt.data)
			if err != nil || w != tt.w || h != tt.h {
				t.Errorf("DecodeSize() = %d, %d, %v", w, h, err)
			}
		})
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode([]byte("plain text, not an image"))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestComposeStretchOverBackground(t *testing.T) {
	c := NewCompositor(zaptest.NewLogger(t))
	// left half opaque blue, right half transparent
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{B: 255, A: 255})
	src := &Source{Image: img, Format: PNG}

	bg := box.Color{G: 255, A: 1}
	out, err := c.Compose(src, bg, 10, 5, Stretch)
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("canvas = %v, want 20x10", b)
	}
	if got := out.NRGBAAt(1, 5); got.B < 200 || got.G > 50 {
		t.Errorf("left pixel = %v, want blue", got)
	}
	if got := out.NRGBAAt(18, 5); got.G < 200 || got.B > 50 {
		t.Errorf("right pixel = %v, want background green", got)
	}
}

func TestComposeNatural(t *testing.T) {
	c := NewCompositor(zaptest.NewLogger(t))
	src := &Source{Image: solid(2, 2, color.NRGBA{R: 255, A: 255}), Format: PNG}

	out, err := c.Compose(src, box.Transparent, 10, 10, Natural)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.NRGBAAt(1, 1); got.R != 255 || got.A != 255 {
		t.Errorf("image pixel = %v", got)
	}
	if got := out.NRGBAAt(10, 10); got.A != 0 {
		t.Errorf("pixel outside the image = %v, want transparent", got)
	}
}

func TestComposeClampsLargeCanvas(t *testing.T) {
	c := NewCompositor(zaptest.NewLogger(t))
	src := &Source{Image: solid(1, 1, color.Black), Format: PNG}
	out, err := c.Compose(src, box.Transparent, 10000, 100, Stretch)
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != MaxDimension || b.Dy() != 41 {
		t.Errorf("canvas = %v", b)
	}
}

func TestComposeEmptyBox(t *testing.T) {
	c := NewCompositor(zaptest.NewLogger(t))
	src := &Source{Image: solid(1, 1, color.Black), Format: PNG}
	if _, err := c.Compose(src, box.Transparent, 0, 10, Stretch); err == nil {
		t.Error("expected an error for a zero-width box")
	}
}

func TestRenderKeepsJPEG(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, solid(8, 8, color.Black), nil); err != nil {
		t.Fatal(err)
	}
	c := NewCompositor(zaptest.NewLogger(t))
	r, err := c.Render(jpg.Bytes(), box.Transparent, 4, 4, Stretch)
	if err != nil {
		t.Fatal(err)
	}
	if r.Format != JPEG || r.Width != 8 || r.Height != 8 {
		t.Errorf("raster = %s %dx%d", r.Format, r.Width, r.Height)
	}
	if _, err := jpeg.Decode(bytes.NewReader(r.Data)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	c := NewCompositor(zaptest.NewLogger(t))
	r, err := c.Render([]byte(redSVG), box.Transparent, 5, 10, Stretch)
	if err != nil {
		t.Fatal(err)
	}
	if r.Format != PNG {
		t.Errorf("format = %s", r.Format)
	}
	img, err := png.Decode(bytes.NewReader(r.Data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 20 {
		t.Fatalf("bounds = %v", b)
	}
	if r, _, _, a := img.At(5, 10).RGBA(); r>>8 < 200 || a == 0 {
		t.Errorf("center pixel not red: %v", img.At(5, 10))
	}
}
