package geom

import (
	"errors"
	"math"
	"testing"
)

func TestScaleFactorMatchesReferenceWidth(t *testing.T) {
	tests := []struct {
		format      string
		orientation Orientation
		rootWidth   Px
		want        float64
	}{
		{"A4", Portrait, 794, 21},
		{"a4", Landscape, 1123, 29.7},
		{"A3", Portrait, 1123, 29.7},
		{"A5", Portrait, 560, 14.8},
		{"Letter", Portrait, 816, 21.59},
		{"Legal", Landscape, 1344, 35.56},
		{"unknown", Portrait, 1000, 29.7},
	}

	for _, tt := range tests {
		t.Run(tt.format+"_"+string(tt.orientation), func(t *testing.T) {
			ref := ReferenceWidth(tt.format, tt.orientation)
			if ref != tt.want {
				t.Fatalf("ReferenceWidth() = %v, want %v", ref, tt.want)
			}
			tr := NewTransformer(ref, func() Px { return tt.rootWidth })
			got := tr.ScaleFactor() * float64(tt.rootWidth)
			if math.Abs(got-ref) > 1e-9 {
				t.Errorf("scale * width = %v, want %v", got, ref)
			}
		})
	}
}

func TestTransformerCachesUntilWidthChanges(t *testing.T) {
	width := Px(800)
	calls := 0
	tr := NewTransformer(21, func() Px {
		calls++
		return width
	})

	first := tr.ScaleFactor()
	for range 10 {
		if got := tr.ScaleFactor(); got != first {
			t.Fatalf("ScaleFactor drifted: %v != %v", got, first)
		}
	}
	fontFirst := tr.FontScaleFactor()
	if want := pointInCm / first; math.Abs(fontFirst-want) > 1e-12 {
		t.Fatalf("FontScaleFactor() = %v, want %v", fontFirst, want)
	}

	width = 400
	if got := tr.ScaleFactor(); got != 2*first {
		t.Errorf("ScaleFactor after resize = %v, want %v", got, 2*first)
	}
	if got := tr.FontScaleFactor(); math.Abs(got-fontFirst/2) > 1e-12 {
		t.Errorf("FontScaleFactor after resize = %v, want %v", got, fontFirst/2)
	}
	if calls < 12 {
		t.Errorf("expected width to be measured on every call, got %d", calls)
	}
}

func TestTransformerConversions(t *testing.T) {
	tr := NewTransformer(21, func() Px { return 210 })

	if got := tr.ToDoc(100); math.Abs(float64(got)-10) > 1e-9 {
		t.Errorf("ToDoc(100) = %v, want 10", got)
	}
	// 16px at 0.1 cm/px is 1.6cm, i.e. 1.6/0.03528 points
	want := 1.6 / pointInCm
	if got := tr.FontSize(16); math.Abs(float64(got)-want) > 1e-9 {
		t.Errorf("FontSize(16) = %v, want %v", got, want)
	}
	if got := FontOffset(10); math.Abs(float64(got)-0.3528) > 1e-12 {
		t.Errorf("FontOffset(10) = %v, want 0.3528", got)
	}
}

func TestTransformerEmptyRoot(t *testing.T) {
	tr := NewTransformer(21, func() Px { return 0 })
	if err := tr.Validate(); !errors.Is(err, ErrEmptyRoot) {
		t.Fatalf("Validate() = %v, want ErrEmptyRoot", err)
	}
	if got := tr.ScaleFactor(); got != 0 {
		t.Errorf("ScaleFactor() = %v, want 0", got)
	}
	if got := tr.FontSize(12); got != 0 {
		t.Errorf("FontSize() = %v, want 0", got)
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 10, H: 5}
	if r.Bottom() != 7 || r.Right() != 11 {
		t.Fatalf("unexpected edges: bottom=%v right=%v", r.Bottom(), r.Right())
	}
	in := r.Inset(1, 2, 1, 3)
	if in != (Rect{X: 4, Y: 3, W: 5, H: 3}) {
		t.Errorf("Inset() = %+v", in)
	}
}
