package box_test

import (
	"testing"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/box/boxtest"
)

var sel = box.Selectors{Export: ".hp-export", Group: ".hp-group", Break: ".export-page-break"}

func TestLoadGeometryAndStyle(t *testing.T) {
	tree := boxtest.New(800, 2000)
	root := tree.RootElement()
	root.X, root.Y = 10, 20

	el := root.Box(30, 70, 200, 100, "hp-export").
		Style("padding-top", "4px").
		Style("padding-left", "8px").
		Style("border-bottom-width", "2px").
		Style("border-bottom-style", "dashed").
		Style("border-bottom-color", "#ff0000").
		Style("background-color", "rgb(1, 2, 3)").
		Style("background-image", `url("img/bg.png")`).
		Style("font-family", `"Open Sans", Arial, sans-serif`).
		Style("font-weight", "bold").
		Style("font-size", "14px").
		Style("line-height", "21px")
	el.Text = "hello"

	b, err := box.Load(tree, el, sel)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if b.X != 20 || b.Y != 50 || b.Width != 200 || b.Height != 100 {
		t.Errorf("geometry = (%v,%v %vx%v)", b.X, b.Y, b.Width, b.Height)
	}
	if b.Padding.Top != 4 || b.Padding.Left != 8 || b.Padding.Right != 0 {
		t.Errorf("padding = %+v", b.Padding)
	}
	if !b.Borders.Bottom.Visible() || b.Borders.Bottom.Color != (box.Color{R: 255, A: 1}) {
		t.Errorf("bottom border = %+v", b.Borders.Bottom)
	}
	if b.Borders.Top.Visible() {
		t.Errorf("top border should not be visible: %+v", b.Borders.Top)
	}
	if b.Background != (box.Color{R: 1, G: 2, B: 3, A: 1}) {
		t.Errorf("background = %v", b.Background)
	}
	if b.BackgroundImage != "img/bg.png" {
		t.Errorf("background image = %q", b.BackgroundImage)
	}
	if b.Font.Family != "Open Sans" || b.Font.Weight != "700" || b.Font.Style != "normal" {
		t.Errorf("font = %+v", b.Font)
	}
	if got := b.Font.LineHeightFactor(); got != 1.5 {
		t.Errorf("LineHeightFactor() = %v, want 1.5", got)
	}
	if !b.Leaf || b.Text != "hello" || b.Category != box.Container {
		t.Errorf("leaf=%v text=%q category=%v", b.Leaf, b.Text, b.Category)
	}
	if !b.HasRaster() {
		t.Error("box with a background image should be rasterized")
	}
}

func TestLoadGroupBreakAndExclusion(t *testing.T) {
	tree := boxtest.New(800, 2000)
	root := tree.RootElement()
	group := root.Box(0, 300, 800, 400, "hp-group")
	member := group.Box(0, 320, 800, 50, "hp-export", "export-page-break")
	hidden := root.Box(0, 0, 10, 10, "d-none")
	inner := hidden.Box(0, 0, 5, 5, "hp-export")

	b, err := box.Load(tree, member, sel)
	if err != nil {
		t.Fatal(err)
	}
	if b.Group == nil || b.Group.Y != 300 || b.Group.Height != 400 {
		t.Fatalf("group = %+v", b.Group)
	}
	if !b.ForceBreak {
		t.Error("expected force break flag")
	}
	if b.Excluded {
		t.Error("member should not be excluded")
	}

	ib, err := box.Load(tree, inner, sel)
	if err != nil {
		t.Fatal(err)
	}
	if !ib.Excluded {
		t.Error("box inside hidden ancestor should be excluded")
	}
	if ib.Group != nil {
		t.Error("box outside a group should have no group")
	}
}

func TestLoadLeafAndCategories(t *testing.T) {
	tree := boxtest.New(800, 2000)
	root := tree.RootElement()
	parent := root.Box(0, 0, 100, 100, "hp-export")
	parent.Text = "outer"
	parent.Box(0, 0, 50, 50, "hp-export")
	img := root.Add(&boxtest.Element{Tag: "IMG", Classes: []string{"hp-export"}, Attrs: map[string]string{"src": "a.jpg"}})
	canvas := root.Add(&boxtest.Element{Tag: "canvas", Classes: []string{"hp-export"}})

	b, _ := box.Load(tree, parent, sel)
	if b.Leaf {
		t.Error("container with exportable child must not be a leaf")
	}
	ib, _ := box.Load(tree, img, sel)
	if ib.Category != box.Image || ib.Src != "a.jpg" || ib.Tag != "img" {
		t.Errorf("img box = %+v", ib)
	}
	cb, _ := box.Load(tree, canvas, sel)
	if cb.Category != box.Drawable || !cb.HasRaster() {
		t.Errorf("canvas box = %+v", cb)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want box.Color
		ok   bool
	}{
		{"#fff", box.Color{R: 255, G: 255, B: 255, A: 1}, true},
		{"#FF9900", box.Color{R: 255, G: 153, A: 1}, true},
		{"#00000000", box.Color{}, true},
		{"rgb(10, 20, 30)", box.Color{R: 10, G: 20, B: 30, A: 1}, true},
		{"rgba(0, 0, 0, 0)", box.Color{}, true},
		{"rgba(255,0,0,0.5)", box.Color{R: 255, A: 0.5}, true},
		{"rgb(0 128 0 / 50%)", box.Color{G: 128, A: 0.5}, true},
		{"transparent", box.Transparent, true},
		{"red", box.Color{R: 255, A: 1}, true},
		{"Navy", box.Color{B: 128, A: 1}, true},
		{"#12", box.Color{}, false},
		{"rgb(1,2)", box.Color{}, false},
		{"nonsense", box.Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := box.ParseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
	if !box.Transparent.Transparent() || box.Black.Transparent() {
		t.Error("Transparent() misreports alpha")
	}
}

func TestValueHelpers(t *testing.T) {
	if got := box.ParsePx("12.5px"); got != 12.5 {
		t.Errorf("ParsePx = %v", got)
	}
	if got := box.ParsePx("auto"); got != 0 {
		t.Errorf("ParsePx(auto) = %v", got)
	}
	if got := box.ParseURL("none"); got != "" {
		t.Errorf("ParseURL(none) = %q", got)
	}
	if got := box.ParseURL("url('x.svg')"); got != "x.svg" {
		t.Errorf("ParseURL = %q", got)
	}
	if got := box.FirstFamily(`'Roboto Slab', serif`); got != "Roboto Slab" {
		t.Errorf("FirstFamily = %q", got)
	}
	if got := box.NormalizeWeight("normal"); got != "400" {
		t.Errorf("NormalizeWeight = %q", got)
	}
}
