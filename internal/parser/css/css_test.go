package css

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestParseRules(t *testing.T) {
	p := NewParser(zaptest.NewLogger(t))
	sheet, err := p.ParseString(`
		/* layout */
		.hp-export, div.card > p { padding: 4px 8px; color: #333 !important }
		@media print { .screen-only { display: none } }
		@media screen and (min-width: 100px) { h1 { font-size: 20px; } }
		@font-face { font-family: X; src: url(x.ttf) }
		h2 { margin : 0 ; }
	`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(sheet.Rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(sheet.Rules))
	}

	first := sheet.Rules[0]
	if len(first.Selectors) != 2 || first.Selectors[0] != ".hp-export" {
		t.Errorf("selectors = %q", first.Selectors)
	}
	if len(first.Declarations) != 2 {
		t.Fatalf("declarations = %d", len(first.Declarations))
	}
	if d := first.Declarations[0]; d.Property != "padding" || d.Value != "4px 8px" || d.Important {
		t.Errorf("padding = %+v", d)
	}
	if d := first.Declarations[1]; d.Property != "color" || d.Value != "#333" || !d.Important {
		t.Errorf("color = %+v", d)
	}

	if sheet.Rules[1].Selectors[0] != "h1" {
		t.Errorf("media rule selectors = %q", sheet.Rules[1].Selectors)
	}
	if d := sheet.Rules[2].Declarations[0]; d.Property != "margin" || d.Value != "0" {
		t.Errorf("margin = %+v", d)
	}
}

func TestParseDeclarations(t *testing.T) {
	p := NewParser(nil)
	decls := p.ParseDeclarations("color: red; BORDER-TOP: 1px solid rgb(0, 0, 0);; width:")
	if len(decls) != 2 {
		t.Fatalf("declarations = %d, want 2", len(decls))
	}
	if decls[1].Property != "border-top" || decls[1].Value != "1px solid rgb(0,0,0)" {
		t.Errorf("border-top = %+v", decls[1])
	}
}

func TestMediaApplies(t *testing.T) {
	tests := map[string]bool{
		"":                   true,
		"screen":             true,
		"all":                true,
		"print":              false,
		"print, screen":      true,
		"not print":          true,
		"only screen":        true,
		"(max-width: 600px)": true,
		"not screen":         false,
		"speech":             false,
		"screen and (color)": true,
	}
	for q, want := range tests {
		if got := mediaApplies(q); got != want {
			t.Errorf("mediaApplies(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestSplitSelectors(t *testing.T) {
	got := splitSelectors(`a, :is(b, c) , [data-x="1,2"]`)
	if len(got) != 3 || got[1] != ":is(b, c)" {
		t.Errorf("splitSelectors() = %q", got)
	}
}
