package html

import (
	"strings"
	"testing"
)

func TestParseAndRender(t *testing.T) {
	doc, err := NewParser().ParseString(`<html><head><title> Report </title></head>
		<body><div class="a b" id="x"><p>hi <b>there</b></p></div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if got := doc.Title(); got != "Report" {
		t.Errorf("Title() = %q", got)
	}
	body := doc.Body()
	if !body.IsElement("body") {
		t.Fatalf("Body() = %q", body.Data)
	}
	div := body.Find("div")
	out, err := Render(div)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := `<div class="a b" id="x"><p>hi <b>there</b></p></div>`; out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestParseLatin1(t *testing.T) {
	src := "<html><head><meta charset=\"iso-8859-1\"></head><body><p>caf\xe9</p></body></html>"
	doc, err := NewParser().Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p := doc.Root.Find("p")
	if p == nil || p.FirstChild == nil || p.FirstChild.Data != "café" {
		t.Errorf("decoded text = %+v", p)
	}
}

func TestClasses(t *testing.T) {
	n := NewElement("DIV")
	if n.Data != "div" {
		t.Errorf("tag = %q", n.Data)
	}
	n.AddClass("hp-export")
	n.AddClass("print")
	n.AddClass("print")
	if got := n.Classes(); len(got) != 2 || !n.HasClass("print") {
		t.Errorf("Classes() = %q", got)
	}
	n.RemoveClass("hp-export")
	if v, _ := n.Attribute("class"); v != "print" {
		t.Errorf("class = %q", v)
	}
}

func TestAppendChild(t *testing.T) {
	parent := NewElement("div")
	a, b := NewElement("span"), NewText("x")
	parent.AppendChild(a)
	parent.AppendChild(b)
	if parent.FirstChild != a || parent.LastChild != b || a.NextSibling != b || b.PrevSibling != a || b.Parent != parent {
		t.Error("sibling links are broken")
	}
}

func TestNodeTypes(t *testing.T) {
	doc, err := NewParser().ParseString(`<p>hi <b>there</b></p>`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	p := doc.Body().Find("p")
	first, second := p.FirstChild, p.FirstChild.NextSibling
	if first.Type != TextNode || first.Data != "hi " {
		t.Errorf("first child = %v %q, want text", first.Type, first.Data)
	}
	if second.Type != ElementNode || !second.IsElement("b") {
		t.Errorf("second child = %v %q, want element b", second.Type, second.Data)
	}
}
