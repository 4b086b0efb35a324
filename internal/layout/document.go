package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/internal/parser/html"
	"github.com/gompdf/boxpdf/internal/style"
	"github.com/gompdf/boxpdf/internal/text"
)

// Document is a laid out HTML document. It answers geometry queries for the
// printer and lays itself out again after the tree or its classes change.
type Document struct {
	doc    *html.Document
	root   *html.Node
	styles *style.StyleEngine
	engine *Engine
	log    *zap.Logger

	computed map[*html.Node]Computed
	boxes    map[*html.Node]*Box
	dirty    bool
}

var (
	_ box.Provider = (*Document)(nil)
	_ box.Mutator  = (*Document)(nil)
	_ box.Markup   = (*Document)(nil)
)

// NewDocument lays out doc. The geometry root is the <body> element.
func NewDocument(doc *html.Document, styles *style.StyleEngine, engine *Engine, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Document{
		doc:    doc,
		root:   doc.Body(),
		styles: styles,
		engine: engine,
		log:    log.Named("document"),
		dirty:  true,
	}
	d.ensure()
	return d
}

// HTML returns the underlying document.
func (d *Document) HTML() *html.Document {
	return d.doc
}

// SetRoot changes the geometry root. Positions are reported relative to it.
func (d *Document) SetRoot(n *html.Node) {
	d.root = n
}

// Box returns the layout of an element.
func (d *Document) Box(n *html.Node) (*Box, bool) {
	d.ensure()
	b, ok := d.boxes[n]
	return b, ok
}

func (d *Document) ensure() {
	if !d.dirty {
		return
	}
	d.dirty = false
	d.computed, d.boxes = d.engine.Layout(d.doc.Root, d.styles.ComputeStyles(d.doc.Root))
	if rb, ok := d.boxes[d.root]; ok {
		d.log.Debug("Document laid out", zap.Float64("width", rb.Width), zap.Float64("height", rb.Height))
	}
}

func node(n box.Node) *html.Node {
	h, _ := n.(*html.Node)
	return h
}

func (d *Document) Root() box.Node { return d.root }

func (d *Document) Select(n box.Node, selector string) ([]box.Node, error) {
	var out []box.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.IsElement() {
				if style.Matches(c, selector) {
					out = append(out, c)
				}
				walk(c)
			}
		}
	}
	if h := node(n); h != nil {
		walk(h)
	}
	return out, nil
}

func (d *Document) Closest(n box.Node, selector string) (box.Node, bool) {
	h := node(n)
	if h == nil {
		return nil, false
	}
	for p := h.Parent; p != nil; p = p.Parent {
		if p.IsElement() && style.Matches(p, selector) {
			return p, true
		}
	}
	return nil, false
}

func (d *Document) Matches(n box.Node, selector string) bool {
	h := node(n)
	return h != nil && style.Matches(h, selector)
}

func (d *Document) Hidden(n box.Node) bool {
	d.ensure()
	hidden := d.engine.options.HiddenClass
	for h := node(n); h != nil; h = h.Parent {
		if !h.IsElement() {
			continue
		}
		if d.computed[h]["display"] == "none" || (hidden != "" && h.HasClass(hidden)) {
			return true
		}
	}
	return false
}

func (d *Document) Position(n, ancestor box.Node) (geom.Px, geom.Px) {
	d.ensure()
	b, ok := d.boxes[node(n)]
	if !ok {
		return 0, 0
	}
	x, y := b.X, b.Y
	if a, ok := d.boxes[node(ancestor)]; ok {
		x -= a.X
		y -= a.Y
	}
	return geom.Px(x), geom.Px(y)
}

func (d *Document) Width(n box.Node) geom.Px {
	d.ensure()
	if b, ok := d.boxes[node(n)]; ok {
		return geom.Px(b.Width)
	}
	return 0
}

func (d *Document) Height(n box.Node) geom.Px {
	d.ensure()
	if b, ok := d.boxes[node(n)]; ok {
		return geom.Px(b.Height)
	}
	return 0
}

// Style returns the computed value of a property. Box lengths come from the
// layout and are in px.
func (d *Document) Style(n box.Node, property string) string {
	d.ensure()
	h := node(n)
	if b, ok := d.boxes[h]; ok {
		side := func(s geom.Sides[float64], name string) string {
			switch name {
			case "top":
				return formatPx(s.Top)
			case "right":
				return formatPx(s.Right)
			case "bottom":
				return formatPx(s.Bottom)
			default:
				return formatPx(s.Left)
			}
		}
		switch {
		case strings.HasPrefix(property, "padding-"):
			return side(b.Padding, strings.TrimPrefix(property, "padding-"))
		case strings.HasPrefix(property, "margin-"):
			return side(b.Margin, strings.TrimPrefix(property, "margin-"))
		case strings.HasPrefix(property, "border-") && strings.HasSuffix(property, "-width"):
			return side(b.Border, strings.TrimSuffix(strings.TrimPrefix(property, "border-"), "-width"))
		}
	}
	if c, ok := d.computed[h]; ok {
		if v, ok := c[property]; ok {
			return v
		}
	}
	return initialValues[property]
}

func (d *Document) Tag(n box.Node) string {
	if h := node(n); h != nil {
		return h.Data
	}
	return ""
}

func (d *Document) Attr(n box.Node, key string) (string, bool) {
	if h := node(n); h != nil {
		return h.Attribute(key)
	}
	return "", false
}

// Text returns the rendered text of n: collapsed white space, one line per
// block or <br>, hidden elements left out.
func (d *Document) Text(n box.Node) string {
	d.ensure()
	h := node(n)
	if h == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		switch {
		case cur.Type == html.TextNode:
			sb.WriteString(text.CollapseSpace(cur.Data))
		case cur.IsElement():
			c := d.computed[cur]
			if c["display"] == "none" {
				return
			}
			if cur.Data == "br" {
				sb.WriteByte('\n')
				return
			}
			block := blockDisplays[c["display"]]
			if block {
				sb.WriteByte('\n')
			}
			for ch := cur.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
			if block {
				sb.WriteByte('\n')
			}
		}
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		walk(ch)
	}
	return strings.Join(text.Lines(sb.String()), "\n")
}

func (d *Document) Append(parent box.Node, tag, class string) box.Node {
	el := html.NewElement(tag)
	if class != "" {
		el.AddClass(class)
	}
	if p := node(parent); p != nil {
		p.AppendChild(el)
	}
	d.dirty = true
	return el
}

func (d *Document) AddClass(n box.Node, class string) {
	if h := node(n); h != nil && !h.HasClass(class) {
		h.AddClass(class)
		d.dirty = true
	}
}

func (d *Document) RemoveClass(n box.Node, class string) {
	if h := node(n); h != nil && h.HasClass(class) {
		h.RemoveClass(class)
		d.dirty = true
	}
}

func (d *Document) OuterHTML(n box.Node) (string, error) {
	h := node(n)
	if h == nil {
		return "", fmt.Errorf("not a document node: %T", n)
	}
	return html.Render(h)
}
