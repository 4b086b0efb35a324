// Package boxtest provides an in-memory box.Provider with explicit geometry,
// for tests that need precise control over layout.
package boxtest

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/geom"
)

// Element is one node of a Tree. Coordinates are absolute, in pixels.
type Element struct {
	Tag     string
	Classes []string
	Attrs   map[string]string
	Styles  map[string]string
	Text    string
	Hidden  bool
	// Pixels backs Raster for canvas-like elements.
	Pixels image.Image

	X, Y, W, H geom.Px

	Parent   *Element
	Children []*Element
}

// Tree is a box.Provider and box.Mutator over Elements.
type Tree struct {
	root *Element
}

// New creates a tree whose root has the given size.
func New(width, height geom.Px) *Tree {
	return &Tree{root: &Element{Tag: "div", W: width, H: height}}
}

// RootElement returns the root element.
func (t *Tree) RootElement() *Element { return t.root }

// Add appends a child element and returns it.
func (e *Element) Add(child *Element) *Element {
	child.Parent = e
	e.Children = append(e.Children, child)
	return child
}

// Box appends a child with the given classes and geometry.
func (e *Element) Box(x, y, w, h geom.Px, classes ...string) *Element {
	return e.Add(&Element{Tag: "div", Classes: classes, X: x, Y: y, W: w, H: h})
}

// Style sets a style property and returns the element.
func (e *Element) Style(property, value string) *Element {
	if e.Styles == nil {
		e.Styles = map[string]string{}
	}
	e.Styles[property] = value
	return e
}

func (e *Element) hasClass(c string) bool {
	return slices.Contains(e.Classes, c)
}

func el(n box.Node) *Element {
	e, ok := n.(*Element)
	if !ok {
		panic(fmt.Sprintf("boxtest: foreign node %T", n))
	}
	return e
}

// matches supports ".class", "tag" and "tag.class".
func (e *Element) matches(selector string) bool {
	for _, sel := range strings.Split(selector, ",") {
		sel = strings.TrimSpace(sel)
		tag, classes, _ := strings.Cut(sel, ".")
		if tag != "" && tag != e.Tag {
			continue
		}
		ok := true
		if classes != "" {
			for _, c := range strings.Split(classes, ".") {
				if !e.hasClass(c) {
					ok = false
				}
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (t *Tree) Root() box.Node { return t.root }

func (t *Tree) Select(n box.Node, selector string) ([]box.Node, error) {
	var out []box.Node
	var walk func(*Element)
	walk = func(cur *Element) {
		for _, c := range cur.Children {
			if c.matches(selector) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(el(n))
	return out, nil
}

func (t *Tree) Closest(n box.Node, selector string) (box.Node, bool) {
	for p := el(n).Parent; p != nil; p = p.Parent {
		if p.matches(selector) {
			return p, true
		}
	}
	return nil, false
}

func (t *Tree) Matches(n box.Node, selector string) bool { return el(n).matches(selector) }

func (t *Tree) Hidden(n box.Node) bool {
	for e := el(n); e != nil; e = e.Parent {
		if e.Hidden || e.hasClass("d-none") {
			return true
		}
	}
	return false
}

func (t *Tree) Position(n, ancestor box.Node) (geom.Px, geom.Px) {
	e, a := el(n), el(ancestor)
	return e.X - a.X, e.Y - a.Y
}

func (t *Tree) Width(n box.Node) geom.Px  { return el(n).W }
func (t *Tree) Height(n box.Node) geom.Px { return el(n).H }

var defaults = map[string]string{
	"background-color": "rgba(0, 0, 0, 0)",
	"background-image": "none",
	"color":            "rgb(0, 0, 0)",
	"font-family":      "Helvetica",
	"font-weight":      "400",
	"font-style":       "normal",
	"font-size":        "16px",
	"line-height":      "20px",
}

func (t *Tree) Style(n box.Node, property string) string {
	for e := el(n); e != nil; e = e.Parent {
		if v, ok := e.Styles[property]; ok {
			return v
		}
		if !inherited(property) {
			break
		}
	}
	if v, ok := defaults[property]; ok {
		return v
	}
	if strings.HasSuffix(property, "-style") {
		return "none"
	}
	return "0px"
}

func inherited(property string) bool {
	return property == "color" || strings.HasPrefix(property, "font-") || property == "line-height"
}

func (t *Tree) Tag(n box.Node) string { return el(n).Tag }

func (t *Tree) Attr(n box.Node, key string) (string, bool) {
	v, ok := el(n).Attrs[key]
	return v, ok
}

func (t *Tree) Text(n box.Node) string {
	e := el(n)
	if len(e.Children) == 0 {
		return e.Text
	}
	parts := []string{}
	if e.Text != "" {
		parts = append(parts, e.Text)
	}
	for _, c := range e.Children {
		if s := t.Text(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func (t *Tree) Append(parent box.Node, tag, class string) box.Node {
	return el(parent).Add(&Element{Tag: tag, Classes: []string{class}})
}

func (t *Tree) AddClass(n box.Node, class string) {
	e := el(n)
	if !e.hasClass(class) {
		e.Classes = append(e.Classes, class)
	}
}

func (t *Tree) RemoveClass(n box.Node, class string) {
	e := el(n)
	e.Classes = slices.DeleteFunc(e.Classes, func(c string) bool { return c == class })
}

// OuterHTML returns the "markup" attribute, which tests use to stand in for
// serialized drawables.
func (t *Tree) OuterHTML(n box.Node) (string, error) {
	if v, ok := el(n).Attrs["markup"]; ok {
		return v, nil
	}
	return "", fmt.Errorf("no markup for <%s>", el(n).Tag)
}

func (t *Tree) Raster(n box.Node) (image.Image, error) {
	if p := el(n).Pixels; p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("no pixels for <%s>", el(n).Tag)
}
