package html

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Node types callers compare Node.Type against.
const (
	ElementNode = html.ElementNode
	TextNode    = html.TextNode
)

// Parser represents an HTML parser
type Parser struct{}

// Node represents an HTML node in the document tree
type Node struct {
	Type        html.NodeType
	Data        string
	Attr        []html.Attribute
	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// Document represents a parsed HTML document
type Document struct {
	Root *Node
}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseString parses HTML from a string
func (p *Parser) ParseString(content string) (*Document, error) {
	return p.parse(strings.NewReader(content))
}

// Parse parses HTML from an io.Reader. The encoding is detected from a BOM,
// a <meta> declaration or the content itself.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	return p.ParseContentType(r, "")
}

// ParseContentType parses HTML served with the given Content-Type header.
func (p *Parser) ParseContentType(r io.Reader, contentType string) (*Document, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect charset: %w", err)
	}
	return p.parse(cr)
}

func (p *Parser) parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{Root: convertNode(node, nil)}, nil
}

// convertNode converts an html.Node to our Node structure
func convertNode(n *html.Node, parent *Node) *Node {
	if n == nil {
		return nil
	}

	node := &Node{
		Type:   n.Type,
		Data:   n.Data,
		Attr:   n.Attr,
		Parent: parent,
	}

	var lastChild *Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		child := convertNode(c, node)
		if node.FirstChild == nil {
			node.FirstChild = child
		}
		if lastChild != nil {
			lastChild.NextSibling = child
			child.PrevSibling = lastChild
		}
		lastChild = child
	}
	node.LastChild = lastChild

	return node
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{Type: html.ElementNode, Data: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(s string) *Node {
	return &Node{Type: html.TextNode, Data: s}
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	c.PrevSibling = n.LastChild
	c.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
}

// IsElement reports whether n is an element with one of the given tags; with
// no tags any element matches.
func (n *Node) IsElement(tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return len(tags) == 0 || slices.Contains(tags, n.Data)
}

// Attribute returns the value of the attribute key.
func (n *Node) Attribute(key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets or replaces the attribute key.
func (n *Node) SetAttribute(key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Classes returns the class list of n.
func (n *Node) Classes() []string {
	v, _ := n.Attribute("class")
	return strings.Fields(v)
}

// HasClass reports whether n carries class c.
func (n *Node) HasClass(c string) bool {
	return slices.Contains(n.Classes(), c)
}

// AddClass adds c to the class list if it is missing.
func (n *Node) AddClass(c string) {
	classes := n.Classes()
	if slices.Contains(classes, c) {
		return
	}
	n.SetAttribute("class", strings.Join(append(classes, c), " "))
}

// RemoveClass removes every occurrence of c from the class list.
func (n *Node) RemoveClass(c string) {
	classes := slices.DeleteFunc(n.Classes(), func(s string) bool { return s == c })
	n.SetAttribute("class", strings.Join(classes, " "))
}

// Find returns the first element with the given tag in document order.
func (n *Node) Find(tag string) *Node {
	if n.IsElement(tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := c.Find(tag); f != nil {
			return f
		}
	}
	return nil
}

// Body returns the <body> element, or the root when there is none.
func (d *Document) Body() *Node {
	if b := d.Root.Find(atom.Body.String()); b != nil {
		return b
	}
	return d.Root
}

// Title returns the trimmed text of the <title> element.
func (d *Document) Title() string {
	t := d.Root.Find(atom.Title.String())
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(t.FirstChild.Data)
}

// Render renders the document back to HTML
func (d *Document) Render() (string, error) {
	return Render(d.Root)
}

// Render serializes n and its subtree.
func Render(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(n)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toHTML rebuilds a detached x/net/html tree from n.
func toHTML(n *Node) *html.Node {
	if n == nil {
		return nil
	}
	node := &html.Node{
		Type: n.Type,
		Data: n.Data,
		Attr: n.Attr,
	}
	if n.Type == html.ElementNode {
		node.DataAtom = atom.Lookup([]byte(n.Data))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		node.AppendChild(toHTML(c))
	}
	return node
}
