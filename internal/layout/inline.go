package layout

import (
	"strings"

	"github.com/gompdf/boxpdf/internal/box"
	"github.com/gompdf/boxpdf/internal/parser/html"
	"github.com/gompdf/boxpdf/internal/text"
)

// inlineRun represents a contiguous text run with a specific style
type inlineRun struct {
	text string
	font FontSpec
	lh   float64
	hard bool // forced line break
}

// token is a measured word of a run.
type token struct {
	width float64
	space float64 // width of the space before the token, 0 at run starts without space
	lh    float64
	hard  bool
}

// layoutInline lays out an inline formatting context made of nodes and
// returns its height. Inline elements of the context share its rectangle.
func (e *Engine) layoutInline(s *state, parent *Box, nodes []*html.Node, x, y, width float64) float64 {
	var runs []inlineRun
	var elems []*html.Node
	for _, n := range nodes {
		e.collectInlineRuns(s, n, &runs, &elems)
	}
	lines, height := e.wrap(runs, width, lineHeight(parent.Style))
	if lines == 0 {
		return 0
	}
	parent.Lines += lines

	for _, n := range elems {
		b := &Box{Node: n, Style: s.computed[n], X: x, Y: y, Width: width, Height: height, Lines: lines}
		parent.addChild(b)
		s.boxes[n] = b
	}
	return height
}

// collectInlineRuns traverses inline content, collecting text runs with the
// font of their parent element.
func (e *Engine) collectInlineRuns(s *state, n *html.Node, out *[]inlineRun, elems *[]*html.Node) {
	switch {
	case n.Type == html.TextNode:
		c := s.computed[n.Parent]
		if c == nil {
			return
		}
		if pre := c["white-space"]; pre == "pre" || pre == "pre-wrap" || pre == "pre-line" {
			for i, line := range strings.Split(n.Data, "\n") {
				if i > 0 {
					*out = append(*out, inlineRun{hard: true, lh: lineHeight(c)})
				}
				*out = append(*out, inlineRun{text: text.CollapseSpace(line), font: fontOf(c), lh: lineHeight(c)})
			}
			return
		}
		*out = append(*out, inlineRun{text: text.CollapseSpace(n.Data), font: fontOf(c), lh: lineHeight(c)})
	case n.IsElement():
		c := s.computed[n]
		if c["display"] == "none" {
			return
		}
		*elems = append(*elems, n)
		if n.Data == "br" {
			*out = append(*out, inlineRun{hard: true, lh: lineHeight(c)})
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			e.collectInlineRuns(s, ch, out, elems)
		}
	}
}

// wrap breaks runs into lines of at most width and returns the line count
// and total height. Words wider than a line get a line of their own.
func (e *Engine) wrap(runs []inlineRun, width, defaultLH float64) (int, float64) {
	var tokens []token
	pendingSpace := false
	for _, r := range runs {
		if r.hard {
			tokens = append(tokens, token{hard: true, lh: r.lh})
			pendingSpace = false
			continue
		}
		words := strings.Split(r.text, " ")
		for i, w := range words {
			if i > 0 {
				pendingSpace = true
			}
			if w == "" {
				continue
			}
			t := token{width: e.measure.StringWidth(w, r.font), lh: r.lh}
			if pendingSpace {
				t.space = e.measure.StringWidth(" ", r.font)
			}
			tokens = append(tokens, t)
			pendingSpace = false
		}
	}

	lines := 0
	height := 0.0
	lineWidth, lineLH := 0.0, 0.0
	open := false
	emit := func() {
		if lineLH == 0 {
			lineLH = defaultLH
		}
		lines++
		height += lineLH
		lineWidth, lineLH, open = 0, 0, false
	}
	for _, t := range tokens {
		if t.hard {
			lineLH = max(lineLH, t.lh)
			emit()
			continue
		}
		if open && lineWidth+t.space+t.width > width {
			emit()
		}
		if open {
			lineWidth += t.space
		}
		lineWidth += t.width
		lineLH = max(lineLH, t.lh)
		open = true
	}
	if open {
		emit()
	}
	return lines, height
}

func fontOf(c Computed) FontSpec {
	return FontSpec{
		Family: box.FirstFamily(c["font-family"]),
		Weight: box.NormalizeWeight(c["font-weight"]),
		Style:  c["font-style"],
		Size:   parseLength(c["font-size"], 16, 16, 16),
	}
}

func lineHeight(c Computed) float64 {
	size := parseLength(c["font-size"], 16, 16, 16)
	return parseLength(c["line-height"], size, size, 1.15*size)
}
