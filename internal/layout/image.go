package layout

import (
	"strconv"
	"strings"

	"github.com/gompdf/boxpdf/internal/parser/html"
)

// isReplaced reports whether n is sized from its content rather than laid out
// in flow.
func isReplaced(n *html.Node) bool {
	return n.IsElement("img", "canvas", "svg")
}

// replacedSize returns the content size of a replaced element. cssW and cssH
// are negative when not set; avail bounds an unconstrained width.
func (e *Engine) replacedSize(n *html.Node, cssW, cssH, avail float64) (float64, float64) {
	iw, ih, ok := e.intrinsicSize(n)
	w, h := cssW, cssH
	switch {
	case w >= 0 && h >= 0:
	case w >= 0:
		h = 0
		if ok && iw > 0 {
			h = w * ih / iw
		}
	case h >= 0:
		w = 0
		if ok && ih > 0 {
			w = h * iw / ih
		}
	case ok:
		w, h = iw, ih
	}
	if w > avail && avail > 0 && cssW < 0 {
		if w > 0 {
			h = h * avail / w
		}
		w = avail
	}
	return max(w, 0), max(h, 0)
}

// intrinsicSize reads the size from attributes, the svg viewBox or the image
// itself.
func (e *Engine) intrinsicSize(n *html.Node) (float64, float64, bool) {
	aw, wok := attrLength(n, "width")
	ah, hok := attrLength(n, "height")
	if wok && hok {
		return aw, ah, true
	}

	var iw, ih float64
	ok := false
	switch n.Data {
	case "img":
		if src, has := n.Attribute("src"); has && e.options.ImageSize != nil {
			iw, ih, ok = e.options.ImageSize(src)
		}
	case "svg":
		if vb, has := n.Attribute("viewBox"); has {
			f := strings.Fields(strings.ReplaceAll(vb, ",", " "))
			if len(f) == 4 {
				vw, err1 := strconv.ParseFloat(f[2], 64)
				vh, err2 := strconv.ParseFloat(f[3], 64)
				ok = err1 == nil && err2 == nil && vw > 0 && vh > 0
				iw, ih = vw, vh
			}
		}
		if !ok {
			iw, ih, ok = 300, 150, true
		}
	case "canvas":
		iw, ih, ok = 300, 150, true
	}

	switch {
	case wok && ok && iw > 0:
		return aw, aw * ih / iw, true
	case hok && ok && ih > 0:
		return ah * iw / ih, ah, true
	case wok || hok:
		return aw, ah, true
	}
	return iw, ih, ok
}

func attrLength(n *html.Node, key string) (float64, bool) {
	v, ok := n.Attribute(key)
	if !ok {
		return 0, false
	}
	f := parseLength(v, 0, 16, -1)
	return f, f >= 0
}
