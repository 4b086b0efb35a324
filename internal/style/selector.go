package style

import (
	"strings"
	"sync"

	"github.com/gompdf/boxpdf/internal/parser/html"
)

// compound is one simple selector sequence such as div#main.card[data-x].
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrSel
	// unsupported pseudo-classes make the selector match nothing
	never bool
}

type attrSel struct {
	key, val string
	hasVal   bool
}

// complexSelector is a chain of compounds joined by combinators, stored right
// to left.
type complexSelector struct {
	parts []compound
	// combs[i] joins parts[i] to parts[i+1]: ' ' descendant, '>' child
	combs []byte
	spec  Specificity
}

var selectorCache sync.Map // string -> []complexSelector

// parseSelectorList parses a comma separated selector group.
func parseSelectorList(s string) []complexSelector {
	if v, ok := selectorCache.Load(s); ok {
		return v.([]complexSelector)
	}
	var out []complexSelector
	for _, part := range strings.Split(s, ",") {
		if cs, ok := parseComplex(strings.TrimSpace(part)); ok {
			out = append(out, cs)
		}
	}
	selectorCache.Store(s, out)
	return out
}

func parseComplex(s string) (complexSelector, bool) {
	var parts []compound
	var combs []byte
	comb := byte(0)
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\n':
			if comb == 0 && len(parts) > 0 {
				comb = ' '
			}
			i++
		case c == '>':
			comb = '>'
			i++
		case c == '+' || c == '~':
			// sibling combinators are not supported
			return complexSelector{}, false
		default:
			j := i
			bracket := 0
			for j < len(s) {
				ch := s[j]
				if ch == '[' {
					bracket++
				} else if ch == ']' {
					bracket--
				} else if bracket == 0 && (ch == ' ' || ch == '>' || ch == '+' || ch == '~' || ch == '\t' || ch == '\n') {
					break
				}
				j++
			}
			cp, ok := parseCompound(s[i:j])
			if !ok {
				return complexSelector{}, false
			}
			if len(parts) > 0 {
				if comb == 0 {
					comb = ' '
				}
				combs = append(combs, comb)
			}
			parts = append(parts, cp)
			comb = 0
			i = j
		}
	}
	if len(parts) == 0 {
		return complexSelector{}, false
	}

	cs := complexSelector{}
	for k := len(parts) - 1; k >= 0; k-- {
		p := parts[k]
		cs.parts = append(cs.parts, p)
		cs.spec.ID += boolInt(p.id != "")
		cs.spec.Class += len(p.classes) + len(p.attrs)
		cs.spec.Element += boolInt(p.tag != "" && p.tag != "*")
	}
	for k := len(combs) - 1; k >= 0; k-- {
		cs.combs = append(cs.combs, combs[k])
	}
	return cs, true
}

func parseCompound(s string) (compound, bool) {
	var c compound
	i := 0
	name := func() string {
		j := i
		for j < len(s) && s[j] != '.' && s[j] != '#' && s[j] != '[' && s[j] != ':' {
			j++
		}
		v := s[i:j]
		i = j
		return v
	}
	if i < len(s) && s[i] != '.' && s[i] != '#' && s[i] != '[' && s[i] != ':' {
		c.tag = strings.ToLower(name())
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			c.classes = append(c.classes, name())
		case '#':
			i++
			c.id = name()
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, false
			}
			body := s[i+1 : i+end]
			i += end + 1
			key, val, hasVal := strings.Cut(body, "=")
			if hasVal && strings.ContainsAny(key, "~|^$*") {
				return c, false
			}
			c.attrs = append(c.attrs, attrSel{
				key:    strings.TrimSpace(key),
				val:    strings.Trim(strings.TrimSpace(val), `"'`),
				hasVal: hasVal,
			})
		case ':':
			i++
			for i < len(s) && s[i] == ':' {
				i++
			}
			pseudo := strings.ToLower(name())
			if pseudo != "root" && pseudo != "link" {
				c.never = true
			}
			if pseudo == "root" {
				c.tag = "html"
			}
		default:
			return c, false
		}
	}
	return c, true
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (c compound) matches(n *html.Node) bool {
	if c.never || !n.IsElement() {
		return false
	}
	if c.tag != "" && c.tag != "*" && c.tag != n.Data {
		return false
	}
	if c.id != "" {
		if id, _ := n.Attribute("id"); id != c.id {
			return false
		}
	}
	for _, cl := range c.classes {
		if !n.HasClass(cl) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := n.Attribute(a.key)
		if !ok || (a.hasVal && v != a.val) {
			return false
		}
	}
	return true
}

func (cs complexSelector) matches(n *html.Node) bool {
	if !cs.parts[0].matches(n) {
		return false
	}
	return cs.matchFrom(n, 1)
}

// matchFrom matches parts[k:] against the ancestors of n.
func (cs complexSelector) matchFrom(n *html.Node, k int) bool {
	if k == len(cs.parts) {
		return true
	}
	switch cs.combs[k-1] {
	case '>':
		p := n.Parent
		return p != nil && cs.parts[k].matches(p) && cs.matchFrom(p, k+1)
	default:
		for p := n.Parent; p != nil; p = p.Parent {
			if cs.parts[k].matches(p) && cs.matchFrom(p, k+1) {
				return true
			}
		}
		return false
	}
}

// Matches reports whether the element n matches any selector of the group.
// Supported: type, universal, id, class and attribute selectors joined with
// descendant or child combinators.
func Matches(n *html.Node, selector string) bool {
	for _, cs := range parseSelectorList(selector) {
		if cs.matches(n) {
			return true
		}
	}
	return false
}

// SelectorSpecificity returns the specificity of a single selector.
func SelectorSpecificity(selector string) (Specificity, bool) {
	list := parseSelectorList(selector)
	if len(list) != 1 {
		return Specificity{}, false
	}
	return list[0].spec, true
}
