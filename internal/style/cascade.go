package style

import (
	"go.uber.org/zap"

	"github.com/gompdf/boxpdf/internal/parser/css"
	"github.com/gompdf/boxpdf/internal/parser/html"
)

// Specificity represents the specificity of a CSS selector
type Specificity struct {
	ID      int
	Class   int
	Element int
}

// StyleProperty represents a computed style property
type StyleProperty struct {
	Name        string
	Value       string
	Important   bool
	Source      Source
	Specificity Specificity
}

// Source represents the source of a style property
type Source int

const (
	SourceUserAgent Source = iota
	SourceAuthor
	SourceInline
)

// ComputedStyle represents the cascaded style of an element. Inherited
// properties are not copied from the parent; see Inherited.
type ComputedStyle map[string]StyleProperty

// Value returns the cascaded value of a property, or "".
func (s ComputedStyle) Value(name string) string {
	return s[name].Value
}

// StyleEngine handles the CSS cascade and style computation
type StyleEngine struct {
	userAgentStyles *css.Stylesheet
	authorStyles    []*css.Stylesheet
	parser          *css.Parser
	log             *zap.Logger
}

// NewStyleEngine creates a new style engine
func NewStyleEngine(log *zap.Logger) *StyleEngine {
	if log == nil {
		log = zap.NewNop()
	}
	parser := css.NewParser(log)
	return &StyleEngine{
		userAgentStyles: defaultUserAgentStyles(parser),
		authorStyles:    []*css.Stylesheet{},
		parser:          parser,
		log:             log.Named("style"),
	}
}

// SetUserAgentStylesheet replaces the built-in user agent stylesheet.
func (e *StyleEngine) SetUserAgentStylesheet(stylesheet *css.Stylesheet) {
	e.userAgentStyles = stylesheet
}

// AddStylesheet adds an author stylesheet to the style engine
func (e *StyleEngine) AddStylesheet(stylesheet *css.Stylesheet) {
	e.authorStyles = append(e.authorStyles, stylesheet)
}

// ComputeStyles computes styles for all elements in the document
func (e *StyleEngine) ComputeStyles(root *html.Node) map[*html.Node]ComputedStyle {
	result := make(map[*html.Node]ComputedStyle)
	e.computeStylesRecursive(root, result)
	e.log.Debug("Computed styles", zap.Int("elements", len(result)))
	return result
}

// computeStylesRecursive computes styles for an element and its children
func (e *StyleEngine) computeStylesRecursive(node *html.Node, result map[*html.Node]ComputedStyle) {
	if node == nil {
		return
	}

	if node.IsElement() {
		result[node] = e.ComputeStyle(node)
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		e.computeStylesRecursive(child, result)
	}
}

// ComputeStyle computes the style for a single element
func (e *StyleEngine) ComputeStyle(node *html.Node) ComputedStyle {
	style := make(ComputedStyle)

	if e.userAgentStyles != nil {
		e.applyStylesheet(style, node, e.userAgentStyles, SourceUserAgent)
	}

	for _, stylesheet := range e.authorStyles {
		e.applyStylesheet(style, node, stylesheet, SourceAuthor)
	}

	e.applyInlineStyles(style, node)

	return style
}

// applyStylesheet applies styles from a stylesheet to an element
func (e *StyleEngine) applyStylesheet(style ComputedStyle, node *html.Node, stylesheet *css.Stylesheet, source Source) {
	for _, rule := range stylesheet.Rules {
		// the most specific matching selector of a group counts
		var best Specificity
		matched := false
		for _, selector := range rule.Selectors {
			for _, cs := range parseSelectorList(selector) {
				if cs.matches(node) && (!matched || compareSpecificity(cs.spec, best) > 0) {
					best = cs.spec
					matched = true
				}
			}
		}
		if matched {
			e.applyDeclarations(style, rule.Declarations, best, source)
		}
	}
}

// applyInlineStyles applies inline styles to an element
func (e *StyleEngine) applyInlineStyles(style ComputedStyle, node *html.Node) {
	if v, ok := node.Attribute("style"); ok {
		e.applyDeclarations(style, e.parser.ParseDeclarations(v), Specificity{}, SourceInline)
	}
}

// applyDeclarations applies CSS declarations to a style. Declarations are
// visited in source order, so a later one wins unless the existing one is
// important, comes from a stronger source, or has a higher specificity.
func (e *StyleEngine) applyDeclarations(style ComputedStyle, declarations []*css.Declaration, specificity Specificity, source Source) {
	for _, decl := range declarations {
		for _, long := range Expand(decl) {
			existing, exists := style[long.Property]
			if exists && !wins(long.Important, source, specificity, existing) {
				continue
			}
			style[long.Property] = StyleProperty{
				Name:        long.Property,
				Value:       long.Value,
				Important:   long.Important,
				Source:      source,
				Specificity: specificity,
			}
		}
	}
}

func wins(important bool, source Source, spec Specificity, existing StyleProperty) bool {
	if important != existing.Important {
		return important
	}
	if source != existing.Source {
		// important declarations of the user agent beat authors, as in CSS
		if important && source == SourceUserAgent {
			return true
		}
		return source > existing.Source
	}
	return compareSpecificity(spec, existing.Specificity) >= 0
}

// compareSpecificity compares two specificities
func compareSpecificity(a, b Specificity) int {
	if a.ID != b.ID {
		return a.ID - b.ID
	}
	if a.Class != b.Class {
		return a.Class - b.Class
	}
	return a.Element - b.Element
}

// defaultUserAgentStyles returns the default user agent stylesheet
func defaultUserAgentStyles(parser *css.Parser) *css.Stylesheet {
	stylesheet, _ := parser.ParseString(DefaultUserAgentCSS)
	return stylesheet
}

// DefaultUserAgentCSS is the built-in user agent stylesheet.
const DefaultUserAgentCSS = `
	head, style, script, title, meta, link, template { display: none; }
	html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, table, tr, td, th,
	thead, tbody, tfoot, section, article, header, footer, nav, main, aside,
	figure, figcaption, blockquote, pre, hr, form, fieldset, dl, dt, dd { display: block; }
	span, a, b, strong, i, em, small, code, label, sup, sub, u, s { display: inline; }
	body { margin: 8px; font-family: Helvetica; font-size: 16px; line-height: 1.15; color: #000; }
	h1 { font-size: 2em; margin: 0.67em 0; font-weight: bold; }
	h2 { font-size: 1.5em; margin: 0.75em 0; font-weight: bold; }
	h3 { font-size: 1.17em; margin: 0.83em 0; font-weight: bold; }
	h4 { margin: 1.12em 0; font-weight: bold; }
	h5 { font-size: 0.83em; margin: 1.5em 0; font-weight: bold; }
	h6 { font-size: 0.75em; margin: 1.67em 0; font-weight: bold; }
	p { margin: 1em 0; }
	ul, ol { margin: 1em 0; padding-left: 40px; }
	a { color: #0000EE; }
	b, strong, th { font-weight: bold; }
	i, em { font-style: italic; }
	pre, code { font-family: Courier; }
	hr { border-top: 1px solid #888; margin: 0.5em 0; }
	table { border-spacing: 2px; }
	th, td { padding: 4px; }
`

var inheritedProperties = map[string]bool{
	"color":       true,
	"font-family": true,
	"font-size":   true,
	"font-style":  true,
	"font-weight": true,
	"line-height": true,
	"text-align":  true,
	"white-space": true,
	"visibility":  true,
	"direction":   true,
}

// Inherited reports whether a property takes its parent's value when it is
// not set on the element.
func Inherited(property string) bool {
	return inheritedProperties[property]
}
