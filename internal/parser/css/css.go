package css

import (
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser represents a CSS parser
type Parser struct {
	log *zap.Logger
}

// Rule represents a CSS rule
type Rule struct {
	Selectors    []string
	Declarations []*Declaration
}

// Declaration represents a CSS declaration (property-value pair)
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []*Rule
}

// NewParser creates a new CSS parser
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// ParseString parses CSS from a string
func (p *Parser) ParseString(content string) (*Stylesheet, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses CSS from an io.Reader. Rules inside @media blocks are kept when
// the query targets the screen; other at-rules are skipped.
func (p *Parser) Parse(r io.Reader) (*Stylesheet, error) {
	sheet := &Stylesheet{Rules: []*Rule{}}
	parser := css.NewParser(parse.NewInput(r), false)

	// one entry per open at-rule block; false when its content is ignored
	var blocks []bool
	active := func() bool {
		for _, b := range blocks {
			if !b {
				return false
			}
		}
		return true
	}

	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
				continue
			}
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return sheet, err
			}
			return sheet, nil

		case css.BeginAtRuleGrammar:
			rule := string(data)
			ok := false
			if rule == "@media" {
				ok = mediaApplies(tokensString(parser.Values()))
			}
			if !ok {
				p.log.Debug("Skipping @-rule", zap.String("rule", rule))
			}
			blocks = append(blocks, ok)

		case css.EndAtRuleGrammar:
			if len(blocks) > 0 {
				blocks = blocks[:len(blocks)-1]
			}

		case css.BeginRulesetGrammar:
			selectors := splitSelectors(tokensString(parser.Values()))
			decls := p.declarations(parser)
			if active() && len(selectors) > 0 {
				sheet.Rules = append(sheet.Rules, &Rule{Selectors: selectors, Declarations: decls})
			}
		}
	}
}

// ParseDeclarations parses the content of a style attribute.
func (p *Parser) ParseDeclarations(inline string) []*Declaration {
	parser := css.NewParser(parse.NewInputString(inline), true)
	var out []*Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() {
				continue
			}
			return out
		case css.DeclarationGrammar:
			if d := declaration(data, parser.Values()); d != nil {
				out = append(out, d)
			}
		}
	}
}

// declarations reads declarations until the end of the current ruleset.
func (p *Parser) declarations(parser *css.Parser) []*Declaration {
	out := []*Declaration{}
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.EndRulesetGrammar:
			return out
		case css.ErrorGrammar:
			if parser.HasParseError() {
				p.log.Debug("CSS declaration error", zap.Error(parser.Err()))
				continue
			}
			return out
		case css.DeclarationGrammar:
			if d := declaration(data, parser.Values()); d != nil {
				out = append(out, d)
			}
		}
	}
}

func declaration(name []byte, values []css.Token) *Declaration {
	important := false
	// strip a trailing "!important"
	n := len(values)
	for n > 0 && values[n-1].TokenType == css.WhitespaceToken {
		n--
	}
	if n >= 2 && values[n-1].TokenType == css.IdentToken &&
		strings.EqualFold(string(values[n-1].Data), "important") &&
		values[n-2].TokenType == css.DelimToken && string(values[n-2].Data) == "!" {
		important = true
		values = values[:n-2]
	}
	value := strings.TrimSpace(tokensString(values))
	if value == "" {
		return nil
	}
	return &Declaration{
		Property:  strings.ToLower(string(name)),
		Value:     value,
		Important: important,
	}
}

func tokensString(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return sb.String()
}

// splitSelectors splits a selector group at top-level commas.
func splitSelectors(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if sel := strings.TrimSpace(s[start:i]); sel != "" {
					out = append(out, sel)
				}
				start = i + 1
			}
		}
	}
	if sel := strings.TrimSpace(s[start:]); sel != "" {
		out = append(out, sel)
	}
	return out
}

// mediaApplies reports whether a media query list matches a screen.
// Media features are not evaluated.
func mediaApplies(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, q := range strings.Split(query, ",") {
		q = strings.TrimSpace(q)
		negate := false
		if rest, ok := strings.CutPrefix(q, "not "); ok {
			negate, q = true, rest
		}
		q = strings.TrimPrefix(q, "only ")
		kind, _, _ := strings.Cut(q, " ")
		screen := strings.HasPrefix(q, "(") || kind == "all" || kind == "screen"
		if screen != negate {
			return true
		}
	}
	return false
}
