// Package text holds the text helpers shared by layout and rendering.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CollapseSpace collapses runs of white space into a single space, the way
// CSS white-space: normal does. Leading and trailing space is kept as one
// space so that adjacent inline runs can be joined.
func CollapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize returns s in NFC with collapsed white space and no leading or
// trailing space.
func Normalize(s string) string {
	return strings.TrimSpace(CollapseSpace(norm.NFC.String(s)))
}

// Lines splits text at hard line breaks and normalizes every line, dropping
// lines that end up empty.
func Lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = Normalize(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
