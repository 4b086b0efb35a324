package text

import "golang.org/x/text/unicode/bidi"

// Direction represents text direction
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// DirectionOf returns the direction of the first strong character of s.
// Text without strong characters is left to right.
func DirectionOf(s string) Direction {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}

// IsRTL checks if a string contains right-to-left text
func IsRTL(s string) bool {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		if c := p.Class(); c == bidi.R || c == bidi.AL {
			return true
		}
	}
	return false
}
