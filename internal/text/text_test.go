package text

import (
	"slices"
	"testing"
)

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a  b", "a b"},
		{"\n\ta\t\tb\n", " a b "},
		{"", ""},
		{"   ", " "},
	}
	for _, tt := range tests {
		if got := CollapseSpace(tt.in); got != tt.want {
			t.Errorf("CollapseSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	// e + combining acute composes to a single rune
	if got := Normalize("  cafe\u0301 \n au  lait "); got != "caf\u00e9 au lait" {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestLines(t *testing.T) {
	got := Lines("Title\n\n  first   line \n\t\nsecond")
	want := []string{"Title", "first line", "second"}
	if !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		in  string
		rtl bool
		dir Direction
	}{
		{"hello", false, LeftToRight},
		{"שלום", true, RightToLeft},
		{"123 مرحبا", true, RightToLeft},
		{"abc مرحبا", true, LeftToRight},
		{"42", false, LeftToRight},
	}
	for _, tt := range tests {
		if got := IsRTL(tt.in); got != tt.rtl {
			t.Errorf("IsRTL(%q) = %v", tt.in, got)
		}
		if got := DirectionOf(tt.in); got != tt.dir {
			t.Errorf("DirectionOf(%q) = %v", tt.in, got)
		}
	}
}
