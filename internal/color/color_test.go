package color

import (
	"regexp"
	"testing"
)

var hexRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestForUser_Deterministic(t *testing.T) {
	a := ForUser("user_abc123")
	b := ForUser("user_abc123")
	if a != b {
		t.Errorf("same user got different colors: %s vs %s", a, b)
	}
	if !hexRe.MatchString(a) {
		t.Errorf("not a hex color: %s", a)
	}
}

func TestForUser_VariesByUser(t *testing.T) {
	if ForUser("user_one") == ForUser("user_two") {
		t.Error("expected different users to get different colors")
	}
}

func TestTagHex(t *testing.T) {
	for i := range len(tagPalette) {
		if !hexRe.MatchString(TagHex(i)) {
			t.Errorf("palette index %d: not a hex color: %s", i, TagHex(i))
		}
	}

	// Out-of-range indexes clamp to the first entry.
	if TagHex(-1) != tagPalette[0] || TagHex(99) != tagPalette[0] {
		t.Error("out-of-range index should map to the first palette entry")
	}
}
