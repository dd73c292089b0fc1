// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

// Matches runs of whitespace (for collapsing into a single space).
var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeTagName converts user input into the canonical form a tag is
// stored and matched under. Matching against existing tags is done
// case-insensitively on top of this.
//
// Normalization rules:
//  1. Trim leading and trailing whitespace
//  2. Collapse internal whitespace runs into a single space
//
// Examples:
//
//	"  slow burn "    → "slow burn"
//	"slow    burn"    → "slow burn"
//	"Slow Burn"       → "Slow Burn"
func NormalizeTagName(input string) string {
	s := strings.TrimSpace(input)
	return whitespaceRe.ReplaceAllString(s, " ")
}
