// Package text normalizes free text into query terms and expands them
// through a static synonym table.
package text

import (
	"regexp"
	"strings"
)

// Token runs are Latin letters or Devanagari (U+0900-U+097F); everything
// else separates.
var (
	reToken      = regexp.MustCompile(`[a-zA-Z\x{0900}-\x{097F}]+`)
	reDevanagari = regexp.MustCompile(`[\x{0900}-\x{097F}]`)
)

// Tokenize splits text into ordered lowercase alphabetic tokens.
func Tokenize(text string) []string {
	return reToken.FindAllString(strings.ToLower(text), -1)
}

// HasDevanagari reports whether text contains any Devanagari rune.
func HasDevanagari(text string) bool {
	return reDevanagari.MatchString(text)
}

// TokenSet returns the tokens of text as a membership set.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}
