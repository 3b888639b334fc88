package core

import "strings"

// EstimateTokens gives a rough token count: one token per four characters,
// with a word-count floor. Used when a provider reports no usage, and for
// the composed-variant cost proxy so both variants stay comparable.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	byChars := len(text) / 4
	byWords := len(strings.Fields(text))
	if byWords > byChars {
		return byWords
	}
	return byChars
}
