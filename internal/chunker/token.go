package chunker

import "strings"

// CountWords counts runs of non-whitespace, the unit of a word budget.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateTokens gives a rough token count for a request payload.
// Exact tokenization is not required; the number only feeds logs and stats.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 1.33 tokens per English word.
	tokens := int(float64(CountWords(text)) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
