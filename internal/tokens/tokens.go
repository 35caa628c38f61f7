// ABOUTME: Deterministic token estimation shared by tiering and budgeting
// ABOUTME: Uses the 4-tokens-per-3-words approximation; no model tokenizer involved
package tokens

import "strings"

// Estimate returns a deterministic token count for text.
// One token is approximately 0.75 words, so tokens = ceil(words * 4 / 3).
// The same input always yields the same count, which keeps tier decisions
// stable across processes.
func Estimate(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return (words*4 + 2) / 3
}

// WordsFor converts a token budget to the equivalent word budget under the
// same approximation. Used by the chunker and the budgeter so that both
// sides of the estimate agree.
func WordsFor(tokenCount int) int {
	if tokenCount <= 0 {
		return 0
	}
	return tokenCount * 3 / 4
}

// Truncate cuts text at a word boundary so that Estimate(result) <= maxTokens.
// Returns the input unchanged when it already fits.
func Truncate(text string, maxTokens int) string {
	if Estimate(text) <= maxTokens {
		return text
	}

	words := strings.Fields(text)
	keep := WordsFor(maxTokens)
	if keep <= 0 {
		return ""
	}
	if keep > len(words) {
		keep = len(words)
	}
	return strings.Join(words[:keep], " ")
}
