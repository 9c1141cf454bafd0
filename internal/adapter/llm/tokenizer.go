// Package llm provides LLM provider adapters.
package llm

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

var (
	defaultEncoder *tiktoken.Tiktoken
	encoderOnce    sync.Once
	encoderErr     error
)

// getEncoder returns the shared tiktoken encoder, initializing it lazily.
// Uses cl100k_base encoding, which is a reasonable approximation for modern
// LLMs including Claude.
func getEncoder() (*tiktoken.Tiktoken, error) {
	encoderOnce.Do(func() {
		defaultEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return defaultEncoder, encoderErr
}

// EstimateTokens returns an estimated token count for the given text using
// the cl100k_base encoding. Falls back to a chars/4 estimate if the encoder
// is unavailable.
func EstimateTokens(text string) int {
	enc, err := getEncoder()
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// TruncateToTokens cuts text down to at most maxTokens tokens. Text already
// within budget is returned unchanged. With the chars/4 fallback in effect
// the cut lands on the nearest rune boundary at or below 4*maxTokens bytes.
func TruncateToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}

	enc, err := getEncoder()
	if err != nil {
		return truncateBytes(text, maxTokens*4)
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return enc.Decode(tokens[:maxTokens])
}

// truncateBytes cuts at the nearest rune boundary at or below limit so a
// multi-byte rune is never split.
func truncateBytes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
