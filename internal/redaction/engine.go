// Package redaction scrubs secrets from packed code before it leaves the
// process.
package redaction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Engine performs regex-based secret detection and redaction.
type Engine struct {
	patterns []*regexp.Regexp
}

// NewEngine creates a new redaction engine with default secret patterns.
func NewEngine() *Engine {
	return &Engine{
		patterns: defaultPatterns(),
	}
}

// Redact scans input for secrets and replaces them with stable placeholders.
// The same secret always maps to the same placeholder so the AI can still
// see that two occurrences are the same value.
func (e *Engine) Redact(input string) (string, error) {
	result := input
	seenSecrets := make(map[string]string)

	for _, pattern := range e.patterns {
		matches := pattern.FindAllString(result, -1)
		for _, match := range matches {
			if _, seen := seenSecrets[match]; seen {
				continue
			}
			seenSecrets[match] = placeholderFor(match)
		}
	}

	for secret, placeholder := range seenSecrets {
		result = strings.ReplaceAll(result, secret, placeholder)
	}

	return result, nil
}

// IsRedacted checks if the content contains redaction placeholders.
func (e *Engine) IsRedacted(content string) bool {
	return strings.Contains(content, "<REDACTED:")
}

func placeholderFor(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("<REDACTED:%s>", hex.EncodeToString(hash[:])[:8])
}

// PassThrough satisfies the redactor port without touching the content, for
// runs where redaction is disabled.
type PassThrough struct{}

// Redact returns the input unchanged.
func (PassThrough) Redact(input string) (string, error) {
	return input, nil
}

func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// Anthropic API keys (must precede the generic sk- pattern)
		`sk-ant-[a-zA-Z0-9\-]{20,}`,
		// OpenAI API keys
		`sk-[a-zA-Z0-9]{20,}`,
		// AWS Access Key ID
		`AKIA[0-9A-Z]{16}`,
		// AWS Secret Access Key (high-entropy value near an aws keyword)
		`aws.{0,20}?['\"][0-9a-zA-Z/+]{40}['\"]`,
		// GitHub tokens
		`gh[posr]_[a-zA-Z0-9]{20,}`,
		// Google API keys
		`AIza[0-9A-Za-z\-_]{35}`,
		// JWT tokens
		`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`,
		// Private keys (PEM format)
		`-----BEGIN\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----`,
		// Slack tokens
		`xox[baprs]-[a-zA-Z0-9\-]{10,}`,
		// Generic bearer tokens
		`Bearer\s+[a-zA-Z0-9_\-\.]+`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}

	return compiled
}
