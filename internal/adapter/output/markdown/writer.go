// Package markdown renders review results into local Markdown reports.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

type clock func() string

// Writer renders reviews into Markdown files.
type Writer struct {
	now clock
}

// NewWriter constructs a Markdown writer with a timestamp supplier.
func NewWriter(now clock) *Writer {
	return &Writer{now: now}
}

// Write persists a Markdown artifact to disk and returns its path.
func (w *Writer) Write(ctx context.Context, artifact domain.MarkdownArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s_pr%d_%s.md",
		sanitise(artifact.Repository),
		artifact.PRNumber,
		w.now(),
	)
	path := filepath.Join(artifact.OutputDir, filename)

	content := buildContent(artifact)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func buildContent(artifact domain.MarkdownArtifact) string {
	var builder strings.Builder
	caser := cases.Title(language.English)

	builder.WriteString("# Code Review Report\n\n")
	builder.WriteString(fmt.Sprintf("- Repository: %s\n", artifact.Repository))
	builder.WriteString(fmt.Sprintf("- Pull Request: #%d\n", artifact.PRNumber))
	builder.WriteString(fmt.Sprintf("- Assessment: %s\n\n", artifact.Review.OverallAssessment))
	builder.WriteString("## Summary\n\n")
	builder.WriteString(artifact.Review.Summary)
	builder.WriteString("\n\n")

	if len(artifact.Review.Suggestions) == 0 {
		builder.WriteString("No suggestions reported.\n")
		return builder.String()
	}

	builder.WriteString("## Suggestions\n\n")
	for _, suggestion := range artifact.Review.Suggestions {
		builder.WriteString(fmt.Sprintf("### %s (%s)\n", suggestion.Description, caser.String(suggestion.Severity)))
		if suggestion.File != "" {
			if suggestion.Line != "" {
				builder.WriteString(fmt.Sprintf("- File: %s:%s\n", suggestion.File, suggestion.Line))
			} else {
				builder.WriteString(fmt.Sprintf("- File: %s\n", suggestion.File))
			}
		}
		builder.WriteString(fmt.Sprintf("- Category: %s\n", suggestion.Category))
		if suggestion.Suggestion != "" {
			builder.WriteString(fmt.Sprintf("- Suggestion: %s\n", suggestion.Suggestion))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

func sanitise(value string) string {
	if value == "" {
		return "unknown"
	}
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "/", "-")
	value = strings.ReplaceAll(value, string(filepath.Separator), "-")
	value = strings.ReplaceAll(value, " ", "-")
	return value
}
