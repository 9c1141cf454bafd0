package markdown_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aireview/ai-pr-reviewer/internal/adapter/output/markdown"
	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

func fixedClock() string { return "20260101-120000" }

func TestWriteCreatesReport(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "reviews")

	artifact := domain.MarkdownArtifact{
		OutputDir:  outputDir,
		Repository: "someorg/somerepo",
		PRNumber:   42,
		Review: domain.Review{
			Summary:           "Two issues found.",
			OverallAssessment: domain.AssessmentNeedsImprovement,
			Suggestions: []domain.Suggestion{
				{
					File:        "internal/db/db.go",
					Line:        "88-95",
					Severity:    domain.SeverityHigh,
					Category:    "security",
					Description: "Unparameterised query",
					Suggestion:  "Use placeholders.",
				},
			},
		},
	}

	path, err := markdown.NewWriter(fixedClock).Write(context.Background(), artifact)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outputDir, "someorg-somerepo_pr42_20260101-120000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Code Review Report\n"))
	assert.Contains(t, content, "- Repository: someorg/somerepo")
	assert.Contains(t, content, "- Pull Request: #42")
	assert.Contains(t, content, "- Assessment: needs_improvement")
	assert.Contains(t, content, "## Summary\n\nTwo issues found.")
	assert.Contains(t, content, "### Unparameterised query (High)")
	assert.Contains(t, content, "- File: internal/db/db.go:88-95")
	assert.Contains(t, content, "- Suggestion: Use placeholders.")
}

func TestWriteNoSuggestions(t *testing.T) {
	artifact := domain.MarkdownArtifact{
		OutputDir:  t.TempDir(),
		Repository: "someorg/somerepo",
		PRNumber:   7,
		Review: domain.Review{
			Summary:           "Clean change.",
			OverallAssessment: domain.AssessmentGood,
		},
	}

	path, err := markdown.NewWriter(fixedClock).Write(context.Background(), artifact)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No suggestions reported.")
	assert.NotContains(t, string(data), "## Suggestions")
}

func TestWriteSanitisesEmptyRepository(t *testing.T) {
	artifact := domain.MarkdownArtifact{
		OutputDir: t.TempDir(),
		PRNumber:  1,
		Review:    domain.Review{Summary: "s"},
	}

	path, err := markdown.NewWriter(fixedClock).Write(context.Background(), artifact)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "unknown_pr1_")
}
