package json_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonout "github.com/aireview/ai-pr-reviewer/internal/adapter/output/json"
	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

func TestWriteCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "review.json")

	review := domain.Review{
		Summary:           "All good.",
		OverallAssessment: domain.AssessmentGood,
		Suggestions: []domain.Suggestion{
			{File: "a.go", Line: "7", Severity: domain.SeverityLow, Category: "style", Description: "d"},
		},
	}

	require.NoError(t, jsonout.NewWriter().Write(context.Background(), path, review))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.Review
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, review, decoded)
}

func TestWriteUsesSnakeCaseKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.json")

	review := domain.Review{
		Summary:           "s",
		OverallAssessment: domain.AssessmentNeedsImprovement,
		RawResponse:       "raw",
	}
	require.NoError(t, jsonout.NewWriter().Write(context.Background(), path, review))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"overall_assessment"`)
	assert.Contains(t, string(data), `"raw_response"`)
}

func TestWriteInvalidPath(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be created as a file.
	err := jsonout.NewWriter().Write(context.Background(), dir, domain.Review{})
	require.Error(t, err)
}
