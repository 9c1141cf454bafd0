package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aireview/ai-pr-reviewer/internal/config"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	cfg, err := config.Load(config.LoaderOptions{ConfigPaths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, []string{"code_quality", "architecture", "security", "performance", "maintainability"}, cfg.ReviewFocus)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.AI.Model)
	assert.Equal(t, 4000, cfg.AI.MaxTokens)
	assert.Equal(t, "issue", cfg.GitHub.CommentType)
	assert.Equal(t, "pr", cfg.GitHub.CommentPlacement)
	assert.Equal(t, "xml", cfg.Repomix.Style)
	assert.Equal(t, 5, cfg.HTTP.MaxRetries)
	assert.True(t, cfg.Store.Enabled)
	assert.True(t, cfg.Redaction.Enabled)
	assert.Equal(t, "auto", cfg.Logging.Format)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
review_focus:
  - security
ai:
  model: claude-3-5-sonnet-20241022
github:
  comment_type: review
  comment_placement: line
repomix:
  exclude_patterns: "vendor/**,*.lock"
`
	path := filepath.Join(dir, config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(config.LoaderOptions{ConfigPaths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, []string{"security"}, cfg.ReviewFocus)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.AI.Model)
	// Untouched keys keep their defaults.
	assert.Equal(t, 4000, cfg.AI.MaxTokens)
	assert.Equal(t, "review", cfg.GitHub.CommentType)
	assert.Equal(t, "vendor/**,*.lock", cfg.Repomix.ExcludePatterns)
}

func TestLoadExplicitPathMissingFileFails(t *testing.T) {
	_, err := config.Load(config.LoaderOptions{
		ConfigPath: filepath.Join(t.TempDir(), "nope.yml"),
	})
	require.Error(t, err)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_AIPR_MODEL", "claude-3-opus-20240229")
	t.Setenv("TEST_AIPR_KEY", "sk-ant-test")

	dir := t.TempDir()
	content := `
ai:
  model: ${TEST_AIPR_MODEL}
  api_key: $TEST_AIPR_KEY
store:
  path: ${TEST_AIPR_UNSET_VARIABLE}/reviews.db
`
	path := filepath.Join(dir, config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(config.LoaderOptions{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "claude-3-opus-20240229", cfg.AI.Model)
	assert.Equal(t, "sk-ant-test", cfg.AI.APIKey)
	// Unset variables stay verbatim rather than collapsing to "".
	assert.Equal(t, "${TEST_AIPR_UNSET_VARIABLE}/reviews.db", cfg.Store.Path)
}

func TestCommentRouting(t *testing.T) {
	cases := []struct {
		name        string
		cfg         config.GitHubConfig
		wantSummary bool
		wantLine    bool
	}{
		{"defaults", config.GitHubConfig{CommentType: "issue", CommentPlacement: "pr"}, true, false},
		{"formal line review", config.GitHubConfig{CommentType: "review", CommentPlacement: "line"}, false, true},
		{"both via mixed keys", config.GitHubConfig{CommentType: "issue", CommentPlacement: "line"}, true, true},
		{"both via mixed keys reversed", config.GitHubConfig{CommentType: "review", CommentPlacement: "pr"}, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantSummary, tc.cfg.PostSummaryComment())
			assert.Equal(t, tc.wantLine, tc.cfg.PostLineReview())
		})
	}
}

func TestWriteExampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yml")

	written, err := config.WriteExample(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	// The generated file must load back through the regular loader.
	cfg, err := config.Load(config.LoaderOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.Contains(t, cfg.ReviewFocus, "best_practices")
	assert.Equal(t, "claude-3-haiku-20240307", cfg.AI.Model)
}
