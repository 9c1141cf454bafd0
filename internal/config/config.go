package config

// Config represents the full application configuration, loaded from an
// .ai-review.yml file overlaid on built-in defaults.
type Config struct {
	ReviewFocus []string        `mapstructure:"review_focus" yaml:"review_focus"`
	AI          AIConfig        `mapstructure:"ai" yaml:"ai"`
	GitHub      GitHubConfig    `mapstructure:"github" yaml:"github"`
	Repomix     RepomixConfig   `mapstructure:"repomix" yaml:"repomix"`
	HTTP        HTTPConfig      `mapstructure:"http" yaml:"http"`
	Store       StoreConfig     `mapstructure:"store" yaml:"store"`
	Output      OutputConfig    `mapstructure:"output" yaml:"output"`
	Logging     LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Redaction   RedactionConfig `mapstructure:"redaction" yaml:"redaction"`
}

// AIConfig configures the AI provider.
type AIConfig struct {
	Model string `mapstructure:"model" yaml:"model"`

	// MaxTokens caps the provider's response length.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`

	// MaxContextTokens caps how much packed code is sent with the prompt.
	MaxContextTokens int `mapstructure:"max_context_tokens" yaml:"max_context_tokens"`

	// APIKey is usually left empty in the file and supplied via
	// AI_API_KEY; ${VAR} references are expanded at load time.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// GitHubConfig controls how the review is delivered to the pull request.
//
// comment_type selects between a plain issue comment ("issue") and a formal
// review ("review"); comment_placement selects PR-level ("pr") or line-level
// ("line") delivery. The two keys overlap historically and are OR-ed: a
// summary comment posts when either asks for PR-level output and a line
// review posts when either asks for line-level output.
type GitHubConfig struct {
	CommentType      string `mapstructure:"comment_type" yaml:"comment_type"`
	CommentPlacement string `mapstructure:"comment_placement" yaml:"comment_placement"`
	BaseURL          string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// PostSummaryComment reports whether a PR-level comment should be posted.
func (g GitHubConfig) PostSummaryComment() bool {
	return g.CommentType == "issue" || g.CommentPlacement == "pr"
}

// PostLineReview reports whether a line-level review should be posted.
func (g GitHubConfig) PostLineReview() bool {
	return g.CommentType == "review" || g.CommentPlacement == "line"
}

// RepomixConfig configures the repomix packing step.
type RepomixConfig struct {
	Style           string `mapstructure:"style" yaml:"style"`
	IncludePatterns string `mapstructure:"include_patterns" yaml:"include_patterns,omitempty"`
	ExcludePatterns string `mapstructure:"exclude_patterns" yaml:"exclude_patterns,omitempty"`
}

// HTTPConfig holds shared HTTP client settings for outbound API calls.
type HTTPConfig struct {
	Timeout           string  `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries        int     `mapstructure:"max_retries" yaml:"max_retries"`
	InitialBackoff    string  `mapstructure:"initial_backoff" yaml:"initial_backoff"`
	MaxBackoff        string  `mapstructure:"max_backoff" yaml:"max_backoff"`
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier" yaml:"backoff_multiplier"`
}

// StoreConfig configures the review-run history database.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// OutputConfig configures local artifacts. When Directory is set, a Markdown
// report is written there for every completed review.
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory,omitempty"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "human", "json", or "auto". Auto picks JSON when stdout
	// is not a terminal, which covers CI runners.
	Format string `mapstructure:"format" yaml:"format"`
}

// RedactionConfig toggles secret scrubbing of packed code before it is sent
// to the AI provider.
type RedactionConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}
