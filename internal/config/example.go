package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExampleFileName is where WriteExample places the generated sample config.
const ExampleFileName = ".ai-review.yml.example"

// Example returns a fully populated configuration suitable for the generated
// sample file.
func Example() Config {
	return Config{
		ReviewFocus: []string{
			"code_quality",
			"architecture",
			"security",
			"performance",
			"maintainability",
			"best_practices",
		},
		AI: AIConfig{
			Model:            "claude-3-haiku-20240307",
			MaxTokens:        4000,
			MaxContextTokens: 25000,
			APIKey:           "${AI_API_KEY}",
		},
		GitHub: GitHubConfig{
			CommentType:      "issue",
			CommentPlacement: "pr",
		},
		Repomix: RepomixConfig{
			Style: "xml",
		},
		HTTP: HTTPConfig{
			Timeout:           "120s",
			MaxRetries:        5,
			InitialBackoff:    "2s",
			MaxBackoff:        "32s",
			BackoffMultiplier: 2.0,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    defaultStorePath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		Redaction: RedactionConfig{
			Enabled: true,
		},
	}
}

// WriteExample writes the sample configuration to path. An empty path selects
// ExampleFileName in the working directory.
func WriteExample(path string) (string, error) {
	if path == "" {
		path = ExampleFileName
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return "", fmt.Errorf("marshal example config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write example config: %w", err)
	}

	return path, nil
}
