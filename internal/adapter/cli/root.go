// Package cli wires the cobra command surface of the reviewer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aireview/ai-pr-reviewer/internal/adapter/actions"
	"github.com/aireview/ai-pr-reviewer/internal/config"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ReviewParams carries the fully resolved inputs for one review run.
type ReviewParams struct {
	Owner  string
	Repo   string
	Number int

	Token string
	AIKey string

	OutputPath      string
	IncludePatterns string
	ExcludePatterns string
	Force           bool
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	// RunReview executes the review pipeline with resolved parameters.
	RunReview func(ctx context.Context, params ReviewParams) error

	// WriteExampleConfig persists the example configuration file.
	WriteExampleConfig func(path string) error

	Args Arguments

	// DefaultRepository is the owner/name fallback when neither --repo nor
	// the Actions environment supplies one (typically the git origin).
	DefaultRepository string

	Version string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "aipr",
		Short: "AI-assisted pull request reviewer",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(reviewCommand(deps))
	root.AddCommand(initCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func reviewCommand(deps Dependencies) *cobra.Command {
	var repository string
	var prNumber int
	var token string
	var aiKey string
	var configPath string
	var outputPath string
	var includePatterns string
	var excludePatterns string
	var force bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a pull request and post the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// GITHUB_REPOSITORY/GITHUB_REF only count inside an
			// Actions job; a developer shell may carry stale values.
			var env actions.Environment
			if actions.Detected() {
				env = actions.FromEnvironment()
			}

			resolvedRepo := repository
			if resolvedRepo == "" {
				resolvedRepo = env.Repository
			}
			if resolvedRepo == "" {
				resolvedRepo = deps.DefaultRepository
			}
			if resolvedRepo == "" {
				return fmt.Errorf("repository not specified; pass --repo or set GITHUB_REPOSITORY")
			}

			owner, repo, err := splitRepository(resolvedRepo)
			if err != nil {
				return err
			}

			resolvedNumber := prNumber
			if resolvedNumber == 0 {
				resolvedNumber = env.PRNumber
			}
			if resolvedNumber <= 0 {
				return fmt.Errorf("pull request number not specified; pass --pr or run on a pull_request event")
			}

			resolvedToken := token
			if resolvedToken == "" {
				resolvedToken = os.Getenv("GITHUB_TOKEN")
			}
			if resolvedToken == "" {
				return fmt.Errorf("GitHub token not specified; pass --token or set GITHUB_TOKEN")
			}

			resolvedKey := aiKey
			if resolvedKey == "" {
				resolvedKey = os.Getenv("AI_API_KEY")
			}
			if resolvedKey == "" {
				resolvedKey = os.Getenv("ANTHROPIC_API_KEY")
			}
			if resolvedKey == "" {
				return fmt.Errorf("AI API key not specified; pass --ai-key or set AI_API_KEY")
			}

			return deps.RunReview(cmd.Context(), ReviewParams{
				Owner:           owner,
				Repo:            repo,
				Number:          resolvedNumber,
				Token:           resolvedToken,
				AIKey:           resolvedKey,
				OutputPath:      outputPath,
				IncludePatterns: includePatterns,
				ExcludePatterns: excludePatterns,
				Force:           force,
			})
		},
	}

	cmd.Flags().StringVar(&repository, "repo", "", "Repository as owner/name (defaults to the Actions environment)")
	cmd.Flags().IntVar(&prNumber, "pr", 0, "Pull request number (defaults to the Actions environment)")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token (defaults to GITHUB_TOKEN)")
	cmd.Flags().StringVar(&aiKey, "ai-key", "", "AI provider API key (defaults to AI_API_KEY, then ANTHROPIC_API_KEY)")
	// The host process reads --config from os.Args before cobra runs; the
	// flag is declared here so it parses and shows in help.
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write the review as JSON to this file")
	cmd.Flags().StringVar(&includePatterns, "include", "", "Comma-separated file patterns to include (overrides config)")
	cmd.Flags().StringVar(&excludePatterns, "exclude", "", "Comma-separated file patterns to exclude (overrides config)")
	cmd.Flags().BoolVar(&force, "force", false, "Review even if the head commit was already reviewed")

	return cmd
}

func initCommand(deps Dependencies) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.WriteExampleConfig(path); err != nil {
				return fmt.Errorf("write example config: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "config", config.ExampleFileName, "Destination for the example configuration")

	return cmd
}

func splitRepository(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be owner/name, got %q", slug)
	}
	return parts[0], parts[1], nil
}
