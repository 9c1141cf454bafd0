package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aireview/ai-pr-reviewer/internal/adapter/cli"
	"github.com/aireview/ai-pr-reviewer/internal/adapter/git"
	githubadapter "github.com/aireview/ai-pr-reviewer/internal/adapter/github"
	"github.com/aireview/ai-pr-reviewer/internal/adapter/llm"
	"github.com/aireview/ai-pr-reviewer/internal/adapter/llm/anthropic"
	llmhttp "github.com/aireview/ai-pr-reviewer/internal/adapter/llm/http"
	jsonout "github.com/aireview/ai-pr-reviewer/internal/adapter/output/json"
	"github.com/aireview/ai-pr-reviewer/internal/adapter/output/markdown"
	"github.com/aireview/ai-pr-reviewer/internal/adapter/packer"
	"github.com/aireview/ai-pr-reviewer/internal/adapter/store/sqlite"
	"github.com/aireview/ai-pr-reviewer/internal/config"
	"github.com/aireview/ai-pr-reviewer/internal/redaction"
	"github.com/aireview/ai-pr-reviewer/internal/usecase/review"
	"github.com/aireview/ai-pr-reviewer/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		logrus.StandardLogger().Error(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPath:  configPathFromArgs(os.Args[1:]),
		ConfigPaths: defaultConfigPaths(),
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := buildLogger(cfg.Logging)

	repoDir := "."
	gitEngine := git.NewEngine(repoDir)

	defaultRepository := ""
	if slug, slugErr := gitEngine.OriginSlug(); slugErr == nil {
		defaultRepository = slug
	}

	root := cli.NewRootCommand(cli.Dependencies{
		RunReview: func(ctx context.Context, params cli.ReviewParams) error {
			return runReview(ctx, cfg, logger, gitEngine, repoDir, params)
		},
		WriteExampleConfig: func(path string) error {
			_, err := config.WriteExample(path)
			return err
		},
		DefaultRepository: defaultRepository,
		Version:           version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

func runReview(ctx context.Context, cfg config.Config, logger *logrus.Logger, gitEngine *git.Engine, repoDir string, params cli.ReviewParams) error {
	githubClient, err := githubadapter.NewClient(params.Token, cfg.GitHub.BaseURL, params.Owner, params.Repo)
	if err != nil {
		return fmt.Errorf("github client: %w", err)
	}

	anthropicClient := anthropic.NewHTTPClient(params.AIKey)
	if timeout, parseErr := time.ParseDuration(cfg.HTTP.Timeout); parseErr == nil {
		anthropicClient.SetTimeout(timeout)
	}
	anthropicClient.SetRetryConfig(retryConfig(cfg.HTTP))
	provider := anthropic.NewProvider(cfg.AI.Model, anthropicClient)

	repomix := packer.NewRepomix(repoDir, cfg.Repomix.Style, logger)
	if !repomix.CheckInstalled(ctx) {
		logger.Warn("repomix not found via npx, packing may fail; install with: npm install -g repomix")
	}

	var redactor review.Redactor
	if cfg.Redaction.Enabled {
		redactor = redaction.NewEngine()
	}

	var runStore review.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if mkErr := os.MkdirAll(storeDir, 0o755); mkErr != nil {
			logger.WithError(mkErr).Warn("store directory not created, run history disabled")
		} else if sqliteStore, storeErr := sqlite.NewStore(cfg.Store.Path); storeErr != nil {
			logger.WithError(storeErr).Warn("store not initialized, run history disabled")
		} else {
			runStore = sqliteStore
			defer runStore.Close()
		}
	}

	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	includePatterns := params.IncludePatterns
	if includePatterns == "" {
		includePatterns = cfg.Repomix.IncludePatterns
	}
	excludePatterns := params.ExcludePatterns
	if excludePatterns == "" {
		excludePatterns = cfg.Repomix.ExcludePatterns
	}

	orchestrator := review.NewOrchestrator(review.OrchestratorDeps{
		GitHub:   githubClient,
		Packer:   repomix,
		Provider: provider,
		Redactor: redactor,
		Store:    runStore,
		JSON:     jsonout.NewWriter(),
		Markdown: markdown.NewWriter(nowFunc),
		Git:      gitEngine,
		Logger:   logger,
		Routing: review.CommentRouting{
			Summary: cfg.GitHub.PostSummaryComment(),
			Line:    cfg.GitHub.PostLineReview(),
		},
		ReviewFocus:      cfg.ReviewFocus,
		MaxTokens:        cfg.AI.MaxTokens,
		MaxContextTokens: cfg.AI.MaxContextTokens,
		OutputDir:        cfg.Output.Directory,
		TruncateFunc:     llm.TruncateToTokens,
	})

	result, err := orchestrator.ReviewPullRequest(ctx, review.Request{
		Owner:           params.Owner,
		Repo:            params.Repo,
		Number:          params.Number,
		OutputPath:      params.OutputPath,
		Force:           params.Force,
		IncludePatterns: includePatterns,
		ExcludePatterns: excludePatterns,
	})
	if err != nil {
		return err
	}

	if result.Skipped {
		logger.WithField("reason", result.SkipReason).Info("review skipped")
	}
	return nil
}

func buildLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	useJSON := cfg.Format == "json" || (cfg.Format == "auto" && !review.IsOutputTerminal())
	if useJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

func retryConfig(cfg config.HTTPConfig) llmhttp.RetryConfig {
	conf := llmhttp.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		conf.MaxRetries = cfg.MaxRetries
	}
	if d, err := time.ParseDuration(cfg.InitialBackoff); err == nil {
		conf.InitialBackoff = d
	}
	if d, err := time.ParseDuration(cfg.MaxBackoff); err == nil {
		conf.MaxBackoff = d
	}
	if cfg.BackoffMultiplier > 0 {
		conf.Multiplier = cfg.BackoffMultiplier
	}
	return conf
}

// configPathFromArgs pre-scans for --config so the file can be loaded before
// cobra parses flags. Only the review command consumes the loaded config;
// `init --config` names a destination, not a source.
func configPathFromArgs(args []string) string {
	subcommand := ""
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			subcommand = arg
			break
		}
	}
	if subcommand != "review" {
		return ""
	}

	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "aipr"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ review.GitEngine = (*git.Engine)(nil)
var _ review.GitHubClient = (*githubadapter.Client)(nil)
var _ review.Provider = (*anthropic.Provider)(nil)
var _ review.Packer = (*packer.Repomix)(nil)
var _ review.Redactor = (*redaction.Engine)(nil)
var _ review.Store = (*sqlite.Store)(nil)
var _ review.JSONWriter = (*jsonout.Writer)(nil)
var _ review.MarkdownWriter = (*markdown.Writer)(nil)
