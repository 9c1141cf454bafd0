package review

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

// OrchestratorDeps captures the collaborators for the review pipeline.
type OrchestratorDeps struct {
	GitHub   GitHubClient
	Packer   Packer
	Provider Provider
	Redactor Redactor // optional
	Store    Store    // optional
	JSON     JSONWriter
	Markdown MarkdownWriter
	Git      GitEngine // optional, head commit fallback
	Logger   logrus.FieldLogger

	Routing          CommentRouting
	ReviewFocus      []string
	MaxTokens        int
	MaxContextTokens int
	OutputDir        string

	// TruncateFunc trims packed content to a token budget.
	TruncateFunc func(text string, maxTokens int) string

	// Now supplies timestamps; injectable for tests.
	Now func() time.Time
}

// Orchestrator drives a single pull request review end to end.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator wires the pipeline dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Orchestrator{deps: deps}
}

// Request identifies the pull request to review.
type Request struct {
	Owner  string
	Repo   string
	Number int

	// OutputPath, when set, receives the review as indented JSON.
	OutputPath string

	// Force reviews the PR even if its head commit was already reviewed.
	Force bool

	// IncludePatterns / ExcludePatterns override the configured repomix
	// patterns for this run.
	IncludePatterns string
	ExcludePatterns string
}

// Result reports what the pipeline did.
type Result struct {
	Skipped          bool
	SkipReason       string
	Review           domain.Review
	SummaryPosted    bool
	LineReviewPosted bool
	ArtifactPath     string
}

// ReviewPullRequest runs the full pipeline: fetch, pack, analyze, publish.
func (o *Orchestrator) ReviewPullRequest(ctx context.Context, req Request) (Result, error) {
	deps := o.deps
	slug := fmt.Sprintf("%s/%s", req.Owner, req.Repo)
	log := deps.Logger.WithFields(logrus.Fields{"repo": slug, "pr": req.Number})

	log.Info("fetching pull request")
	pr, err := deps.GitHub.GetPullRequest(ctx, req.Number)
	if err != nil {
		return Result{}, fmt.Errorf("get pull request: %w", err)
	}

	log.Info("listing changed files")
	files, err := deps.GitHub.ListChangedFiles(ctx, req.Number)
	if err != nil {
		return Result{}, fmt.Errorf("list changed files: %w", err)
	}
	if len(files) == 0 {
		log.Warn("no changed files in pull request, nothing to review")
		return Result{Skipped: true, SkipReason: "no changed files"}, nil
	}

	headSHA := pr.HeadSHA
	if headSHA == "" && deps.Git != nil {
		if sha, gitErr := deps.Git.HeadCommit(); gitErr == nil {
			headSHA = sha
		} else {
			log.WithError(gitErr).Debug("workspace head commit unavailable")
		}
	}

	if !req.Force && deps.Store != nil && headSHA != "" {
		last, storeErr := deps.Store.LastRun(ctx, slug, req.Number)
		if storeErr != nil {
			log.WithError(storeErr).Warn("review history lookup failed")
		} else if last != nil && last.CommitSHA == headSHA {
			log.WithField("commit", headSHA).Info("head commit already reviewed, skipping")
			return Result{Skipped: true, SkipReason: "head commit already reviewed"}, nil
		}
	}

	focus := ResolveFocus(pr.Body, deps.ReviewFocus)
	log.WithField("focus", focus).Info("review focus resolved")

	log.WithField("files", len(files)).Info("packing changed files")
	packed, err := deps.Packer.Pack(ctx, PackRequest{
		Files:           files,
		IncludePatterns: req.IncludePatterns,
		ExcludePatterns: req.ExcludePatterns,
	})
	if err != nil {
		return Result{}, fmt.Errorf("pack changed files: %w", err)
	}

	if deps.Redactor != nil {
		packed, err = deps.Redactor.Redact(packed)
		if err != nil {
			return Result{}, fmt.Errorf("redact packed content: %w", err)
		}
	}

	if deps.TruncateFunc != nil && deps.MaxContextTokens > 0 {
		truncated := deps.TruncateFunc(packed, deps.MaxContextTokens)
		if len(truncated) < len(packed) {
			log.WithField("max_tokens", deps.MaxContextTokens).Warn("packed content truncated to context budget")
		}
		packed = truncated
	}

	prompt := BuildPrompt(PromptInput{
		Repository:  slug,
		Title:       pr.Title,
		Description: pr.Body,
		FocusAreas:  focus,
		Code:        packed,
	})

	log.WithField("model", deps.Provider.Model()).Info("analyzing code with AI provider")
	reviewResult, err := deps.Provider.Review(ctx, ProviderRequest{
		Prompt:    prompt,
		MaxTokens: deps.MaxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("analyze code: %w", err)
	}

	result := Result{Review: reviewResult}

	if req.OutputPath != "" && deps.JSON != nil {
		if err := deps.JSON.Write(ctx, req.OutputPath, reviewResult); err != nil {
			return result, fmt.Errorf("write review output: %w", err)
		}
		log.WithField("path", req.OutputPath).Info("review saved")
	}

	if deps.OutputDir != "" && deps.Markdown != nil {
		path, mdErr := deps.Markdown.Write(ctx, domain.MarkdownArtifact{
			OutputDir:  deps.OutputDir,
			Repository: slug,
			PRNumber:   req.Number,
			Review:     reviewResult,
		})
		if mdErr != nil {
			log.WithError(mdErr).Warn("markdown artifact not written")
		} else {
			result.ArtifactPath = path
		}
	}

	if deps.Routing.Summary {
		if err := deps.GitHub.PostSummaryComment(ctx, req.Number, reviewResult); err != nil {
			return result, fmt.Errorf("post summary comment: %w", err)
		}
		result.SummaryPosted = true
		log.Info("summary comment posted")
	}

	if deps.Routing.Line {
		posted, err := deps.GitHub.PostLineReview(ctx, req.Number, headSHA, reviewResult)
		if err != nil {
			return result, fmt.Errorf("post line review: %w", err)
		}
		result.LineReviewPosted = posted
		if posted {
			log.Info("line review posted")
		} else {
			log.Info("no line-anchored suggestions, line review skipped")
		}
	}

	if deps.Store != nil {
		run := Run{
			ID:          newRunID(),
			Repository:  slug,
			PRNumber:    req.Number,
			CommitSHA:   headSHA,
			Model:       deps.Provider.Model(),
			Assessment:  reviewResult.OverallAssessment,
			Suggestions: len(reviewResult.Suggestions),
			CreatedAt:   deps.Now().UTC(),
		}
		if err := deps.Store.RecordRun(ctx, run); err != nil {
			log.WithError(err).Warn("review run not recorded")
		}
	}

	log.Info("code review completed")
	return result, nil
}

func newRunID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
