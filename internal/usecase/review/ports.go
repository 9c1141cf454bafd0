package review

import (
	"context"
	"time"

	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

// ProviderRequest is the outbound payload for an AI provider.
type ProviderRequest struct {
	Prompt    string
	MaxTokens int
}

// Provider generates a review for a prompt.
type Provider interface {
	Review(ctx context.Context, req ProviderRequest) (domain.Review, error)
	Model() string
}

// GitHubClient covers the pull request operations the pipeline needs.
// Comment formatting happens behind this port so the pipeline only deals in
// domain reviews.
type GitHubClient interface {
	GetPullRequest(ctx context.Context, number int) (domain.PullRequest, error)
	ListChangedFiles(ctx context.Context, number int) ([]string, error)
	PostSummaryComment(ctx context.Context, number int, review domain.Review) error

	// PostLineReview posts a formal review with inline comments for the
	// anchored suggestions. Returns false without posting when no
	// suggestion carries a usable file/line anchor.
	PostLineReview(ctx context.Context, number int, commitSHA string, review domain.Review) (bool, error)
}

// PackRequest asks the packer to bundle the given files. Include/exclude
// patterns override the configured ones when non-empty.
type PackRequest struct {
	Files           []string
	IncludePatterns string
	ExcludePatterns string
}

// Packer produces a single-document representation of the changed files.
type Packer interface {
	Pack(ctx context.Context, req PackRequest) (string, error)
}

// Redactor scrubs secrets from packed content before it leaves the process.
type Redactor interface {
	Redact(input string) (string, error)
}

// Run records one completed review for the history store.
type Run struct {
	ID          string
	Repository  string
	PRNumber    int
	CommitSHA   string
	Model       string
	Assessment  string
	Suggestions int
	CreatedAt   time.Time
}

// Store persists review runs and answers whether a commit was already
// reviewed.
type Store interface {
	RecordRun(ctx context.Context, run Run) error
	LastRun(ctx context.Context, repository string, prNumber int) (*Run, error)
	Close() error
}

// JSONWriter dumps the review to an explicit file path.
type JSONWriter interface {
	Write(ctx context.Context, path string, review domain.Review) error
}

// MarkdownWriter persists a local Markdown artifact for a completed review.
type MarkdownWriter interface {
	Write(ctx context.Context, artifact domain.MarkdownArtifact) (string, error)
}

// GitEngine reads the checked-out workspace when API data is incomplete.
type GitEngine interface {
	HeadCommit() (string, error)
}

// CommentRouting selects which delivery channels are active.
type CommentRouting struct {
	Summary bool
	Line    bool
}
