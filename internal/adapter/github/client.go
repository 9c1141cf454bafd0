// Package github adapts the GitHub REST API to the review pipeline's pull
// request port.
package github

import (
	"context"
	"fmt"
	"net/http"

	github_ratelimit "github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

const changedFilesPerPage = 100

// Client talks to the GitHub API for a single repository.
type Client struct {
	client *gh.Client
	owner  string
	repo   string
}

// NewClient builds a client for owner/repo. The rate limit middleware wraps
// the authenticated transport so primary and secondary limits pause requests
// instead of failing them. A non-default baseURL targets GitHub Enterprise.
func NewClient(token, baseURL, owner, repo string) (*Client, error) {
	var transport http.RoundTripper
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}

	client := gh.NewClient(github_ratelimit.NewClient(transport))
	if baseURL != "" && baseURL != "https://api.github.com" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("set github base url: %w", err)
		}
	}

	return &Client{client: client, owner: owner, repo: repo}, nil
}

// GetPullRequest fetches the pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, number int) (domain.PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("get pull request #%d: %w", number, err)
	}

	return domain.PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		HeadSHA: pr.GetHead().GetSHA(),
		BaseRef: pr.GetBase().GetRef(),
		State:   pr.GetState(),
	}, nil
}

// ListChangedFiles returns the paths changed by the pull request, walking
// every page. Removed files are skipped since they no longer exist in the
// checkout and cannot be packed.
func (c *Client) ListChangedFiles(ctx context.Context, number int) ([]string, error) {
	opts := &gh.ListOptions{PerPage: changedFilesPerPage}

	var files []string
	for {
		page, resp, err := c.client.PullRequests.ListFiles(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list changed files for #%d: %w", number, err)
		}
		for _, f := range page {
			if f.GetStatus() == "removed" {
				continue
			}
			files = append(files, f.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

// PostSummaryComment posts the full review as one issue comment on the pull
// request conversation.
func (c *Client) PostSummaryComment(ctx context.Context, number int, review domain.Review) error {
	comment := &gh.IssueComment{Body: gh.Ptr(BuildSummaryComment(review))}
	if _, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, comment); err != nil {
		return fmt.Errorf("post summary comment on #%d: %w", number, err)
	}
	return nil
}

// PostLineReview posts a pull request review with one inline comment per
// anchored suggestion. Returns false without calling the API when no
// suggestion carries a usable file/line anchor.
func (c *Client) PostLineReview(ctx context.Context, number int, commitSHA string, review domain.Review) (bool, error) {
	var comments []*gh.DraftReviewComment
	for _, suggestion := range review.Suggestions {
		if !suggestion.Anchored() {
			continue
		}
		line, _ := suggestion.Line.StartLine()
		comments = append(comments, &gh.DraftReviewComment{
			Path: gh.Ptr(suggestion.File),
			Line: gh.Ptr(line),
			Side: gh.Ptr("RIGHT"),
			Body: gh.Ptr(BuildLineComment(suggestion)),
		})
	}
	if len(comments) == 0 {
		return false, nil
	}

	reviewReq := &gh.PullRequestReviewRequest{
		Body:     gh.Ptr(BuildReviewBody(review)),
		Event:    gh.Ptr("COMMENT"),
		Comments: comments,
	}
	if commitSHA != "" {
		reviewReq.CommitID = gh.Ptr(commitSHA)
	}

	if _, _, err := c.client.PullRequests.CreateReview(ctx, c.owner, c.repo, number, reviewReq); err != nil {
		return false, fmt.Errorf("post line review on #%d: %w", number, err)
	}
	return true, nil
}
