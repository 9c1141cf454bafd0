// Package git reads the local checkout backing the review.
package git

import (
	"fmt"
	"regexp"
	"strings"

	goGit "github.com/go-git/go-git/v5"
)

// Engine implements the GitEngine port backed by go-git.
type Engine struct {
	repoDir string
}

// NewEngine constructs a Git engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// HeadCommit returns the hash of the commit HEAD points at.
func (e *Engine) HeadCommit() (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// OriginSlug returns the owner/repo slug of the origin remote, or an error
// when the remote is missing or not a GitHub-style URL.
func (e *Engine) OriginSlug() (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("resolve origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}

	slug, err := ParseRemoteSlug(urls[0])
	if err != nil {
		return "", err
	}
	return slug, nil
}

var remoteSlugPattern = regexp.MustCompile(`[:/]([^:/]+/[^:/]+?)(?:\.git)?$`)

// ParseRemoteSlug extracts owner/repo from an HTTPS or SSH remote URL.
func ParseRemoteSlug(url string) (string, error) {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	matches := remoteSlugPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("cannot parse remote URL %q", url)
	}
	return matches[1], nil
}
