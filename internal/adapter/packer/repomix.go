// Package packer bundles changed files into a single document via the
// repomix CLI.
package packer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aireview/ai-pr-reviewer/internal/usecase/review"
)

// runner executes a prepared command. Swappable in tests.
type runner func(cmd *exec.Cmd) error

// Repomix runs `npx repomix` against a checkout and returns the packed
// output.
type Repomix struct {
	repoDir string
	style   string
	logger  logrus.FieldLogger
	run     runner
}

// NewRepomix creates a packer rooted at repoDir. Style selects the repomix
// output format (xml, markdown or plain).
func NewRepomix(repoDir, style string, logger logrus.FieldLogger) *Repomix {
	if style == "" {
		style = "xml"
	}
	return &Repomix{
		repoDir: repoDir,
		style:   style,
		logger:  logger,
		run:     func(cmd *exec.Cmd) error { return cmd.Run() },
	}
}

// CheckInstalled reports whether repomix can be invoked through npx.
func (r *Repomix) CheckInstalled(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "npx", "repomix", "--version")
	cmd.Dir = r.repoDir
	return r.run(cmd) == nil
}

// Pack generates the packed document for the requested files. Explicit
// include/exclude patterns take precedence over the file list.
func (r *Repomix) Pack(ctx context.Context, req review.PackRequest) (string, error) {
	tempDir, err := os.MkdirTemp("", "aipr-repomix-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	outputPath := filepath.Join(tempDir, "repo."+r.style)

	args := []string{"repomix", "--style", r.style, "--output", outputPath}

	include := req.IncludePatterns
	if include == "" && len(req.Files) > 0 {
		include = strings.Join(req.Files, ",")
	}
	if include != "" {
		args = append(args, "--include", include)
	}
	if req.ExcludePatterns != "" {
		args = append(args, "--ignore", req.ExcludePatterns)
	}

	cmd := exec.CommandContext(ctx, "npx", args...)
	cmd.Dir = r.repoDir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	r.logger.WithFields(logrus.Fields{
		"style":   r.style,
		"include": include,
		"exclude": req.ExcludePatterns,
	}).Debug("running repomix")

	if err := r.run(cmd); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("repomix: %w: %s", err, msg)
		}
		return "", fmt.Errorf("repomix: %w", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		return "", fmt.Errorf("repomix produced no output: %w", err)
	}

	return string(content), nil
}
