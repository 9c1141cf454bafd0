// Package actions detects the GitHub Actions runtime environment.
package actions

import (
	"os"
	"regexp"
	"strconv"
)

var pullRequestRefPattern = regexp.MustCompile(`refs/pull/(\d+)/merge`)

// Environment carries the repository and pull request identity provided by
// the Actions runner.
type Environment struct {
	Repository string
	PRNumber   int
}

// Detected reports whether the process runs inside a GitHub Actions job.
func Detected() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// FromEnvironment reads the repository slug and pull request number from the
// runner's variables. Fields missing from the environment stay zero; callers
// decide whether that is fatal.
func FromEnvironment() Environment {
	env := Environment{
		Repository: os.Getenv("GITHUB_REPOSITORY"),
	}

	if matches := pullRequestRefPattern.FindStringSubmatch(os.Getenv("GITHUB_REF")); len(matches) > 1 {
		if n, err := strconv.Atoi(matches[1]); err == nil {
			env.PRNumber = n
		}
	}

	return env
}
