package review

import "regexp"

var (
	focusLinePattern = regexp.MustCompile(`AI-REVIEW-FOCUS:\s*(.*?)(?:\n|$)`)
	focusTagPattern  = regexp.MustCompile(`#(\w+)`)
)

// ParseFocusTags extracts review focus areas from a pull request description.
// Authors can steer a single review with a line such as
//
//	AI-REVIEW-FOCUS: #security #performance
//
// Returns nil when the marker is absent or carries no tags.
func ParseFocusTags(description string) []string {
	if description == "" {
		return nil
	}

	line := focusLinePattern.FindStringSubmatch(description)
	if line == nil {
		return nil
	}

	matches := focusTagPattern.FindAllStringSubmatch(line[1], -1)
	if len(matches) == 0 {
		return nil
	}

	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// ResolveFocus picks the focus areas for a review: tags from the PR body win
// over the configured defaults.
func ResolveFocus(description string, configured []string) []string {
	if tags := ParseFocusTags(description); len(tags) > 0 {
		return tags
	}
	return configured
}
