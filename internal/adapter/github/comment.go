package github

import (
	"fmt"
	"strings"

	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

const commentFooter = "*Generated automatically by the AI code review tool*"

// BuildSummaryComment renders the full review as a single Markdown issue
// comment.
func BuildSummaryComment(review domain.Review) string {
	var b strings.Builder

	b.WriteString("# AI Code Review\n\n")
	fmt.Fprintf(&b, "**Overall Assessment**: %s\n\n", assessmentOrDefault(review.OverallAssessment))
	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", summaryOrDefault(review.Summary))

	if len(review.Suggestions) > 0 {
		b.WriteString("## Detailed Suggestions\n\n")
		for i, suggestion := range review.Suggestions {
			category := suggestion.Category
			if category == "" {
				category = "comment"
			}
			severity := suggestion.Severity
			if severity == "" {
				severity = "note"
			}
			fmt.Fprintf(&b, "### %d. %s (%s)\n\n", i+1, category, severity)

			if suggestion.File != "" {
				fmt.Fprintf(&b, "**File**: `%s`", suggestion.File)
				if suggestion.Line != "" {
					fmt.Fprintf(&b, " **Line**: %s", suggestion.Line)
				}
				b.WriteString("\n\n")
			}
			if suggestion.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", suggestion.Description)
			}
			if suggestion.Suggestion != "" {
				fmt.Fprintf(&b, "**Suggestion**: %s\n\n", suggestion.Suggestion)
			}
		}
	}

	if review.RawResponse != "" && len(review.Suggestions) == 0 {
		fmt.Fprintf(&b, "## Raw Response\n\n```\n%s\n```\n\n", review.RawResponse)
	}

	b.WriteString("\n---\n" + commentFooter)
	return b.String()
}

// BuildLineComment renders one suggestion as an inline review comment.
func BuildLineComment(suggestion domain.Suggestion) string {
	category := suggestion.Category
	if category == "" {
		category = "comment"
	}
	severity := suggestion.Severity
	if severity == "" {
		severity = "note"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s (%s)**\n\n", category, severity)
	b.WriteString(suggestion.Description)
	if suggestion.Suggestion != "" {
		fmt.Fprintf(&b, "\n\n**Suggestion**: %s", suggestion.Suggestion)
	}
	return b.String()
}

// BuildReviewBody renders the top-level body of a formal line review.
func BuildReviewBody(review domain.Review) string {
	var b strings.Builder
	b.WriteString("# AI Code Review\n\n")
	fmt.Fprintf(&b, "**Overall Assessment**: %s\n\n", assessmentOrDefault(review.OverallAssessment))
	b.WriteString(summaryOrDefault(review.Summary))
	return b.String()
}

func assessmentOrDefault(assessment string) string {
	if assessment == "" {
		return "not assessed"
	}
	return assessment
}

func summaryOrDefault(summary string) string {
	if summary == "" {
		return "No summary provided."
	}
	return summary
}
