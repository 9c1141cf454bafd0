package review

import (
	"fmt"
	"strings"
)

// PromptInput carries everything the prompt builder needs.
type PromptInput struct {
	Repository  string
	Title       string
	Description string
	FocusAreas  []string
	Code        string
}

// outputContract instructs the model on the exact JSON shape the parser
// expects. Kept in sync with domain.Review.
const outputContract = `Respond with your review in the following JSON format:

` + "```json" + `
{
  "summary": "A brief summary of the PR in at most 3-5 sentences",
  "overall_assessment": "good | needs_improvement | major_issues",
  "suggestions": [
    {
      "file": "path/to/file",
      "line": "line number or range (if applicable)",
      "severity": "critical | high | medium | low | praise",
      "category": "architecture | security | performance | maintainability | style | other",
      "description": "A detailed description of the issue",
      "suggestion": "How to improve it"
    }
  ]
}
` + "```" + `

Return only the JSON result, without any other explanation or preamble.`

// BuildPrompt assembles the review prompt sent to the AI provider.
func BuildPrompt(input PromptInput) string {
	var parts []string

	parts = append(parts, "You are an expert code reviewer. Review the following code and provide suggestions.")

	if input.Repository != "" {
		parts = append(parts, fmt.Sprintf("Repository: %s", input.Repository))
	}
	if input.Title != "" {
		parts = append(parts, fmt.Sprintf("PR title: %s", input.Title))
	}
	if input.Description != "" {
		parts = append(parts, fmt.Sprintf("PR description: %s", input.Description))
	}

	if len(input.FocusAreas) > 0 {
		parts = append(parts, fmt.Sprintf("Pay particular attention to: %s", strings.Join(input.FocusAreas, ", ")))
	}

	parts = append(parts, outputContract)
	parts = append(parts, "Here is an XML representation of the code under review:")
	parts = append(parts, input.Code)

	return strings.Join(parts, "\n\n")
}
