package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aireview/ai-pr-reviewer/internal/domain"
	"github.com/aireview/ai-pr-reviewer/internal/usecase/review"
)

const providerName = "anthropic"

// Client abstracts the Anthropic HTTP client behaviour the provider needs.
type Client interface {
	Call(ctx context.Context, prompt string, options CallOptions) (*APIResponse, error)
}

// Provider implements the usecase Provider port.
type Provider struct {
	model  string
	client Client
}

// NewProvider constructs a Provider for the supplied model.
func NewProvider(model string, client Client) *Provider {
	return &Provider{
		model:  model,
		client: client,
	}
}

// Model returns the configured model name.
func (p *Provider) Model() string {
	return p.model
}

// Review sends the prompt to Anthropic and translates the response into the
// review contract. An unparseable response degrades to a review carrying the
// raw text rather than failing the run.
func (p *Provider) Review(ctx context.Context, req review.ProviderRequest) (domain.Review, error) {
	if p.client == nil {
		return domain.Review{}, fmt.Errorf("anthropic client missing")
	}

	resp, err := p.client.Call(ctx, req.Prompt, CallOptions{
		Model:     p.model,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("anthropic: %w", err)
	}

	return ParseReviewResponse(resp.Text), nil
}

var fencedJSONPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ParseReviewResponse extracts the JSON review from the model output. The
// model may wrap the JSON in a markdown code fence or emit it bare; anything
// else is preserved as the raw response.
func ParseReviewResponse(text string) domain.Review {
	jsonText := strings.TrimSpace(text)
	if matches := fencedJSONPattern.FindStringSubmatch(text); len(matches) > 1 {
		jsonText = strings.TrimSpace(matches[1])
	}

	var parsed domain.Review
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return domain.Review{
			Summary:           "The AI response could not be parsed as JSON.",
			OverallAssessment: domain.AssessmentUnknown,
			RawResponse:       text,
		}
	}

	return parsed
}
