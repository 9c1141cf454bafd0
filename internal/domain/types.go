package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Severity levels a suggestion can carry.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityPraise   = "praise"
)

// Overall assessment values the reviewer is instructed to emit.
const (
	AssessmentGood             = "good"
	AssessmentNeedsImprovement = "needs_improvement"
	AssessmentMajorIssues      = "major_issues"

	// AssessmentUnknown is used when the provider response could not be
	// parsed into the expected contract.
	AssessmentUnknown = "unknown"
)

// PullRequest captures the metadata of the pull request under review.
type PullRequest struct {
	Number  int
	Title   string
	Body    string
	HeadSHA string
	BaseRef string
	State   string
}

// Review is the structured result returned by the AI provider.
type Review struct {
	Summary           string       `json:"summary"`
	OverallAssessment string       `json:"overall_assessment"`
	Suggestions       []Suggestion `json:"suggestions,omitempty"`

	// RawResponse holds the unparsed provider output when the response
	// could not be decoded as the expected JSON contract.
	RawResponse string `json:"raw_response,omitempty"`
}

// Suggestion is a single piece of review feedback, optionally anchored
// to a file and line (or line range).
type Suggestion struct {
	File        string  `json:"file,omitempty"`
	Line        LineRef `json:"line,omitempty"`
	Severity    string  `json:"severity,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Suggestion  string  `json:"suggestion,omitempty"`
}

// Anchored reports whether the suggestion points at a concrete file line,
// making it eligible for an inline pull request comment.
func (s Suggestion) Anchored() bool {
	if s.File == "" {
		return false
	}
	_, ok := s.Line.StartLine()
	return ok
}

// LineRef is a line reference as emitted by the model. The JSON value may be
// a number (12), a numeric string ("12"), or a range ("12-20").
type LineRef string

// UnmarshalJSON accepts both string and number encodings.
func (l *LineRef) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*l = LineRef(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*l = LineRef(asNumber.String())
	return nil
}

// MarshalJSON renders the reference as a plain string.
func (l LineRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(l))
}

// StartLine returns the first line number of the reference. For a range such
// as "12-20" the start of the range is returned, matching where an inline
// comment should be placed.
func (l LineRef) StartLine() (int, bool) {
	value := strings.TrimSpace(string(l))
	if value == "" {
		return 0, false
	}
	if idx := strings.Index(value, "-"); idx > 0 {
		value = strings.TrimSpace(value[:idx])
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (l LineRef) String() string {
	return string(l)
}

// MarkdownArtifact encapsulates the Markdown report generation inputs.
type MarkdownArtifact struct {
	OutputDir  string
	Repository string
	PRNumber   int
	Review     Review
}
