package types

import (
	"encoding/json"
	"time"
)

// QualityStatus is the label the quality validator assigns to a section
type QualityStatus string

const (
	QualitySuccess QualityStatus = "success"
	QualityWarning QualityStatus = "warning"
	QualityFailed  QualityStatus = "failed"
)

// OutcomeKind tags how a single provider attempt ended
type OutcomeKind string

const (
	OutcomeProviderFailure OutcomeKind = "provider_failure"
	OutcomeQualityFailure  OutcomeKind = "quality_failure"
	OutcomeAccepted        OutcomeKind = "accepted"
)

// AttemptRecord summarizes one stage of the provider chain
type AttemptRecord struct {
	Provider ProviderKind  `json:"provider"`
	Outcome  OutcomeKind   `json:"outcome"`
	Error    string        `json:"error,omitempty"`
	Score    float64       `json:"score"`
	Duration time.Duration `json:"duration_ns"`
}

// GenerationResult is the output of the generation pipeline for one request
type GenerationResult struct {
	ID               string          `json:"id"`
	StyleID          int             `json:"style_id"`
	Section          SectionName     `json:"section"`
	Provider         ProviderKind    `json:"provider"`
	RawInput         string          `json:"raw_input"`
	RawText          string          `json:"raw_text"`
	Content          TypedSection    `json:"-"`
	ParseError       string          `json:"parse_error,omitempty"`
	Score            float64         `json:"score"`
	Status           QualityStatus   `json:"status"`
	Issues           []Issue         `json:"issues"`
	Suggestions      []Suggestion    `json:"suggestions"`
	RephrasedContent string          `json:"rephrased_content"`
	Attempts         []AttemptRecord `json:"attempts"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Blocking returns the blocking issues of the result
func (r *GenerationResult) Blocking() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Blocking() {
			out = append(out, issue)
		}
	}
	return out
}

// MarshalJSON includes the typed content in its document form
func (r GenerationResult) MarshalJSON() ([]byte, error) {
	type alias GenerationResult
	content, err := MarshalSection(r.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		alias
		Content json.RawMessage `json:"content"`
	}{alias: alias(r), Content: content})
}
