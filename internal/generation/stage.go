package generation

import (
	"context"

	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// Attempt is the read-only input every stage receives for one request
type Attempt struct {
	Request      Request
	Requirements *templates.TemplateRequirements
	Prompt       string
}

// Stage is one provider in the fallback chain
type Stage interface {
	Provider() types.ProviderKind
	Run(ctx context.Context, attempt *Attempt) Outcome
}

// LLMStage asks a language model for the section and parses its answer
type LLMStage struct {
	Kind   types.ProviderKind
	Client llm.Client
	Tier   llm.ModelTier
}

// NewLLMStage returns a stage generating with client at the standard tier
func NewLLMStage(kind types.ProviderKind, client llm.Client) *LLMStage {
	return &LLMStage{Kind: kind, Client: client, Tier: llm.TierStandard}
}

func (s *LLMStage) Provider() types.ProviderKind { return s.Kind }

// Run calls the provider, parses and repairs its output, then validates the merged section
func (s *LLMStage) Run(ctx context.Context, attempt *Attempt) Outcome {
	raw, err := s.Client.GenerateJSON(ctx, attempt.Prompt, s.Tier)
	if err != nil {
		return ProviderFailure{Failure: &ProviderTransientFailure{Provider: s.Kind, Kind: classify(err), Cause: err}}
	}

	section, err := parsing.Parse(attempt.Request.Section, raw)
	if err != nil {
		return ProviderFailure{Failure: &ProviderTransientFailure{Provider: s.Kind, Kind: FailureMalformed, Cause: err}}
	}
	if types.IsEmptySection(section) {
		return ProviderFailure{Failure: &ProviderTransientFailure{Provider: s.Kind, Kind: FailureEmpty}}
	}

	return judge(evaluate(attempt, s.Kind, raw, section))
}

// RuleStage extracts the section with deterministic patterns. It never fails to return a result.
type RuleStage struct{}

func (RuleStage) Provider() types.ProviderKind { return types.ProviderRuleBased }

// Run extracts what it can; an empty extraction scores zero so nothing is applied
func (RuleStage) Run(_ context.Context, attempt *Attempt) Outcome {
	section := extraction.Extract(attempt.Request.Section, attempt.Request.RawInput)
	raw, _ := types.MarshalSection(section)

	if types.IsEmptySection(section) {
		return QualityFailure{Result: &types.GenerationResult{
			Provider: types.ProviderRuleBased,
			RawText:  string(raw),
			Content:  section,
			Score:    0,
			Status:   types.QualityFailed,
			Issues: []types.Issue{{
				Field:    string(attempt.Request.Section),
				Rule:     validation.RuleMissing,
				Severity: types.SeverityBlocking,
				Message:  "nothing usable could be extracted from the input",
			}},
			Suggestions: []types.Suggestion{},
		}}
	}

	return judge(evaluate(attempt, types.ProviderRuleBased, string(raw), section))
}

// evaluate validates the fragment as it would look once merged into the current document
func evaluate(attempt *Attempt, provider types.ProviderKind, raw string, section types.TypedSection) *types.GenerationResult {
	merged := attempt.Request.Document.Clone()
	merged.MergeSection(section)
	report := validation.Validate(merged.Section(section.Section()), attempt.Requirements)

	return &types.GenerationResult{
		Provider:    provider,
		RawText:     raw,
		Content:     section,
		Score:       report.Score,
		Status:      report.Status,
		Issues:      report.Issues,
		Suggestions: report.Suggestions,
	}
}

func judge(result *types.GenerationResult) Outcome {
	if result.Status == types.QualityFailed {
		return QualityFailure{Result: result}
	}
	return Accepted{Result: result}
}
