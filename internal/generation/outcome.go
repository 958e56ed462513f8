package generation

import "github.com/jonathan/resume-builder/internal/types"

// Outcome is the tagged result of one stage attempt.
// It is one of ProviderFailure, QualityFailure or Accepted.
type Outcome interface {
	Kind() types.OutcomeKind
	isOutcome()
}

// ProviderFailure means the provider produced nothing that could be parsed
type ProviderFailure struct {
	Failure *ProviderTransientFailure
}

// QualityFailure means the provider output parsed but failed validation
type QualityFailure struct {
	Result *types.GenerationResult
}

// Accepted means the output passed validation with status success or warning
type Accepted struct {
	Result *types.GenerationResult
}

func (ProviderFailure) Kind() types.OutcomeKind { return types.OutcomeProviderFailure }
func (QualityFailure) Kind() types.OutcomeKind  { return types.OutcomeQualityFailure }
func (Accepted) Kind() types.OutcomeKind        { return types.OutcomeAccepted }

func (ProviderFailure) isOutcome() {}
func (QualityFailure) isOutcome()  {}
func (Accepted) isOutcome()        {}
