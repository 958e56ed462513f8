package parsing

import "fmt"

// Reasons reported by ParseError
const (
	ReasonEmptyOutput   = "empty output"
	ReasonNoJSON        = "no JSON value found"
	ReasonInvalidJSON   = "invalid JSON after repair"
	ReasonShapeMismatch = "content does not match section shape"
	ReasonSchema        = "section violates resume schema"
	ReasonSection       = "unknown section"
)

// ParseError is returned when provider output cannot be turned into a typed section.
// RawText keeps the original output for logging and retry prompts.
type ParseError struct {
	Reason  string
	RawText string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
