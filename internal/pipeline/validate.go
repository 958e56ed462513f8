package pipeline

import (
	"context"
	"errors"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// SectionReport is the quality check of one section
type SectionReport struct {
	Section     types.SectionName   `json:"section"`
	Status      types.QualityStatus `json:"status"`
	Score       float64             `json:"score"`
	Issues      []types.Issue       `json:"issues"`
	Suggestions []types.Suggestion  `json:"suggestions"`
}

// DocumentReport combines the schema check and the per-section quality checks
type DocumentReport struct {
	DocumentID   string               `json:"document_id"`
	Valid        bool                 `json:"valid"`
	SchemaErrors []schemas.FieldError `json:"schema_errors"`
	Sections     []SectionReport      `json:"sections"`
}

// ValidateDocument checks a stored document against the resume schema and its style.
// Required sections are always checked; optional ones only once they have content.
func (s *Service) ValidateDocument(ctx context.Context, documentID string) (*DocumentReport, error) {
	state, err := s.tracker.Snapshot(ctx, documentID)
	if err != nil {
		return nil, err
	}
	reqs, err := s.registry.Get(state.StyleID)
	if err != nil {
		return nil, err
	}

	report := &DocumentReport{
		DocumentID:   state.ID,
		Valid:        true,
		SchemaErrors: []schemas.FieldError{},
		Sections:     []SectionReport{},
	}

	if err := schemas.ValidateDocument(state.Document); err != nil {
		var schemaErr *schemas.ValidationError
		if !errors.As(err, &schemaErr) {
			return nil, err
		}
		report.SchemaErrors = schemaErr.Errors
		report.Valid = false
	}

	for _, name := range types.AllSections {
		content := state.Document.Section(name)
		if !reqs.IsRequired(name) && types.IsEmptySection(content) {
			continue
		}
		quality := validation.Validate(content, reqs)
		if quality.Blocking() > 0 {
			report.Valid = false
		}
		report.Sections = append(report.Sections, SectionReport{
			Section:     name,
			Status:      quality.Status,
			Score:       quality.Score,
			Issues:      quality.Issues,
			Suggestions: quality.Suggestions,
		})
	}
	return report, nil
}
