package types

import (
	"github.com/go-playground/validator/v10"
)

// GenerationRequest is one conversational turn targeting a section
type GenerationRequest struct {
	StyleID    int    `json:"style_id" validate:"required,min=1"`
	Section    string `json:"section" validate:"required"`
	RawInput   string `json:"raw_input" validate:"required,min=1,max=8000"`
	UserID     string `json:"user_id" validate:"required"`
	DocumentID string `json:"document_id,omitempty" validate:"omitempty,uuid"`
}

// Validate validates the GenerationRequest using the validator.
func (r *GenerationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Response statuses returned to the conversational layer
const (
	ResponseSuccess  = "success"
	ResponseWarning  = "warning"
	ResponseFailed   = "failed"
	ResponseNoUpdate = "no_update"
)

// GenerationResponse is what the conversational layer receives for one turn
type GenerationResponse struct {
	Status              string               `json:"status"`
	Reason              string               `json:"reason,omitempty"`
	DocumentID          string               `json:"document_id"`
	Section             SectionName          `json:"section"`
	SectionStatus       SectionStatus        `json:"section_status"`
	RephrasedContent    string               `json:"rephrased_content"`
	Provider            ProviderKind         `json:"provider"`
	Score               float64              `json:"score"`
	CompletenessSummary *CompletenessSummary `json:"completeness_summary"`
	ValidationIssues    []Issue              `json:"validation_issues,omitempty"`
	Suggestions         []Suggestion         `json:"suggestions,omitempty"`
}

// CreateDocumentRequest opens a new document for a user and style
type CreateDocumentRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	StyleID int    `json:"style_id" validate:"required,min=1"`
}

// Validate validates the CreateDocumentRequest using the validator.
func (r *CreateDocumentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
