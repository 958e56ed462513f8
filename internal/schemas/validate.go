// Package schemas provides JSON Schema validation for resume documents.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema string

// ResumeSchemaPath names the embedded schema in load errors
const ResumeSchemaPath = "resume.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ResumeSchema returns the embedded JSON Resume schema text
func ResumeSchema() string {
	return resumeSchema
}

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchema))
	})
	if compileErr != nil {
		return nil, &SchemaLoadError{Path: ResumeSchemaPath, Message: "schema compilation failed", Cause: compileErr}
	}
	return compiledSchema, nil
}

// ValidateDocumentJSON validates raw document JSON against the embedded resume schema
func ValidateDocumentJSON(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return toValidationError(result)
}

// ValidateDocument validates a full document against the embedded resume schema
func ValidateDocument(doc types.Document) error {
	doc = doc.Clone()
	doc.Normalize()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return ValidateDocumentJSON(data)
}

// ValidateSection validates one section by placing it in an otherwise empty document
func ValidateSection(ts types.TypedSection) error {
	if ts == nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "section content is missing"}}}
	}
	content, err := types.MarshalSection(ts)
	if err != nil {
		return fmt.Errorf("failed to marshal section: %w", err)
	}
	var doc map[string]json.RawMessage
	base, err := json.Marshal(types.NewDocument(0))
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := json.Unmarshal(base, &doc); err != nil {
		return fmt.Errorf("failed to prepare document: %w", err)
	}
	doc[string(ts.Section())] = content
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return ValidateDocumentJSON(data)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
