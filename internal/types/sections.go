// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// SectionName identifies one section of a JSON Resume document
type SectionName string

// Section names form a closed vocabulary
const (
	SectionBasics       SectionName = "basics"
	SectionWork         SectionName = "work"
	SectionEducation    SectionName = "education"
	SectionSkills       SectionName = "skills"
	SectionProjects     SectionName = "projects"
	SectionVolunteer    SectionName = "volunteer"
	SectionAwards       SectionName = "awards"
	SectionPublications SectionName = "publications"
	SectionLanguages    SectionName = "languages"
	SectionInterests    SectionName = "interests"
	SectionReferences   SectionName = "references"
)

// AllSections lists every section in global priority order.
// Guidance falls back to this order for sections a style does not require.
var AllSections = []SectionName{
	SectionBasics,
	SectionWork,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionAwards,
	SectionLanguages,
	SectionInterests,
	SectionVolunteer,
	SectionPublications,
	SectionReferences,
}

// InvalidSectionError is returned when a section name is outside the vocabulary
type InvalidSectionError struct {
	Name string
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid section: %q", e.Name)
}

// ParseSectionName validates a raw section name
func ParseSectionName(raw string) (SectionName, error) {
	name := SectionName(strings.TrimSpace(raw))
	if !name.Valid() {
		return "", &InvalidSectionError{Name: raw}
	}
	return name, nil
}

// Valid reports whether the name belongs to the vocabulary
func (s SectionName) Valid() bool {
	for _, known := range AllSections {
		if s == known {
			return true
		}
	}
	return false
}

// IsList reports whether the section holds an ordered list of entries
func (s SectionName) IsList() bool {
	return s != SectionBasics
}

// SectionStatus is the completeness state of one section
type SectionStatus string

const (
	StatusNotStarted SectionStatus = "not_started"
	StatusPartial    SectionStatus = "partial"
	StatusComplete   SectionStatus = "complete"
)

// ProviderKind tags which stage of the provider chain produced a result
type ProviderKind string

const (
	ProviderPrimary   ProviderKind = "primary"
	ProviderSecondary ProviderKind = "secondary"
	ProviderRuleBased ProviderKind = "rule_based"
)
