// Package templates provides the catalog of document styles and their section constraints.
package templates

import (
	"slices"

	"github.com/jonathan/resume-builder/internal/types"
)

// Category groups styles by visual register
type Category string

const (
	CategoryProfessional Category = "professional"
	CategoryModern       Category = "modern"
	CategoryMinimalist   Category = "minimalist"
	CategoryCreative     Category = "creative"
)

// ItemLengthKey is the length-constraint key for individual highlight items
const ItemLengthKey = "highlight_item"

// SectionRequirements constrains one section of a style
type SectionRequirements struct {
	Required  []string       `json:"required" yaml:"required"`
	Optional  []string       `json:"optional" yaml:"optional"`
	MaxLength map[string]int `json:"max_length" yaml:"max_length"`
}

// TemplateRequirements describes one registered style.
// Values handed out by the registry are copies; mutating them does not affect the registry.
type TemplateRequirements struct {
	StyleID          int                                       `json:"style_id"`
	Name             string                                    `json:"name"`
	NPMPackage       string                                    `json:"npm_package"`
	Description      string                                    `json:"description,omitempty"`
	Category         Category                                  `json:"category"`
	Version          string                                    `json:"version"`
	Author           string                                    `json:"author"`
	RequiredSections []types.SectionName                       `json:"required_sections"`
	Sections         map[types.SectionName]SectionRequirements `json:"sections"`
}

// RequiredFields returns the required fields of a section
func (t *TemplateRequirements) RequiredFields(section types.SectionName) []string {
	return slices.Clone(t.Sections[section].Required)
}

// LengthConstraint returns the max length of a field, if one is declared
func (t *TemplateRequirements) LengthConstraint(section types.SectionName, field string) (int, bool) {
	limit, ok := t.Sections[section].MaxLength[field]
	return limit, ok
}

// IsRequired reports whether a section is required by the style
func (t *TemplateRequirements) IsRequired(section types.SectionName) bool {
	return slices.Contains(t.RequiredSections, section)
}

func (t *TemplateRequirements) clone() *TemplateRequirements {
	out := *t
	out.RequiredSections = slices.Clone(t.RequiredSections)
	out.Sections = make(map[types.SectionName]SectionRequirements, len(t.Sections))
	for name, req := range t.Sections {
		out.Sections[name] = req.clone()
	}
	return &out
}

func (r SectionRequirements) clone() SectionRequirements {
	out := SectionRequirements{
		Required:  slices.Clone(r.Required),
		Optional:  slices.Clone(r.Optional),
		MaxLength: make(map[string]int, len(r.MaxLength)),
	}
	for k, v := range r.MaxLength {
		out.MaxLength[k] = v
	}
	return out
}

// DefaultSectionRequirements returns the JSON Resume field requirements shared by every built-in style
func DefaultSectionRequirements() map[types.SectionName]SectionRequirements {
	return map[types.SectionName]SectionRequirements{
		types.SectionBasics: {
			Required:  []string{"name", "email"},
			Optional:  []string{"label", "phone", "url", "summary", "location", "profiles"},
			MaxLength: map[string]int{"name": 100, "label": 100, "email": 100, "phone": 20, "url": 200, "summary": 500},
		},
		types.SectionWork: {
			Required:  []string{"name", "position", "startDate"},
			Optional:  []string{"endDate", "summary", "highlights", "url"},
			MaxLength: map[string]int{"name": 100, "position": 100, "summary": 500, "highlights": 200, ItemLengthKey: 150},
		},
		types.SectionEducation: {
			Required:  []string{"institution", "area", "studyType"},
			Optional:  []string{"startDate", "endDate", "score", "courses", "url"},
			MaxLength: map[string]int{"institution": 100, "area": 100, "studyType": 50, "score": 20},
		},
		types.SectionSkills: {
			Required:  []string{"name"},
			Optional:  []string{"level", "keywords"},
			MaxLength: map[string]int{"name": 50, "level": 30, "keywords": 10},
		},
		types.SectionProjects: {
			Required:  []string{"name", "description"},
			Optional:  []string{"highlights", "keywords", "startDate", "endDate", "url", "roles"},
			MaxLength: map[string]int{"name": 100, "description": 500, "highlights": 200, ItemLengthKey: 150},
		},
		types.SectionVolunteer: {
			Required:  []string{"organization", "position", "startDate"},
			Optional:  []string{"endDate", "summary", "url", "highlights"},
			MaxLength: map[string]int{"organization": 100, "position": 100, "summary": 500, "highlights": 200},
		},
		types.SectionAwards: {
			Required:  []string{"title", "date", "awarder"},
			Optional:  []string{"summary"},
			MaxLength: map[string]int{"title": 100, "awarder": 100, "summary": 300},
		},
		types.SectionPublications: {
			Required:  []string{"name", "publisher", "releaseDate"},
			Optional:  []string{"url", "summary"},
			MaxLength: map[string]int{"name": 150, "publisher": 100, "summary": 500},
		},
		types.SectionLanguages: {
			Required:  []string{"language", "fluency"},
			MaxLength: map[string]int{"language": 50, "fluency": 30},
		},
		types.SectionInterests: {
			Required:  []string{"name"},
			Optional:  []string{"keywords"},
			MaxLength: map[string]int{"name": 100, "keywords": 10},
		},
		types.SectionReferences: {
			Required:  []string{"name", "reference"},
			MaxLength: map[string]int{"name": 100, "reference": 500},
		},
	}
}

// requiredSectionsByCategory is the section set a style requires unless it declares its own
var requiredSectionsByCategory = map[Category][]types.SectionName{
	CategoryProfessional: {types.SectionBasics, types.SectionWork, types.SectionEducation, types.SectionSkills},
	CategoryModern:       {types.SectionBasics, types.SectionWork, types.SectionSkills, types.SectionProjects},
	CategoryMinimalist:   {types.SectionBasics, types.SectionWork, types.SectionEducation},
	CategoryCreative:     {types.SectionBasics, types.SectionWork, types.SectionProjects, types.SectionSkills},
}

// Guidelines is the writing register associated with a category
type Guidelines struct {
	Tone     string `json:"tone"`
	Emphasis string `json:"emphasis"`
	Spacing  string `json:"spacing"`
}

var categoryGuidelines = map[Category]Guidelines{
	CategoryProfessional: {Tone: "formal", Emphasis: "content over design", Spacing: "standard"},
	CategoryModern:       {Tone: "contemporary", Emphasis: "clean typography", Spacing: "generous"},
	CategoryCreative:     {Tone: "innovative", Emphasis: "visual impact", Spacing: "dynamic"},
	CategoryMinimalist:   {Tone: "simple", Emphasis: "content only", Spacing: "minimal"},
}

// CategoryGuidelines returns the writing guidelines for a category, defaulting to professional
func CategoryGuidelines(category Category) Guidelines {
	if g, ok := categoryGuidelines[category]; ok {
		return g
	}
	return categoryGuidelines[CategoryProfessional]
}
