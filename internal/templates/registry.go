package templates

import (
	"slices"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

// Registry is an additive catalog of styles keyed by id.
// Entries are never replaced or removed once registered.
type Registry struct {
	mu     sync.RWMutex
	styles map[int]*TemplateRequirements
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{styles: make(map[int]*TemplateRequirements)}
}

// NewDefaultRegistry returns a registry holding the built-in JSON Resume themes
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, style := range builtinStyles() {
		if err := r.Register(style); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a style. It fails if the id already exists, leaving the existing entry untouched.
// Missing section requirements default to the JSON Resume set, and missing required sections
// default to those of the style's category.
func (r *Registry) Register(style TemplateRequirements) error {
	if style.StyleID <= 0 {
		return &InvalidStyleError{StyleID: style.StyleID, Message: "id must be positive"}
	}
	if style.Name == "" {
		return &InvalidStyleError{StyleID: style.StyleID, Message: "name is required"}
	}
	if style.Category == "" {
		style.Category = CategoryProfessional
	}

	defaults := DefaultSectionRequirements()
	sections := make(map[types.SectionName]SectionRequirements, len(defaults))
	for name, req := range defaults {
		sections[name] = req
	}
	for name, req := range style.Sections {
		if !name.Valid() {
			return &InvalidStyleError{StyleID: style.StyleID, Message: "unknown section " + string(name)}
		}
		sections[name] = req.clone()
	}
	style.Sections = sections

	if len(style.RequiredSections) == 0 {
		required, ok := requiredSectionsByCategory[style.Category]
		if !ok {
			required = requiredSectionsByCategory[CategoryProfessional]
		}
		style.RequiredSections = slices.Clone(required)
	}
	for _, name := range style.RequiredSections {
		if !name.Valid() {
			return &InvalidStyleError{StyleID: style.StyleID, Message: "unknown required section " + string(name)}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.styles[style.StyleID]; exists {
		return &DuplicateStyleError{StyleID: style.StyleID}
	}
	r.styles[style.StyleID] = style.clone()
	return nil
}

// Get returns the requirements of a style
func (r *Registry) Get(styleID int) (*TemplateRequirements, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	style, ok := r.styles[styleID]
	if !ok {
		return nil, &UnknownStyleError{StyleID: styleID}
	}
	return style.clone(), nil
}

// RequiredSections returns the required sections of a style in declared order
func (r *Registry) RequiredSections(styleID int) ([]types.SectionName, error) {
	style, err := r.Get(styleID)
	if err != nil {
		return nil, err
	}
	return style.RequiredSections, nil
}

// LengthConstraint returns the max length of a field for a style, if one is declared
func (r *Registry) LengthConstraint(styleID int, section types.SectionName, field string) (int, bool, error) {
	style, err := r.Get(styleID)
	if err != nil {
		return 0, false, err
	}
	limit, ok := style.LengthConstraint(section, field)
	return limit, ok, nil
}

// List returns all styles ordered by id
func (r *Registry) List() []*TemplateRequirements {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*TemplateRequirements, 0, len(r.styles))
	for _, style := range r.styles {
		out = append(out, style.clone())
	}
	slices.SortFunc(out, func(a, b *TemplateRequirements) int { return a.StyleID - b.StyleID })
	return out
}

// ByCategory returns the styles of one category ordered by id
func (r *Registry) ByCategory(category Category) []*TemplateRequirements {
	var out []*TemplateRequirements
	for _, style := range r.List() {
		if style.Category == category {
			out = append(out, style)
		}
	}
	return out
}

// Stats holds registry counts
type Stats struct {
	Total      int              `json:"total"`
	Categories map[Category]int `json:"categories"`
}

// Stats returns the number of styles per category
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := Stats{Total: len(r.styles), Categories: make(map[Category]int)}
	for _, style := range r.styles {
		stats.Categories[style.Category]++
	}
	return stats
}
