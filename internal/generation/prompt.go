package generation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// DefaultContextFields is how many populated document fields are quoted back to the provider
const DefaultContextFields = 8

const actionVerbCount = 15

// BuildPrompt assembles the section generation prompt for a request
func BuildPrompt(req Request, reqs *templates.TemplateRequirements, contextFields int) (string, error) {
	set, err := prompts.Default()
	if err != nil {
		return "", fmt.Errorf("failed to load generation prompts: %w", err)
	}
	sp, err := set.Section(string(req.Section))
	if err != nil {
		return "", fmt.Errorf("failed to load %s prompt: %w", req.Section, err)
	}

	guidelines := templates.CategoryGuidelines(reqs.Category)
	required := reqs.RequiredFields(req.Section)
	requiredText := "none"
	if len(required) > 0 {
		requiredText = strings.Join(required, ", ")
	}

	verbs := validation.StrongVerbs
	if len(verbs) > actionVerbCount {
		verbs = verbs[:actionVerbCount]
	}

	prompt := prompts.Format(sp.Template, map[string]string{
		"Section":             string(req.Section),
		"StyleName":           reqs.Name,
		"Category":            string(reqs.Category),
		"RawInput":            sanitizeInput(req.RawInput),
		"Tone":                guidelines.Tone,
		"Emphasis":            guidelines.Emphasis,
		"RequiredFields":      requiredText,
		"LengthLimits":        lengthLimits(reqs.Sections[req.Section].MaxLength),
		"SectionInstructions": sp.Instructions,
		"ActionVerbs":         strings.Join(verbs, ", "),
		"DocumentContext":     documentContext(req.Document, req.Section, contextFields),
		"FormatExample":       sp.Example,
	})
	if missing := prompts.Unfilled(prompt); len(missing) > 0 {
		return "", fmt.Errorf("generation prompt has unfilled placeholders: %s", strings.Join(missing, ", "))
	}
	return prompt, nil
}

// sanitizeInput keeps the user's text from closing the quoted prompt field or injecting placeholders
func sanitizeInput(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), `"`, `'`)
	return strings.ReplaceAll(raw, "{{", "{ {")
}

func lengthLimits(limits map[string]int) string {
	if len(limits) == 0 {
		return "none"
	}
	fields := make([]string, 0, len(limits))
	for field := range limits {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		switch field {
		case templates.ItemLengthKey:
			parts = append(parts, fmt.Sprintf("each highlight <= %d characters", limits[field]))
		case "highlights", "keywords":
			parts = append(parts, fmt.Sprintf("%s <= %d items", field, limits[field]))
		default:
			parts = append(parts, fmt.Sprintf("%s <= %d characters", field, limits[field]))
		}
	}
	return strings.Join(parts, "; ")
}

// documentContext quotes up to limit populated fields, the target section first
func documentContext(doc types.Document, target types.SectionName, limit int) string {
	if limit <= 0 {
		limit = DefaultContextFields
	}

	order := []types.SectionName{target}
	for _, name := range types.AllSections {
		if name != target {
			order = append(order, name)
		}
	}

	var lines []string
	for _, name := range order {
		section := doc.Section(name)
		if section == nil {
			continue
		}
		for i, entry := range section.Entries() {
			for _, field := range entry.Fields() {
				if len(lines) >= limit {
					return strings.Join(lines, "\n")
				}
				if !field.Present() {
					continue
				}
				value := field.Text
				if field.List {
					value = strings.Join(field.Items, ", ")
				}
				lines = append(lines, fmt.Sprintf("- %s: %s", fieldPath(name, i, field.Name), value))
			}
		}
	}
	if len(lines) == 0 {
		return "(empty)"
	}
	return strings.Join(lines, "\n")
}

func fieldPath(section types.SectionName, index int, field string) string {
	if section.IsList() {
		return fmt.Sprintf("%s[%d].%s", section, index, field)
	}
	return fmt.Sprintf("%s.%s", section, field)
}
