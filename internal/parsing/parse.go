// Package parsing turns raw provider output into typed resume sections.
package parsing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// listFields are entry fields that hold string lists
var listFields = map[string]bool{
	"highlights": true,
	"keywords":   true,
	"courses":    true,
	"roles":      true,
	"profiles":   true,
}

// Parse converts provider output into the typed section for name.
// Output is parsed strictly first; on failure the repair set is applied once and parsing is retried.
// The returned section always passes the resume schema. Any failure is a *ParseError.
func Parse(name types.SectionName, raw string) (section types.TypedSection, err error) {
	defer func() {
		if r := recover(); r != nil {
			section = nil
			err = &ParseError{Reason: ReasonInvalidJSON, RawText: raw, Cause: fmt.Errorf("%v", r)}
		}
	}()

	if !name.Valid() {
		return nil, &ParseError{Reason: ReasonSection, RawText: raw, Cause: &types.InvalidSectionError{Name: string(name)}}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Reason: ReasonEmptyOutput, RawText: raw}
	}

	text, ok := extractJSONValue(cleanJSONBlock(raw))
	if !ok {
		return nil, &ParseError{Reason: ReasonNoJSON, RawText: raw}
	}

	var payload any
	if jsonErr := json.Unmarshal([]byte(text), &payload); jsonErr != nil {
		repaired := Repair(text)
		if retryErr := json.Unmarshal([]byte(repaired), &payload); retryErr != nil {
			return nil, &ParseError{Reason: ReasonInvalidJSON, RawText: raw, Cause: retryErr}
		}
	}

	section, shapeErr := decodeSection(name, payload)
	if shapeErr != nil {
		return nil, &ParseError{Reason: ReasonShapeMismatch, RawText: raw, Cause: shapeErr}
	}
	if schemaErr := schemas.ValidateSection(section); schemaErr != nil {
		return nil, &ParseError{Reason: ReasonSchema, RawText: raw, Cause: schemaErr}
	}
	return section, nil
}

// decodeSection accepts a single entry, a list of entries, or an object wrapping either under the section key
func decodeSection(name types.SectionName, payload any) (types.TypedSection, error) {
	if obj, ok := payload.(map[string]any); ok {
		if inner, found := obj[string(name)]; found {
			payload = inner
		}
	}

	var content any
	if name == types.SectionBasics {
		switch v := payload.(type) {
		case map[string]any:
			content = normalizeEntry(name, v)
		case []any:
			if len(v) == 0 {
				return nil, fmt.Errorf("basics must be an object, got an empty list")
			}
			first, ok := v[0].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("basics must be an object, got %T", v[0])
			}
			content = normalizeEntry(name, first)
		default:
			return nil, fmt.Errorf("basics must be an object, got %T", payload)
		}
	} else {
		var items []any
		switch v := payload.(type) {
		case []any:
			items = v
		case map[string]any, string:
			items = []any{v}
		case nil:
			items = []any{}
		default:
			return nil, fmt.Errorf("%s must be a list, got %T", name, payload)
		}
		entries := make([]any, 0, len(items))
		for i, item := range items {
			switch v := item.(type) {
			case map[string]any:
				entries = append(entries, normalizeEntry(name, v))
			case string:
				entry, ok := liftString(name, v)
				if !ok {
					return nil, fmt.Errorf("%s[%d] must be an object", name, i)
				}
				if entry != nil {
					entries = append(entries, entry)
				}
			default:
				return nil, fmt.Errorf("%s[%d] must be an object, got %T", name, i, item)
			}
		}
		content = entries
	}

	data, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	section, err := types.UnmarshalSection(name, data)
	if err != nil {
		return nil, err
	}
	return normalizeSkills(section), nil
}

// liftString turns a plain string list item into an entry for sections that allow it
func liftString(name types.SectionName, value string) (map[string]any, bool) {
	value = strings.TrimSpace(value)
	switch name {
	case types.SectionSkills, types.SectionInterests:
		if value == "" {
			return nil, true
		}
		return map[string]any{"name": value}, true
	case types.SectionLanguages:
		if value == "" {
			return nil, true
		}
		return map[string]any{"language": value}, true
	}
	return nil, false
}

// normalizeEntry coerces scalar values to the string shapes the section types expect
func normalizeEntry(name types.SectionName, entry map[string]any) map[string]any {
	out := make(map[string]any, len(entry))
	for key, value := range entry {
		if listFields[key] {
			out[key] = normalizeList(key, value)
			continue
		}
		if name == types.SectionBasics && key == "location" {
			if loc, ok := value.(map[string]any); ok {
				out[key] = normalizeEntry(name, loc)
				continue
			}
			if s, ok := value.(string); ok {
				out[key] = map[string]any{"city": s}
				continue
			}
		}
		out[key] = normalizeScalar(value)
	}
	return out
}

func normalizeList(key string, value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if key == "profiles" {
			return nil
		}
		return []any{v}
	case []any:
		if key == "profiles" {
			return v
		}
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, normalizeScalar(item))
		}
		return items
	}
	return value
}

func normalizeScalar(value any) any {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return value
}
