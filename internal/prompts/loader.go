// Package prompts holds the embedded generation prompt set.
// A set is a flat JSON object of named templates using {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// GenerationFile holds the section generation prompt, per-section instructions and format examples
const GenerationFile = "generation.json"

// Keys inside GenerationFile
const (
	KeyGenerateSection = "generate-section"
	sectionPrefix      = "section-"
	examplePrefix      = "example-"
)

var placeholderRe = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

// MissingPromptError is returned when a set has no template under a key
type MissingPromptError struct {
	Set string
	Key string
}

func (e *MissingPromptError) Error() string {
	return fmt.Sprintf("prompt key %q not found in %s", e.Key, e.Set)
}

// Set is a named collection of prompt templates
type Set struct {
	name    string
	prompts map[string]string
}

// SectionPrompt is everything the generator needs for one resume section
type SectionPrompt struct {
	Template     string
	Instructions string
	Example      string
}

var loadDefault = sync.OnceValues(func() (*Set, error) {
	return Load(promptFiles, GenerationFile)
})

// Default returns the embedded generation set. It is parsed once per process.
func Default() (*Set, error) {
	return loadDefault()
}

// Load reads a prompt set from fsys
func Load(fsys fs.FS, name string) (*Set, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
	}
	return &Set{name: name, prompts: prompts}, nil
}

// Get returns the template stored under key
func (s *Set) Get(key string) (string, error) {
	prompt, ok := s.prompts[key]
	if !ok {
		return "", &MissingPromptError{Set: s.name, Key: key}
	}
	return prompt, nil
}

// Section collects the generation template with the instructions and JSON example of a section
func (s *Set) Section(section string) (*SectionPrompt, error) {
	template, err := s.Get(KeyGenerateSection)
	if err != nil {
		return nil, err
	}
	instructions, err := s.Get(sectionPrefix + section)
	if err != nil {
		return nil, err
	}
	example, err := s.Get(examplePrefix + section)
	if err != nil {
		return nil, err
	}
	return &SectionPrompt{Template: template, Instructions: instructions, Example: example}, nil
}

// Keys lists the template names in the set, sorted
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.prompts))
	for key := range s.prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Format fills {{.Key}} placeholders from data. Placeholders without a value are left in place.
func Format(template string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if value, ok := data[name]; ok {
			return value
		}
		return m
	})
}

// Unfilled returns the placeholder names still present in a formatted prompt
func Unfilled(prompt string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(prompt, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}
