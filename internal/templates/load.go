package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-builder/internal/types"
)

// styleFile is the YAML layout for extra style definitions
type styleFile struct {
	Styles []struct {
		ID               int                                       `yaml:"id"`
		Name             string                                    `yaml:"name"`
		NPMPackage       string                                    `yaml:"npm_package"`
		Description      string                                    `yaml:"description"`
		Category         Category                                  `yaml:"category"`
		Version          string                                    `yaml:"version"`
		Author           string                                    `yaml:"author"`
		RequiredSections []types.SectionName                       `yaml:"required_sections"`
		Sections         map[types.SectionName]SectionRequirements `yaml:"sections"`
	} `yaml:"styles"`
}

// LoadFile registers the styles declared in a YAML file
func (r *Registry) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read style file %s: %w", path, err)
	}
	return r.LoadYAML(data)
}

// LoadYAML registers the styles declared in YAML content and returns how many were added
func (r *Registry) LoadYAML(data []byte) (int, error) {
	var file styleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("failed to parse style YAML: %w", err)
	}

	added := 0
	for _, s := range file.Styles {
		err := r.Register(TemplateRequirements{
			StyleID:          s.ID,
			Name:             s.Name,
			NPMPackage:       s.NPMPackage,
			Description:      s.Description,
			Category:         s.Category,
			Version:          s.Version,
			Author:           s.Author,
			RequiredSections: s.RequiredSections,
			Sections:         s.Sections,
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
