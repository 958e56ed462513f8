package parsing

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// all-caps names are acronyms (SQL, AWS) and mixed case is deliberate
	if normalized != lower {
		return normalized
	}

	// single lowercase word: capitalize the first letter
	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	return normalized
}

// normalizeSkills canonicalizes skill names and keywords, dropping duplicates
func normalizeSkills(section types.TypedSection) types.TypedSection {
	skills, ok := section.(types.SkillsSection)
	if !ok {
		return section
	}

	out := types.SkillsSection{Items: make([]types.Skill, 0, len(skills.Items))}
	seen := make(map[string]int)
	for _, skill := range skills.Items {
		skill.Name = NormalizeSkillName(skill.Name)
		for i, kw := range skill.Keywords {
			skill.Keywords[i] = NormalizeSkillName(kw)
		}
		key := strings.ToLower(skill.Name)
		if idx, exists := seen[key]; exists && key != "" {
			if out.Items[idx].Level == "" {
				out.Items[idx].Level = skill.Level
			}
			out.Items[idx].Keywords = append(out.Items[idx].Keywords, skill.Keywords...)
			continue
		}
		out.Items = append(out.Items, skill)
		seen[key] = len(out.Items) - 1
	}
	return out
}
