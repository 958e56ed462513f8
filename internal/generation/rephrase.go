package generation

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Rephrase restates a section in one human-readable line per entry
func Rephrase(section types.TypedSection) string {
	if section == nil {
		return ""
	}
	var lines []string
	switch s := section.(type) {
	case types.BasicsSection:
		lines = append(lines, joinNonEmpty(", ", s.Basics.Name, s.Basics.Label, s.Basics.Email))
	case types.WorkSection:
		for _, w := range s.Items {
			lines = append(lines, joinNonEmpty(" ", joinNonEmpty(" at ", w.Position, w.Name), period(w.StartDate, w.EndDate)))
		}
	case types.VolunteerSection:
		for _, v := range s.Items {
			lines = append(lines, joinNonEmpty(" ", joinNonEmpty(" at ", v.Position, v.Organization), period(v.StartDate, v.EndDate)))
		}
	case types.EducationSection:
		for _, e := range s.Items {
			lines = append(lines, joinNonEmpty(" from ", joinNonEmpty(" in ", e.StudyType, e.Area), e.Institution))
		}
	case types.SkillsSection:
		for _, sk := range s.Items {
			if sk.Level != "" {
				lines = append(lines, sk.Name+" ("+sk.Level+")")
			} else {
				lines = append(lines, sk.Name)
			}
		}
	case types.ProjectsSection:
		for _, p := range s.Items {
			lines = append(lines, joinNonEmpty(": ", p.Name, p.Description))
		}
	case types.AwardsSection:
		for _, a := range s.Items {
			lines = append(lines, joinNonEmpty(" from ", a.Title, a.Awarder))
		}
	case types.PublicationsSection:
		for _, p := range s.Items {
			lines = append(lines, joinNonEmpty(", ", p.Name, p.Publisher))
		}
	case types.LanguagesSection:
		for _, l := range s.Items {
			lines = append(lines, joinNonEmpty(" - ", l.Language, l.Fluency))
		}
	case types.InterestsSection:
		for _, i := range s.Items {
			lines = append(lines, i.Name)
		}
	case types.ReferencesSection:
		for _, r := range s.Items {
			lines = append(lines, joinNonEmpty(": ", r.Name, r.Reference))
		}
	}
	return strings.Join(nonEmpty(lines), "\n")
}

func period(start, end string) string {
	if start == "" {
		return ""
	}
	if end == "" {
		return "(from " + start + ")"
	}
	return "(" + start + " - " + end + ")"
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
