package guidance

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

// openers ask for a section that has no content yet
var openers = map[types.SectionName]string{
	types.SectionWork:         "Tell me about your work experience. Where have you worked?",
	types.SectionEducation:    "Tell me about your education. What degrees do you have?",
	types.SectionSkills:       "What technical skills and tools are you comfortable with?",
	types.SectionProjects:     "Tell me about a project you're proud of.",
	types.SectionAwards:       "Do you have any certifications or awards?",
	types.SectionLanguages:    "What languages do you speak?",
	types.SectionInterests:    "What are your professional interests?",
	types.SectionVolunteer:    "Have you done any volunteer work?",
	types.SectionPublications: "Have you published any articles or papers?",
	types.SectionReferences:   "Is there someone who could give you a reference?",
}

var basicsQuestions = map[string]string{
	"name":    "What's your full name?",
	"email":   "What's your email address?",
	"phone":   "What's your phone number?",
	"label":   "What's your current job title?",
	"summary": "Tell me about yourself. What's your professional summary?",
}

// basicsOrder is the order basics questions are asked in
var basicsOrder = []string{"name", "email", "phone", "label", "summary"}

// suggestTopics ranks follow-up questions: required sections in registry order, then the rest in global order
func suggestTopics(state *types.DocumentState, reqs *templates.TemplateRequirements) []string {
	order := append([]types.SectionName{}, reqs.RequiredSections...)
	for _, name := range types.AllSections {
		if !reqs.IsRequired(name) {
			order = append(order, name)
		}
	}

	topics := []string{}
	for _, name := range order {
		if statusOf(state, name) == types.StatusComplete {
			continue
		}
		for _, q := range sectionQuestions(state.Document, name) {
			if len(topics) == MaxSuggestedTopics {
				return topics
			}
			topics = append(topics, q)
		}
	}
	return topics
}

func sectionQuestions(doc types.Document, name types.SectionName) []string {
	if name == types.SectionBasics {
		var out []string
		for _, field := range basicsOrder {
			if f, ok := types.FieldByName(doc.Basics, field); ok && !f.Present() {
				out = append(out, basicsQuestions[field])
			}
		}
		return out
	}

	section := doc.Section(name)
	if section == nil || len(section.Entries()) == 0 {
		return []string{openers[name]}
	}

	var out []string
	switch s := section.(type) {
	case types.WorkSection:
		for _, w := range s.Items {
			org := orDefault(w.Name, "that job")
			if w.Position == "" {
				out = append(out, fmt.Sprintf("What was your role at %s?", org))
			}
			if w.StartDate == "" {
				out = append(out, fmt.Sprintf("When did you start at %s?", org))
			}
			if len(w.Highlights) == 0 {
				out = append(out, fmt.Sprintf("What were your key achievements at %s?", org))
			}
		}
	case types.EducationSection:
		for _, e := range s.Items {
			school := orDefault(e.Institution, "school")
			if e.Institution == "" {
				out = append(out, "Which school or university did you attend?")
			}
			if e.StudyType == "" {
				out = append(out, fmt.Sprintf("What type of degree did you get from %s?", school))
			}
			if e.Area == "" {
				out = append(out, fmt.Sprintf("What did you study at %s?", school))
			}
		}
	case types.ProjectsSection:
		for _, p := range s.Items {
			if p.Description == "" {
				out = append(out, fmt.Sprintf("What does %s do, and what was your part in it?", orDefault(p.Name, "that project")))
			}
		}
	case types.SkillsSection:
		if len(s.Items) < 5 {
			out = append(out, "Which other tools or technologies do you use regularly?")
		}
	}
	return out
}

func orDefault(value, fallback string) string {
	if types.IsPlaceholder(value) {
		return fallback
	}
	return value
}
