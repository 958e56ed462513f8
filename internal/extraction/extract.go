// Package extraction is the deterministic last-resort provider. It pulls what it can
// out of raw input with patterns and never invents values it did not find.
package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Extract returns a structurally valid, possibly empty, section for the raw input
func Extract(section types.SectionName, raw string) types.TypedSection {
	raw = strings.TrimSpace(raw)
	switch section {
	case types.SectionBasics:
		return types.BasicsSection{Basics: extractBasics(raw)}
	case types.SectionWork:
		return types.WorkSection{Items: entries(extractWork(raw))}
	case types.SectionVolunteer:
		return types.VolunteerSection{Items: entries(extractVolunteer(raw))}
	case types.SectionEducation:
		return types.EducationSection{Items: entries(extractEducation(raw))}
	case types.SectionSkills:
		return types.SkillsSection{Items: extractSkills(raw)}
	case types.SectionProjects:
		return types.ProjectsSection{Items: entries(extractProject(raw))}
	case types.SectionAwards:
		return types.AwardsSection{Items: entries(extractAward(raw))}
	case types.SectionPublications:
		return types.PublicationsSection{Items: entries(extractPublication(raw))}
	case types.SectionLanguages:
		return types.LanguagesSection{Items: extractLanguages(raw)}
	case types.SectionInterests:
		return types.InterestsSection{Items: extractInterests(raw)}
	case types.SectionReferences:
		return types.ReferencesSection{Items: entries(extractReference(raw))}
	}
	return nil
}

// entries wraps a single extracted entry, dropping it when nothing was found
func entries[T types.Entry](entry T) []T {
	if types.IsEmptyEntry(entry) {
		return []T{}
	}
	return []T{entry}
}

var (
	nameLeadRe  = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm|this is|name:)\s+`)
	labelRe     = regexp.MustCompile(`(?i)(?:,\s*(?:i am |i'm )?an?|\bi am an?|\bi'm an?|\bwork(?:ing)? as an?|\bwork(?:ing)? as)\s+([a-z][a-z -]{1,40}?)(?:\s+(?:at|with|for|in|from|based)\b|[,.;!]|$)`)
	notNameWord = map[string]bool{"A": true, "An": true, "The": true, "I": true}
)

func extractBasics(raw string) types.Basics {
	var b types.Basics
	if m := emailRe.FindString(raw); m != "" {
		b.Email = m
	}
	if m := phoneRe.FindString(raw); m != "" {
		b.Phone = strings.TrimSpace(m)
	}
	if m := urlRe.FindString(raw); m != "" {
		b.URL = strings.TrimRight(m, ".")
	}
	if loc := nameLeadRe.FindStringIndex(raw); loc != nil {
		name := capitalizedRun(raw[loc[1]:], 3)
		if first := strings.Fields(name); len(first) > 0 && !notNameWord[first[0]] {
			b.Name = name
		}
	}
	if m := labelRe.FindStringSubmatch(raw); m != nil {
		b.Label = titleCase(strings.TrimSpace(m[1]))
	}
	return b
}

var (
	roleAtRe = regexp.MustCompile(`(?:^|\b(?i:as an?|as|was an?|am an?|i'm an?)\s+)((?i:[a-z][a-z /&-]{1,50}?))\s+(?i:at|for|with)\s+([A-Z0-9][\w&'.-]*(?:\s+(?:[A-Z0-9&][\w&'.-]*|of|and|de))*)`)
	orgAtRe  = regexp.MustCompile(`\b(?:at|for|with)\s+([A-Z0-9][\w&'.-]*(?:\s+(?:[A-Z0-9&][\w&'.-]*|of|and))*)`)
	fromToRe = regexp.MustCompile(`(?i)\b(?:from|since|between|in)\s+.*$`)
)

func cleanRole(role string) string {
	role = fromToRe.ReplaceAllString(role, "")
	role = stripLead(role, "i worked as a", "i work as a", "i was a", "i am a", "i'm a", "worked as", "work as", "i was", "i am")
	return titleCase(strings.TrimSpace(role))
}

// subjectLed reports a clause such as "I also mentored ..." that the role pattern picked up as a job title
func subjectLed(role string) bool {
	first, _, _ := strings.Cut(strings.ToLower(role), " ")
	return subjectWords[first]
}

var subjectWords = map[string]bool{
	"i": true, "we": true, "my": true, "our": true, "he": true, "she": true, "they": true, "also": true,
}

// achievements keeps the sentences that read like results
func achievements(raw string, skip string) []string {
	var out []string
	for _, s := range sentences(raw) {
		if s == skip || wordCount(s) < 3 {
			continue
		}
		if isAchievement(s) {
			out = append(out, s)
		}
	}
	return out
}

var achievementRe = regexp.MustCompile(`(?i)\d|%|\b(led|built|created|designed|developed|improved|increased|reduced|launched|managed|mentored|delivered|implemented|shipped|cared|trained)\b`)

func isAchievement(s string) bool {
	return achievementRe.MatchString(s)
}

func extractWork(raw string) types.Work {
	var w types.Work
	for _, s := range sentences(raw) {
		m := roleAtRe.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		role := cleanRole(m[1])
		if subjectLed(role) {
			continue
		}
		w.Position = role
		w.Name = strings.TrimSpace(m[2])
		w.Highlights = achievements(raw, s)
		break
	}
	if w.Name == "" {
		if m := orgAtRe.FindStringSubmatch(raw); m != nil {
			w.Name = strings.TrimSpace(m[1])
			w.Highlights = achievements(raw, "")
		}
	}
	if w.Name == "" && w.Position == "" {
		return types.Work{}
	}
	w.StartDate, w.EndDate = dateRange(raw)
	w.URL = urlRe.FindString(raw)
	return w
}

var volunteerOrgRe = regexp.MustCompile(`(?i:volunteer(?:ed|ing)?)\s+(?:(?i:as an?)\s+((?i:[a-z][a-z -]{1,40}?))\s+)?(?i:at|with|for)\s+([A-Za-z0-9][\w&'.-]*(?:\s+(?:[A-Z0-9&][\w&'.-]*|of|and|for))*)`)

func extractVolunteer(raw string) types.Volunteer {
	var v types.Volunteer
	if m := volunteerOrgRe.FindStringSubmatch(raw); m != nil {
		v.Position = titleCase(strings.TrimSpace(m[1]))
		v.Organization = strings.TrimSpace(m[2])
	} else {
		w := extractWork(raw)
		v.Organization, v.Position = w.Name, w.Position
	}
	if v.Organization == "" && v.Position == "" {
		return types.Volunteer{}
	}
	v.StartDate, v.EndDate = dateRange(raw)
	v.Highlights = achievements(raw, "")
	return v
}

var (
	degreePatterns = []struct {
		re    *regexp.Regexp
		label string
	}{
		{regexp.MustCompile(`(?i)\b(ph\.?d|doctorate|doctoral)\b`), "PhD"},
		{regexp.MustCompile(`(?i)\bmba\b`), "MBA"},
		{regexp.MustCompile(`(?i)\b(master'?s?|msc|m\.s\.|ms|ma)\b`), "Master"},
		{regexp.MustCompile(`(?i)\b(bachelor'?s?|bsc|b\.s\.|bs|ba|bsn|undergraduate)\b`), "Bachelor"},
		{regexp.MustCompile(`(?i)\bassociate'?s?\b`), "Associate"},
		{regexp.MustCompile(`(?i)\b(high school|diploma)\b`), "Diploma"},
	}
	institutionRe = regexp.MustCompile(`((?:[A-Z][\w&'.-]*\s+)*(?:University|College|Institute|School|Academy|Polytechnic)(?:\s+(?:of|for|at)(?:\s+[A-Z][\w&'.-]*)+)*)`)
	areaRe        = regexp.MustCompile(`(?i)\b(?:degree|diploma|bachelor'?s?|master'?s?|ph\.?d|doctorate|bsc|msc|bsn|mba|ba|bs|ms|ma|majored|major|studied|studying)\s+(?:degree\s+)?(?:in|of)\s+([a-z][a-z &-]{1,60}?)(?:\s+(?:from|at)\b|[,.;]|\s+(?:19|20)\d{2}|$)`)
)

func extractEducation(raw string) types.Education {
	var e types.Education
	for _, d := range degreePatterns {
		if d.re.MatchString(raw) {
			e.StudyType = d.label
			break
		}
	}
	if m := institutionRe.FindString(raw); m != "" {
		e.Institution = strings.TrimSpace(m)
	}
	if m := areaRe.FindStringSubmatch(raw); m != nil {
		area := strings.TrimSpace(m[1])
		// "science in nursing" names the field after the last "in"
		if idx := strings.LastIndex(strings.ToLower(area), " in "); idx >= 0 {
			area = area[idx+4:]
		}
		e.Area = titleCase(area)
	}
	if e.Institution == "" && e.StudyType == "" && e.Area == "" {
		return types.Education{}
	}
	e.StartDate, e.EndDate = dateRange(raw)
	return e
}

var skillLevelRe = regexp.MustCompile(`(?i)\b(beginner|intermediate|advanced|expert|proficient)\b`)

func extractSkills(raw string) []types.Skill {
	text := stripLead(raw, "my skills are", "my skills include", "skills include", "skills are", "skills", "i know", "i can use", "i am good at", "i'm good at", "i use", "proficient in")
	level := ""
	if m := skillLevelRe.FindString(text); m != "" {
		level = titleCase(strings.ToLower(m))
		text = skillLevelRe.ReplaceAllString(text, "")
	}

	skills := []types.Skill{}
	seen := make(map[string]bool)
	for _, item := range splitList(text) {
		item = stripLead(item, "in ", "with ")
		if wordCount(item) == 0 || wordCount(item) > 4 || types.IsPlaceholder(item) {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, types.Skill{Name: item, Level: level})
	}
	return skills
}

var (
	projectNameRe = regexp.MustCompile(`(?i)\b(?:called|named|titled)\s+([A-Z0-9][\w.-]*(?:\s+[A-Z0-9][\w.-]*)*)`)
	projectWordRe = regexp.MustCompile(`\b([A-Z][\w.-]+)\s+(?i:project|app|application|tool|library)\b`)
	techRe        = regexp.MustCompile(`(?i)\b(?:using|with|built on|written in)\s+(.+?)(?:[.;]|$)`)
)

func extractProject(raw string) types.Project {
	var p types.Project
	switch {
	case quotedRe.MatchString(raw):
		p.Name = strings.TrimSpace(quotedRe.FindStringSubmatch(raw)[1])
	case projectNameRe.MatchString(raw):
		p.Name = strings.TrimSpace(projectNameRe.FindStringSubmatch(raw)[1])
	case projectWordRe.MatchString(raw):
		p.Name = strings.TrimSpace(projectWordRe.FindStringSubmatch(raw)[1])
	}
	if p.Name == "" && wordCount(raw) < 4 {
		return types.Project{}
	}
	p.Description = raw
	if m := techRe.FindStringSubmatch(raw); m != nil {
		for _, kw := range splitList(m[1]) {
			if wordCount(kw) <= 3 {
				p.Keywords = append(p.Keywords, kw)
			}
		}
	}
	p.Highlights = achievements(raw, "")
	p.URL = urlRe.FindString(raw)
	p.StartDate, p.EndDate = dateRange(raw)
	return p
}

var awarderRe = regexp.MustCompile(`\b(?:from|by)\s+(?:the\s+)?([A-Z][\w&'.-]*(?:\s+(?:[A-Z][\w&'.-]*|of|for|and))*)`)

func extractAward(raw string) types.Award {
	var a types.Award
	if m := quotedRe.FindStringSubmatch(raw); m != nil {
		a.Title = strings.TrimSpace(m[1])
	} else if ss := sentences(raw); len(ss) > 0 && wordCount(ss[0]) <= 10 {
		a.Title = stripLead(ss[0], "i won the", "i won", "i received the", "i received", "won the", "won", "received the", "received", "awarded the", "awarded")
		if loc := awarderRe.FindStringIndex(a.Title); loc != nil {
			a.Title = strings.TrimSpace(a.Title[:loc[0]])
		}
		a.Title = titleCase(strings.Trim(a.Title, " ,"))
	}
	if m := awarderRe.FindStringSubmatch(raw); m != nil {
		a.Awarder = strings.TrimSpace(m[1])
	}
	if dates := findDates(raw); len(dates) > 0 {
		a.Date = dates[0].value
	}
	if a.Title == "" && a.Awarder == "" {
		return types.Award{}
	}
	return a
}

var publisherRe = regexp.MustCompile(`\b(?:in|by|published by|at)\s+(?:the\s+)?([A-Z][\w&'.-]*(?:\s+(?:[A-Z][\w&'.-]*|of|on|for|and))*)`)

func extractPublication(raw string) types.Publication {
	var p types.Publication
	if m := quotedRe.FindStringSubmatch(raw); m != nil {
		p.Name = strings.TrimSpace(m[1])
	}
	if m := publisherRe.FindStringSubmatch(raw); m != nil {
		p.Publisher = strings.TrimSpace(m[1])
	}
	if dates := findDates(raw); len(dates) > 0 {
		p.ReleaseDate = dates[0].value
	}
	p.URL = urlRe.FindString(raw)
	if p.Name == "" && p.Publisher == "" {
		return types.Publication{}
	}
	return p
}

var (
	knownLanguages = map[string]bool{
		"english": true, "spanish": true, "french": true, "german": true, "italian": true, "portuguese": true,
		"mandarin": true, "chinese": true, "cantonese": true, "japanese": true, "korean": true, "hindi": true,
		"arabic": true, "russian": true, "dutch": true, "swedish": true, "polish": true, "turkish": true,
		"vietnamese": true, "greek": true, "hebrew": true, "tagalog": true, "ukrainian": true, "bengali": true,
		"urdu": true, "persian": true, "swahili": true, "thai": true, "indonesian": true, "norwegian": true,
	}
	fluencyRe = regexp.MustCompile(`(?i)\b(native|fluent|bilingual|conversational|professional|intermediate|basic|beginner|elementary|advanced)\b`)
)

func extractLanguages(raw string) []types.Language {
	out := []types.Language{}
	seen := make(map[string]bool)
	for _, item := range splitList(raw) {
		fluency := ""
		if m := fluencyRe.FindString(item); m != "" {
			fluency = titleCase(strings.ToLower(m))
		}
		for _, word := range strings.Fields(item) {
			key := strings.ToLower(strings.Trim(word, "(),.:"))
			if !knownLanguages[key] || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, types.Language{Language: titleCase(key), Fluency: fluency})
		}
	}
	return out
}

func extractInterests(raw string) []types.Interest {
	text := stripLead(raw, "my interests are", "my interests include", "my hobbies are", "i enjoy", "i like", "i love", "interests", "hobbies")
	out := []types.Interest{}
	for _, item := range splitList(text) {
		if wordCount(item) == 0 || wordCount(item) > 4 || types.IsPlaceholder(item) {
			continue
		}
		out = append(out, types.Interest{Name: titleCase(item)})
	}
	return out
}

var referenceFromRe = regexp.MustCompile(`\b(?:from|by)\s+([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*){0,3})`)

func extractReference(raw string) types.Reference {
	var r types.Reference
	if m := quotedRe.FindStringSubmatch(raw); m != nil {
		r.Reference = strings.TrimSpace(m[1])
	}
	if m := referenceFromRe.FindStringSubmatch(raw); m != nil {
		r.Name = strings.TrimSpace(m[1])
	}
	if r.Reference == "" && r.Name == "" {
		return types.Reference{}
	}
	return r
}
