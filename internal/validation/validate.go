// Package validation scores parsed resume sections against style requirements.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	blockingPenalty   = 0.3
	suggestionPenalty = 0.05
	// acceptableScore is the lowest score reported as success when no issues were found
	acceptableScore = 0.7
)

// Rule identifiers reported on issues
const (
	RuleRequired   = "required_field"
	RuleMaxLength  = "max_length"
	RuleMaxItems   = "max_items"
	RuleEmail      = "email_format"
	RuleDateFormat = "date_format"
	RuleDateOrder  = "date_order"
	RuleMissing    = "missing_content"
)

// Report is the outcome of validating one section
type Report struct {
	Issues      []types.Issue       `json:"issues"`
	Suggestions []types.Suggestion  `json:"suggestions"`
	Score       float64             `json:"score"`
	Status      types.QualityStatus `json:"status"`
}

// Blocking returns the number of blocking issues
func (r *Report) Blocking() int {
	return types.CountBlocking(r.Issues)
}

var validate = validator.New()

// Validate runs every rule against the section and scores the result.
// No rule short-circuits another; a nil section yields a single blocking issue.
func Validate(ts types.TypedSection, reqs *templates.TemplateRequirements) *Report {
	report := &Report{Issues: []types.Issue{}, Suggestions: []types.Suggestion{}}
	if ts == nil {
		report.Issues = append(report.Issues, types.Issue{
			Field: "(root)", Rule: RuleMissing, Severity: types.SeverityBlocking, Message: "section content is missing",
		})
		report.finish()
		return report
	}

	name := ts.Section()
	var sectionReqs templates.SectionRequirements
	if reqs != nil {
		sectionReqs = reqs.Sections[name]
	}

	entries := ts.Entries()
	if name.IsList() && len(entries) == 0 {
		for _, field := range sectionReqs.Required {
			report.Issues = append(report.Issues, types.Issue{
				Field:    fmt.Sprintf("%s[0].%s", name, field),
				Rule:     RuleRequired,
				Severity: types.SeverityBlocking,
				Message:  fmt.Sprintf("%s is required", field),
			})
		}
	}

	for i, entry := range entries {
		prefix := string(name)
		if name.IsList() {
			prefix = fmt.Sprintf("%s[%d]", name, i)
		}
		report.checkRequired(prefix, entry, sectionReqs.Required)
		report.checkLengths(prefix, entry, sectionReqs.MaxLength)
		report.checkLexical(name, prefix, entry)
		report.checkFormats(prefix, entry)
	}

	report.finish()
	return report
}

func (r *Report) checkRequired(prefix string, entry types.Entry, required []string) {
	for _, field := range required {
		f, ok := types.FieldByName(entry, field)
		if ok && f.Present() {
			continue
		}
		r.Issues = append(r.Issues, types.Issue{
			Field:    prefix + "." + field,
			Rule:     RuleRequired,
			Severity: types.SeverityBlocking,
			Message:  fmt.Sprintf("%s is required", field),
		})
	}
}

func (r *Report) checkLengths(prefix string, entry types.Entry, limits map[string]int) {
	for _, f := range entry.Fields() {
		path := prefix + "." + f.Name
		if f.List {
			if limit, ok := limits[f.Name]; ok {
				r.overLimit(path, RuleMaxItems, len(f.Items), limit, "items")
			}
			if limit, ok := limits[templates.ItemLengthKey]; ok && f.Name == "highlights" {
				for j, item := range f.Items {
					r.overLimit(fmt.Sprintf("%s[%d]", path, j), RuleMaxLength, utf8.RuneCountInString(item), limit, "characters")
				}
			}
			continue
		}
		if limit, ok := limits[f.Name]; ok {
			r.overLimit(path, RuleMaxLength, utf8.RuneCountInString(f.Text), limit, "characters")
		}
	}
}

// overLimit records a warning past the limit and a blocking issue past twice the limit
func (r *Report) overLimit(path, rule string, size, limit int, unit string) {
	if limit <= 0 || size <= limit {
		return
	}
	severity := types.SeverityWarning
	if size > 2*limit {
		severity = types.SeverityBlocking
	}
	r.Issues = append(r.Issues, types.Issue{
		Field:    path,
		Rule:     rule,
		Severity: severity,
		Message:  fmt.Sprintf("%d %s exceeds the limit of %d", size, unit, limit),
	})
}

// achievementFields lists the fields whose text should open with an action verb
var achievementFields = map[types.SectionName][]string{
	types.SectionBasics:    {"summary"},
	types.SectionWork:      {"summary", "highlights"},
	types.SectionVolunteer: {"summary", "highlights"},
	types.SectionProjects:  {"description", "highlights"},
}

func (r *Report) checkLexical(name types.SectionName, prefix string, entry types.Entry) {
	for _, fieldName := range achievementFields[name] {
		f, ok := types.FieldByName(entry, fieldName)
		if !ok {
			continue
		}
		path := prefix + "." + fieldName
		if !f.List {
			r.suggestStrongerVerb(path, f.Text)
			continue
		}
		quantified := false
		for j, item := range f.Items {
			r.suggestStrongerVerb(fmt.Sprintf("%s[%d]", path, j), item)
			quantified = quantified || isQuantified(item)
		}
		if len(f.Items) > 0 && !quantified {
			r.Suggestions = append(r.Suggestions, types.Suggestion{
				Field:   path,
				Message: "add a measurable result (numbers, percentages or scale) to at least one highlight",
			})
		}
	}

	if name == types.SectionSkills {
		if f, ok := types.FieldByName(entry, "level"); ok && f.Present() && !standardSkillLevels[strings.ToLower(strings.TrimSpace(f.Text))] {
			r.Suggestions = append(r.Suggestions, types.Suggestion{
				Field:   prefix + ".level",
				Message: "use a standard level such as Beginner, Intermediate, Advanced or Expert",
			})
		}
	}
}

func (r *Report) suggestStrongerVerb(path, text string) {
	if phrase, weak := weakOpener(text); weak {
		r.Suggestions = append(r.Suggestions, types.Suggestion{
			Field:   path,
			Message: fmt.Sprintf("start with a strong action verb such as \"led\" or \"built\" instead of %q", phrase),
		})
	}
}

var dateFields = map[string]bool{"startDate": true, "endDate": true, "date": true, "releaseDate": true}

func (r *Report) checkFormats(prefix string, entry types.Entry) {
	var start, end string
	for _, f := range entry.Fields() {
		if f.List || !f.Present() {
			continue
		}
		path := prefix + "." + f.Name
		switch {
		case f.Name == "email":
			if err := validate.Var(strings.TrimSpace(f.Text), "email"); err != nil {
				r.Issues = append(r.Issues, types.Issue{
					Field: path, Rule: RuleEmail, Severity: types.SeverityWarning, Message: "email address is not well formed",
				})
			}
		case dateFields[f.Name]:
			if !validDate(f.Text) {
				r.Issues = append(r.Issues, types.Issue{
					Field: path, Rule: RuleDateFormat, Severity: types.SeverityWarning,
					Message: fmt.Sprintf("date %q should use YYYY-MM or YYYY-MM-DD", f.Text),
				})
			}
		}
		switch f.Name {
		case "startDate":
			start = strings.TrimSpace(f.Text)
		case "endDate":
			end = strings.TrimSpace(f.Text)
		}
	}
	if dateRe.MatchString(start) && dateRe.MatchString(end) && start > end {
		r.Issues = append(r.Issues, types.Issue{
			Field: prefix + ".startDate", Rule: RuleDateOrder, Severity: types.SeverityWarning,
			Message: "start date is after end date",
		})
	}
}

// finish computes score and status from the collected findings
func (r *Report) finish() {
	score := math.Max(0, 1.0-blockingPenalty*float64(r.Blocking()))
	score = math.Max(0, score-suggestionPenalty*float64(len(r.Suggestions)))
	r.Score = math.Round(score*100) / 100

	switch {
	case r.Blocking() > 0:
		r.Status = types.QualityFailed
	case len(r.Issues) > 0 || r.Score < acceptableScore:
		r.Status = types.QualityWarning
	default:
		r.Status = types.QualitySuccess
	}
}
