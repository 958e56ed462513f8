package validation

import (
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classy(t *testing.T) *templates.TemplateRequirements {
	t.Helper()
	reqs, err := templates.NewDefaultRegistry().Get(templates.StyleClassy)
	require.NoError(t, err)
	return reqs
}

func issueFields(issues []types.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Field)
	}
	return out
}

func TestValidate_CompleteWorkEntry(t *testing.T) {
	ts := types.WorkSection{Items: []types.Work{{
		Name:       "Acme",
		Position:   "Engineer",
		StartDate:  "2020-01",
		EndDate:    "Present",
		Highlights: []string{"Reduced latency by 40%"},
	}}}

	report := Validate(ts, classy(t))
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Suggestions)
	assert.Equal(t, 1.0, report.Score)
	assert.Equal(t, types.QualitySuccess, report.Status)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	ts := types.WorkSection{Items: []types.Work{
		{Name: "Acme", Position: "Engineer", StartDate: "2020-01"},
		{Name: "Globex", Position: "Company Name"},
	}}

	report := Validate(ts, classy(t))
	assert.ElementsMatch(t, []string{"work[1].position", "work[1].startDate"}, issueFields(report.Issues))
	assert.Equal(t, 2, report.Blocking())
	assert.Equal(t, 0.4, report.Score)
	assert.Equal(t, types.QualityFailed, report.Status)
}

func TestValidate_BasicsPaths(t *testing.T) {
	report := Validate(types.BasicsSection{Basics: types.Basics{Name: "John", Label: "Nurse"}}, classy(t))

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "basics.email", report.Issues[0].Field)
	assert.Equal(t, RuleRequired, report.Issues[0].Rule)
	assert.True(t, report.Issues[0].Blocking())
	assert.Equal(t, 0.7, report.Score)
	assert.Equal(t, types.QualityFailed, report.Status)
}

func TestValidate_EmptyListSection(t *testing.T) {
	report := Validate(types.EducationSection{}, classy(t))
	assert.ElementsMatch(t,
		[]string{"education[0].institution", "education[0].area", "education[0].studyType"},
		issueFields(report.Issues))
	assert.Equal(t, 0.1, report.Score)
}

func TestValidate_LengthLimits(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		severity types.Severity
		count    int
	}{
		{name: "within limit", summary: strings.Repeat("a", 500), count: 0},
		{name: "over limit", summary: strings.Repeat("a", 501), severity: types.SeverityWarning, count: 1},
		{name: "over twice the limit", summary: strings.Repeat("a", 1001), severity: types.SeverityBlocking, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := types.BasicsSection{Basics: types.Basics{Name: "Jo", Email: "jo@example.com", Summary: tt.summary}}
			report := Validate(ts, classy(t))
			require.Len(t, report.Issues, tt.count)
			if tt.count > 0 {
				assert.Equal(t, "basics.summary", report.Issues[0].Field)
				assert.Equal(t, tt.severity, report.Issues[0].Severity)
			}
		})
	}
}

func TestValidate_HighlightItemLength(t *testing.T) {
	ts := types.WorkSection{Items: []types.Work{{
		Name: "Acme", Position: "Engineer", StartDate: "2020-01",
		Highlights: []string{"Cut costs 10%", strings.Repeat("x", 151) + " 5"},
	}}}

	report := Validate(ts, classy(t))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "work[0].highlights[1]", report.Issues[0].Field)
	assert.Equal(t, types.SeverityWarning, report.Issues[0].Severity)
	assert.Equal(t, types.QualityWarning, report.Status)
}

func TestValidate_KeywordCount(t *testing.T) {
	keywords := make([]string, 11)
	for i := range keywords {
		keywords[i] = "kw"
	}
	report := Validate(types.SkillsSection{Items: []types.Skill{{Name: "Go", Keywords: keywords}}}, classy(t))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleMaxItems, report.Issues[0].Rule)
	assert.Equal(t, "skills[0].keywords", report.Issues[0].Field)
}

func TestValidate_WeakVerbs(t *testing.T) {
	ts := types.WorkSection{Items: []types.Work{{
		Name: "Acme", Position: "Engineer", StartDate: "2020-01",
		Summary:    "Helped the team ship features",
		Highlights: []string{"Worked on billing for 3 teams", "Led a migration"},
	}}}

	report := Validate(ts, classy(t))
	assert.Empty(t, report.Issues)
	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, "work[0].summary", report.Suggestions[0].Field)
	assert.Contains(t, report.Suggestions[0].Message, `"helped"`)
	assert.Equal(t, "work[0].highlights[0]", report.Suggestions[1].Field)
	assert.Equal(t, 0.9, report.Score)
	assert.Equal(t, types.QualitySuccess, report.Status)
}

func TestValidate_UnquantifiedHighlights(t *testing.T) {
	ts := types.ProjectsSection{Items: []types.Project{{
		Name: "Atlas", Description: "Built a search engine", Highlights: []string{"Designed the index"},
	}}}

	report := Validate(ts, classy(t))
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "projects[0].highlights", report.Suggestions[0].Field)
}

func TestValidate_FormatWarnings(t *testing.T) {
	ts := types.BasicsSection{Basics: types.Basics{Name: "John", Email: "john-at-example"}}
	report := Validate(ts, classy(t))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleEmail, report.Issues[0].Rule)
	assert.False(t, report.Issues[0].Blocking())
	assert.Equal(t, types.QualityWarning, report.Status)

	work := types.WorkSection{Items: []types.Work{{Name: "Acme", Position: "Dev", StartDate: "March 2020", EndDate: "2019-01"}}}
	report = Validate(work, classy(t))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleDateFormat, report.Issues[0].Rule)

	work.Items[0].StartDate = "2021-01"
	report = Validate(work, classy(t))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleDateOrder, report.Issues[0].Rule)
}

func TestValidate_LowScoreWithoutIssuesIsWarning(t *testing.T) {
	highlights := []string{
		"Helped a", "Helped b", "Helped c", "Helped d", "Helped e", "Helped f", "Helped 7",
	}
	ts := types.WorkSection{Items: []types.Work{{Name: "Acme", Position: "Dev", StartDate: "2020-01", Highlights: highlights}}}

	report := Validate(ts, classy(t))
	assert.Empty(t, report.Issues)
	assert.Len(t, report.Suggestions, 7)
	assert.Equal(t, 0.65, report.Score)
	assert.Equal(t, types.QualityWarning, report.Status)
}

func TestValidate_NilSection(t *testing.T) {
	report := Validate(nil, classy(t))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleMissing, report.Issues[0].Rule)
	assert.Equal(t, types.QualityFailed, report.Status)
}

func TestValidate_ScoreFloorsAtZero(t *testing.T) {
	ts := types.WorkSection{Items: []types.Work{{}, {}}}
	report := Validate(ts, classy(t))
	assert.Equal(t, 6, report.Blocking())
	assert.Equal(t, 0.0, report.Score)
}

func TestWeakOpener(t *testing.T) {
	phrase, ok := weakOpener("Was involved in the redesign")
	assert.True(t, ok)
	assert.Equal(t, "was involved in", phrase)

	_, ok = weakOpener("Madeleine led the team")
	assert.False(t, ok)
	_, ok = weakOpener("Architected the platform")
	assert.False(t, ok)
}
