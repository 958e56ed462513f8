package guidance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func registryWith(t *testing.T, id int, sections ...types.SectionName) *templates.TemplateRequirements {
	t.Helper()
	r := templates.NewDefaultRegistry()
	require.NoError(t, r.Register(templates.TemplateRequirements{
		StyleID:          id,
		Name:             "Test",
		Category:         templates.CategoryProfessional,
		RequiredSections: sections,
	}))
	reqs, err := r.Get(id)
	require.NoError(t, err)
	return reqs
}

func markComplete(state *types.DocumentState, names ...types.SectionName) {
	for _, name := range names {
		rec := state.Record(name)
		rec.Status = types.StatusComplete
		rec.UpdatedAt = now.Add(-time.Minute)
	}
}

func TestCompletionPercentage(t *testing.T) {
	five := []types.SectionName{types.SectionBasics, types.SectionWork, types.SectionEducation, types.SectionSkills, types.SectionProjects}
	reqs := registryWith(t, 100, five...)

	tests := []struct {
		name     string
		complete []types.SectionName
		want     float64
		done     bool
	}{
		{"none", nil, 0.0, false},
		{"two of five", five[:2], 40.0, false},
		{"all", five, 100.0, true},
		{"optional sections do not count", []types.SectionName{types.SectionAwards, types.SectionLanguages}, 0.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := types.NewDocumentState("d1", "u1", 100, now)
			markComplete(state, tt.complete...)

			summary := Summarize(state, reqs, now)
			assert.Equal(t, tt.want, summary.CompletionPercentage)
			assert.Equal(t, tt.done, summary.DocumentComplete)
			if tt.done {
				assert.Nil(t, summary.PrioritySection)
			} else {
				require.NotNil(t, summary.PrioritySection)
			}
		})
	}
}

func TestCompletionPercentage_Rounding(t *testing.T) {
	assert.Equal(t, 33.3, completionPercentage(1, 3))
	assert.Equal(t, 66.7, completionPercentage(2, 3))
	assert.Equal(t, 100.0, completionPercentage(0, 0))
}

func TestPrioritySection_FollowsRegistryOrder(t *testing.T) {
	reqs := registryWith(t, 100, types.SectionWork, types.SectionBasics, types.SectionSkills)
	state := types.NewDocumentState("d1", "u1", 100, now)

	summary := Summarize(state, reqs, now)
	require.NotNil(t, summary.PrioritySection)
	assert.Equal(t, types.SectionWork, *summary.PrioritySection)

	markComplete(state, types.SectionWork)
	summary = Summarize(state, reqs, now)
	assert.Equal(t, types.SectionBasics, *summary.PrioritySection)
}

func TestSummarize_NurseWithoutEmail(t *testing.T) {
	reqs := registryWith(t, 100, types.SectionBasics, types.SectionWork)
	state := types.NewDocumentState("d1", "u1", 100, now)
	state.Document.Basics = types.Basics{Name: "John", Label: "Nurse"}
	rec := state.Record(types.SectionBasics)
	rec.Status = types.StatusPartial
	rec.UpdatedAt = now.Add(-time.Minute)

	summary := Summarize(state, reqs, now)

	assert.Equal(t, types.StatusPartial, summary.SectionStatus[types.SectionBasics])
	assert.Equal(t, types.StatusNotStarted, summary.SectionStatus[types.SectionWork])
	assert.Equal(t, []string{"basics.email", "work"}, summary.MissingCriticalInfo)
	assert.Equal(t, types.SectionBasics, *summary.PrioritySection)
	assert.Equal(t, 0.0, summary.CompletionPercentage)
	assert.Equal(t, "What's your email address?", summary.SuggestedTopics[0])
	assert.Contains(t, summary.FlowHints, HintActiveSession)
	assert.Equal(t, "gathering_experience", summary.Insights.ResumeStage)
}

func TestMissingCriticalInfo_ListEntries(t *testing.T) {
	reqs := registryWith(t, 100, types.SectionWork)
	state := types.NewDocumentState("d1", "u1", 100, now)
	state.Document.Work = []types.Work{
		{Name: "Acme", Position: "Engineer", StartDate: "2020-01"},
		{Name: "Globex", Position: "Analyst"},
	}

	summary := Summarize(state, reqs, now)
	assert.Equal(t, []string{"work[1].startDate"}, summary.MissingCriticalInfo)
}

func TestSuggestedTopics(t *testing.T) {
	reqs := registryWith(t, 100, types.SectionBasics, types.SectionWork)

	t.Run("capped and ranked", func(t *testing.T) {
		state := types.NewDocumentState("d1", "u1", 100, now)
		topics := Summarize(state, reqs, now).SuggestedTopics
		require.Len(t, topics, MaxSuggestedTopics)
		assert.Equal(t, "What's your full name?", topics[0])
		assert.Equal(t, "What's your email address?", topics[1])
	})

	t.Run("required sections before optional", func(t *testing.T) {
		state := types.NewDocumentState("d1", "u1", 100, now)
		state.Document.Basics = types.Basics{Name: "Jane", Email: "j@x.io", Phone: "1", Label: "Dev", Summary: "Builder"}
		markComplete(state, types.SectionBasics)
		state.Document.Work = []types.Work{{Name: "Acme", Position: "Engineer"}}

		topics := Summarize(state, reqs, now).SuggestedTopics
		require.GreaterOrEqual(t, len(topics), 3)
		assert.Equal(t, "When did you start at Acme?", topics[0])
		assert.Equal(t, "What were your key achievements at Acme?", topics[1])
		assert.Equal(t, "Tell me about your education. What degrees do you have?", topics[2])
	})

	t.Run("complete sections are skipped", func(t *testing.T) {
		state := types.NewDocumentState("d1", "u1", 100, now)
		markComplete(state, types.AllSections...)
		assert.Empty(t, Summarize(state, reqs, now).SuggestedTopics)
	})
}

func TestFlowHints(t *testing.T) {
	reqs := registryWith(t, 100, types.SectionBasics, types.SectionWork)

	t.Run("fresh document", func(t *testing.T) {
		state := types.NewDocumentState("d1", "u1", 100, now)
		hints := Summarize(state, reqs, now).FlowHints
		assert.Equal(t, []string{HintNeedsGuidance, HintStartWithBasics}, hints)
	})

	t.Run("returning user with improving quality", func(t *testing.T) {
		state := types.NewDocumentState("d1", "u1", 100, now)
		markComplete(state, types.SectionBasics)
		state.Document.Work = []types.Work{{Name: "Acme"}}
		old := now.Add(-48 * time.Hour)
		for i, score := range []float64{0.4, 0.7, 0.9} {
			rec := state.Record(types.AllSections[i])
			rec.UpdatedAt = old
			rec.History = append(rec.History, types.HistoryEntry{
				ResultID: "r", Score: score, AppliedAt: old.Add(time.Duration(i) * time.Minute),
			})
		}

		hints := Summarize(state, reqs, now).FlowHints
		assert.Contains(t, hints, HintCommitted)
		assert.Contains(t, hints, HintHasExperience)
		assert.Contains(t, hints, HintReturningUser)
		assert.Contains(t, hints, HintQualityUp)
		assert.NotContains(t, hints, HintActiveSession)
	})

	t.Run("declining quality", func(t *testing.T) {
		state := types.NewDocumentState("d1", "u1", 100, now)
		for i, score := range []float64{1.0, 0.9, 0.8, 0.5} {
			rec := state.Record(types.AllSections[i])
			rec.UpdatedAt = now.Add(-time.Hour)
			rec.History = append(rec.History, types.HistoryEntry{
				ResultID: "r", Score: score, AppliedAt: now.Add(time.Duration(i-10) * time.Minute),
			})
		}
		hints := Summarize(state, reqs, now).FlowHints
		assert.Contains(t, hints, HintQualityDown)
	})
}

func TestInsights(t *testing.T) {
	reqs := registryWith(t, 100, types.SectionBasics, types.SectionWork, types.SectionEducation, types.SectionSkills)
	state := types.NewDocumentState("d1", "u1", 100, now)
	state.Document.Basics.Name = "Jane"
	state.Document.Work = []types.Work{{Name: "A"}, {Name: "B"}}
	markComplete(state, types.SectionBasics, types.SectionWork)
	state.Record(types.SectionBasics).LastScore = 0.9
	state.Record(types.SectionBasics).History = []types.HistoryEntry{{ResultID: "r1"}}
	state.Record(types.SectionWork).LastScore = 0.6
	state.Record(types.SectionWork).History = []types.HistoryEntry{{ResultID: "r2"}}

	got := Summarize(state, reqs, now).Insights
	assert.Equal(t, "adding_education", got.ResumeStage)
	assert.Equal(t, "mid_level", got.ExperienceLevel)
	assert.Equal(t, 10, got.EstimatedMinutesRemaining)
	assert.Equal(t, "collaborative_and_refining", got.ConversationTone)
	assert.Equal(t, 0.75, got.AverageQuality)
}

func TestSummarize_DoesNotMutateState(t *testing.T) {
	reqs := registryWith(t, 100, types.SectionBasics)
	state := types.NewDocumentState("d1", "u1", 100, now)
	before := state.Clone()

	Summarize(state, reqs, now)
	assert.Equal(t, before, state)
}
