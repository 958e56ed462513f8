package tracker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, *events.MemoryPublisher, *types.DocumentState) {
	t.Helper()
	publisher := &events.MemoryPublisher{}
	tr := New(NewMemoryStore(), templates.NewDefaultRegistry(),
		WithPublisher(publisher),
		WithClock(func() time.Time { return fixedNow }))
	state, err := tr.Create(context.Background(), "user-1", templates.StyleClassy)
	require.NoError(t, err)
	return tr, publisher, state
}

func workResult(id string) *types.GenerationResult {
	return &types.GenerationResult{
		ID:       id,
		Section:  types.SectionWork,
		Provider: types.ProviderPrimary,
		RawInput: "engineer at Acme since 2020",
		Content: types.WorkSection{Items: []types.Work{
			{Name: "Acme", Position: "Engineer", StartDate: "2020-01"},
		}},
		Score:  1,
		Status: types.QualitySuccess,
	}
}

func TestCreate(t *testing.T) {
	tr, _, state := newTestTracker(t)

	assert.NotEmpty(t, state.ID)
	assert.Equal(t, "user-1", state.UserID)
	assert.Equal(t, fixedNow, state.CreatedAt)
	assert.Len(t, state.Records, len(types.AllSections))
	for _, rec := range state.Records {
		assert.Equal(t, types.StatusNotStarted, rec.Status)
	}

	_, err := tr.Create(context.Background(), "user-1", 999)
	var unknown *templates.UnknownStyleError
	assert.ErrorAs(t, err, &unknown)
}

func TestApply_CompletesSection(t *testing.T) {
	tr, publisher, state := newTestTracker(t)

	outcome, err := tr.Apply(context.Background(), state.ID, types.SectionWork, workResult("r-1"))
	require.NoError(t, err)

	assert.True(t, outcome.Applied)
	assert.Empty(t, outcome.Reason)
	assert.Equal(t, types.StatusComplete, outcome.Record.Status)
	assert.Equal(t, 1, outcome.State.Version)
	require.Len(t, outcome.Record.History, 1)
	assert.Equal(t, "r-1", outcome.Record.History[0].ResultID)
	assert.Equal(t, "Acme", outcome.State.Document.Work[0].Name)

	published := publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeSectionUpdated, published[0].Type)
	assert.Equal(t, state.ID, published[0].DocumentID)
	assert.Equal(t, types.StatusComplete, published[0].Status)
}

func TestApply_IsIdempotent(t *testing.T) {
	tr, publisher, state := newTestTracker(t)
	result := workResult("r-1")

	_, err := tr.Apply(context.Background(), state.ID, types.SectionWork, result)
	require.NoError(t, err)
	before, err := tr.Snapshot(context.Background(), state.ID)
	require.NoError(t, err)

	outcome, err := tr.Apply(context.Background(), state.ID, types.SectionWork, result)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Equal(t, ReasonDuplicate, outcome.Reason)

	after, err := tr.Snapshot(context.Background(), state.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, publisher.Events(), 1)
}

func TestApply_ZeroScoreLeavesRecordUntouched(t *testing.T) {
	tr, publisher, state := newTestTracker(t)

	result := workResult("r-1")
	result.Score = 0
	result.Status = types.QualityFailed

	outcome, err := tr.Apply(context.Background(), state.ID, types.SectionWork, result)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Equal(t, ReasonZeroScore, outcome.Reason)
	assert.Equal(t, types.StatusNotStarted, outcome.Record.Status)
	assert.Empty(t, outcome.Record.History)
	assert.Equal(t, 0, outcome.State.Version)
	assert.Empty(t, publisher.Events())
}

func TestApply_BlockingIssueKeepsSectionPartial(t *testing.T) {
	tr, _, state := newTestTracker(t)

	result := &types.GenerationResult{
		ID:       "r-john",
		Section:  types.SectionBasics,
		Provider: types.ProviderRuleBased,
		RawInput: "I am John, a nurse",
		Content:  types.BasicsSection{Basics: types.Basics{Name: "John", Label: "Nurse"}},
		Score:    0.7,
		Status:   types.QualityFailed,
		Issues: []types.Issue{{
			Field: "basics.email", Rule: "required_field", Severity: types.SeverityBlocking, Message: "missing email",
		}},
	}

	outcome, err := tr.Apply(context.Background(), state.ID, types.SectionBasics, result)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	assert.Equal(t, types.StatusPartial, outcome.Record.Status)
	assert.Equal(t, "John", outcome.State.Document.Basics.Name)
}

func TestApply_FailedResultDoesNotRegressSection(t *testing.T) {
	tr, publisher, state := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.Apply(ctx, state.ID, types.SectionWork, workResult("r-1"))
	require.NoError(t, err)

	garbage := &types.GenerationResult{
		ID: "r-2", Section: types.SectionWork, Provider: types.ProviderRuleBased, Score: 0.7, Status: types.QualityFailed,
		RawInput: "I also mentored four engineers at Acme",
		Content: types.WorkSection{Items: []types.Work{
			{Name: "Acme", Position: "I Also Mentored Four Engineers"},
		}},
		Issues: []types.Issue{{
			Field: "work[1].startDate", Rule: "required_field", Severity: types.SeverityBlocking, Message: "startDate is required",
		}},
	}
	outcome, err := tr.Apply(ctx, state.ID, types.SectionWork, garbage)
	require.NoError(t, err)

	assert.False(t, outcome.Applied)
	assert.Equal(t, ReasonBlocking, outcome.Reason)
	assert.Equal(t, types.StatusComplete, outcome.Record.Status)
	require.Len(t, outcome.State.Document.Work, 1)
	assert.Equal(t, "Engineer", outcome.State.Document.Work[0].Position)
	assert.Equal(t, 1, outcome.State.Version)
	assert.Len(t, publisher.Events(), 1)
}

func TestApply_FailedResultExtendsPartialSection(t *testing.T) {
	tr, _, state := newTestTracker(t)
	ctx := context.Background()
	missingEmail := types.Issue{Field: "basics.email", Rule: "required_field", Severity: types.SeverityBlocking, Message: "missing email"}

	first := &types.GenerationResult{
		ID: "r-1", Section: types.SectionBasics, Provider: types.ProviderRuleBased, Score: 0.7, Status: types.QualityFailed,
		Content: types.BasicsSection{Basics: types.Basics{Name: "John"}},
		Issues:  []types.Issue{missingEmail},
	}
	_, err := tr.Apply(ctx, state.ID, types.SectionBasics, first)
	require.NoError(t, err)

	second := &types.GenerationResult{
		ID: "r-2", Section: types.SectionBasics, Provider: types.ProviderRuleBased, Score: 0.7, Status: types.QualityFailed,
		Content: types.BasicsSection{Basics: types.Basics{Phone: "555-0100"}},
		Issues:  []types.Issue{missingEmail},
	}
	outcome, err := tr.Apply(ctx, state.ID, types.SectionBasics, second)
	require.NoError(t, err)

	assert.True(t, outcome.Applied, "the same blocking issue as before is not a regression")
	assert.Equal(t, types.StatusPartial, outcome.Record.Status)
	assert.Equal(t, "555-0100", outcome.State.Document.Basics.Phone)
}

func TestApply_LaterUpdateCompletesSection(t *testing.T) {
	tr, _, state := newTestTracker(t)
	ctx := context.Background()

	first := &types.GenerationResult{
		ID: "r-1", Section: types.SectionBasics, Provider: types.ProviderPrimary, Score: 1, Status: types.QualitySuccess,
		Content: types.BasicsSection{Basics: types.Basics{Name: "John"}},
	}
	outcome, err := tr.Apply(ctx, state.ID, types.SectionBasics, first)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPartial, outcome.Record.Status, "email is still missing from stored content")

	second := &types.GenerationResult{
		ID: "r-2", Section: types.SectionBasics, Provider: types.ProviderPrimary, Score: 1, Status: types.QualitySuccess,
		Content: types.BasicsSection{Basics: types.Basics{Email: "john@example.com"}},
	}
	outcome, err = tr.Apply(ctx, state.ID, types.SectionBasics, second)
	require.NoError(t, err)
	assert.Equal(t, types.StatusComplete, outcome.Record.Status)
	assert.Equal(t, "John", outcome.State.Document.Basics.Name)
	assert.Len(t, outcome.Record.History, 2)
	assert.Equal(t, 2, outcome.State.Version)
}

func TestApply_Errors(t *testing.T) {
	tr, _, state := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.Apply(ctx, "missing", types.SectionWork, workResult("r-1"))
	var notFound *DocumentNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = tr.Apply(ctx, state.ID, "hobbies", workResult("r-1"))
	var invalid *types.InvalidSectionError
	assert.ErrorAs(t, err, &invalid)

	_, err = tr.Apply(ctx, state.ID, types.SectionSkills, workResult("r-1"))
	assert.ErrorAs(t, err, &invalid)
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	tr, _, state := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.Apply(ctx, state.ID, types.SectionWork, workResult("r-1"))
	require.NoError(t, err)

	snap, err := tr.Snapshot(ctx, state.ID)
	require.NoError(t, err)
	snap.Document.Work[0].Name = "Changed"
	snap.Records[types.SectionWork].Status = types.StatusNotStarted

	again, err := tr.Snapshot(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Document.Work[0].Name)
	assert.Equal(t, types.StatusComplete, again.Records[types.SectionWork].Status)
}

func TestDelete(t *testing.T) {
	tr, _, state := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tr.Delete(ctx, state.ID))

	_, err := tr.Snapshot(ctx, state.ID)
	var notFound *DocumentNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.ErrorAs(t, tr.Delete(ctx, state.ID), &notFound)
}

func TestApply_ConcurrentUpdatesAreSerialized(t *testing.T) {
	tr, publisher, state := newTestTracker(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result := &types.GenerationResult{
				ID: fmt.Sprintf("r-%d", i), Section: types.SectionSkills, Provider: types.ProviderPrimary,
				Score: 1, Status: types.QualitySuccess,
				Content: types.SkillsSection{Items: []types.Skill{{Name: fmt.Sprintf("Skill%d", i)}}},
			}
			_, err := tr.Apply(ctx, state.ID, types.SectionSkills, result)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := tr.Snapshot(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, n, snap.Version)
	assert.Len(t, snap.Document.Skills, n)
	assert.Len(t, snap.Records[types.SectionSkills].History, n)
	assert.Len(t, publisher.Events(), n)
	assert.Zero(t, tr.locks.size())
}

func TestRequiredFieldsPresent(t *testing.T) {
	required := []string{"name", "position", "startDate"}

	tests := []struct {
		name    string
		section types.TypedSection
		want    bool
	}{
		{"nil", nil, false},
		{"empty list", types.WorkSection{Items: []types.Work{}}, false},
		{"complete", types.WorkSection{Items: []types.Work{{Name: "Acme", Position: "Engineer", StartDate: "2020-01"}}}, true},
		{"missing start", types.WorkSection{Items: []types.Work{{Name: "Acme", Position: "Engineer"}}}, false},
		{"placeholder", types.WorkSection{Items: []types.Work{{Name: "Company Name", Position: "Engineer", StartDate: "2020-01"}}}, false},
		{"second entry incomplete", types.WorkSection{Items: []types.Work{
			{Name: "Acme", Position: "Engineer", StartDate: "2020-01"},
			{Name: "Globex"},
		}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiredFieldsPresent(tt.section, required))
		})
	}
}
