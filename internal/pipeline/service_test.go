package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/tracker"
	"github.com/jonathan/resume-builder/internal/types"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const goodWork = `{"name": "Acme", "position": "Engineer", "startDate": "2020-01", "endDate": "Present",
	"highlights": ["Reduced checkout latency by 40%"]}`

// fakeClient answers every prompt through respond
type fakeClient struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	calls   int
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func (f *fakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func answer(response string) *fakeClient {
	return &fakeClient{respond: func(string) (string, error) { return response, nil }}
}

func failing(err error) *fakeClient {
	return &fakeClient{respond: func(string) (string, error) { return "", err }}
}

type fixture struct {
	svc       *Service
	publisher *events.MemoryPublisher
	store     *tracker.MemoryStore
}

func newFixture(t *testing.T, primary, secondary llm.Client, cache *generation.ResultCache) *fixture {
	t.Helper()
	registry := templates.NewDefaultRegistry()
	clock := func() time.Time { return fixedNow }

	gen, err := generation.New(registry, generation.Options{
		Stages: generation.DefaultStages(primary, secondary),
		Cache:  cache,
		Now:    clock,
	})
	require.NoError(t, err)

	publisher := &events.MemoryPublisher{}
	store := tracker.NewMemoryStore()
	tr := tracker.New(store, registry,
		tracker.WithPublisher(publisher),
		tracker.WithClock(clock))
	return &fixture{
		svc:       NewService(registry, tr, gen, Options{Now: clock}),
		publisher: publisher,
		store:     store,
	}
}

func (f *fixture) create(t *testing.T) *types.DocumentState {
	t.Helper()
	state, err := f.svc.CreateDocument(context.Background(), &types.CreateDocumentRequest{
		UserID:  "user-1",
		StyleID: templates.StyleClassy,
	})
	require.NoError(t, err)
	return state
}

func turn(documentID, section, input string) *types.GenerationRequest {
	return &types.GenerationRequest{
		StyleID:    templates.StyleClassy,
		Section:    section,
		RawInput:   input,
		UserID:     "user-1",
		DocumentID: documentID,
	}
}

func TestRequestGeneration_OpensDocumentAndCompletesSection(t *testing.T) {
	f := newFixture(t, answer(goodWork), nil, nil)

	resp, err := f.svc.RequestGeneration(context.Background(), turn("", "work", "engineer at Acme since 2020"))
	require.NoError(t, err)

	assert.Equal(t, types.ResponseSuccess, resp.Status)
	assert.NotEmpty(t, resp.DocumentID)
	assert.Equal(t, types.SectionWork, resp.Section)
	assert.Equal(t, types.StatusComplete, resp.SectionStatus)
	assert.Equal(t, types.ProviderPrimary, resp.Provider)
	assert.Equal(t, "Engineer at Acme (2020-01 - Present)", resp.RephrasedContent)

	require.NotNil(t, resp.CompletenessSummary)
	assert.Equal(t, types.StatusComplete, resp.CompletenessSummary.SectionStatus[types.SectionWork])
	assert.Contains(t, resp.CompletenessSummary.CompletedSections, types.SectionWork)

	doc, err := f.svc.GetDocument(context.Background(), resp.DocumentID)
	require.NoError(t, err)
	require.Len(t, doc.Work, 1)
	assert.Equal(t, "Acme", doc.Work[0].Name)
	assert.Len(t, f.publisher.Events(), 1)
}

func TestRequestGeneration_NurseWithoutEmail(t *testing.T) {
	john := `{"name": "John", "label": "Nurse"}`
	f := newFixture(t, answer(john), answer(john), nil)
	state := f.create(t)

	resp, err := f.svc.RequestGeneration(context.Background(), turn(state.ID, "basics", "I am John, a nurse"))
	require.NoError(t, err)

	assert.Equal(t, types.ResponseFailed, resp.Status)
	assert.Equal(t, types.ProviderRuleBased, resp.Provider)
	assert.Equal(t, 0.7, resp.Score)
	assert.Equal(t, types.StatusPartial, resp.SectionStatus)
	assert.Equal(t, "John, Nurse", resp.RephrasedContent)

	var blocking []string
	for _, issue := range resp.ValidationIssues {
		if issue.Blocking() {
			blocking = append(blocking, issue.Field)
		}
	}
	assert.Equal(t, []string{"basics.email"}, blocking)
	assert.Contains(t, resp.CompletenessSummary.MissingCriticalInfo, "basics.email")

	doc, err := f.svc.GetDocument(context.Background(), state.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", doc.Basics.Name)
	assert.Equal(t, "Nurse", doc.Basics.Label)
}

func TestRequestGeneration_AllProvidersFailIsNoUpdate(t *testing.T) {
	f := newFixture(t,
		failing(errors.New("503 service unavailable")),
		answer("I'm sorry, I cannot help with that."),
		nil)
	state := f.create(t)
	ctx := context.Background()

	before, err := f.svc.GetGuidance(ctx, state.ID)
	require.NoError(t, err)

	resp, err := f.svc.RequestGeneration(ctx, turn(state.ID, "education", "I'd rather not say"))
	require.NoError(t, err)

	assert.Equal(t, types.ResponseNoUpdate, resp.Status)
	assert.Equal(t, tracker.ReasonZeroScore, resp.Reason)
	assert.Equal(t, types.StatusNotStarted, resp.SectionStatus)
	assert.Equal(t, before, resp.CompletenessSummary)

	snap, err := f.svc.Snapshot(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Version)
	assert.Empty(t, snap.Records[types.SectionEducation].History)
	assert.Empty(t, f.publisher.Events())
}

func TestRequestGeneration_RepeatedTurnIsDuplicate(t *testing.T) {
	primary := answer(goodWork)
	f := newFixture(t, primary, nil, generation.NewResultCache(time.Minute))
	state := f.create(t)
	ctx := context.Background()

	first, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "engineer at Acme since 2020"))
	require.NoError(t, err)
	assert.Equal(t, types.ResponseSuccess, first.Status)

	second, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "engineer at Acme since 2020"))
	require.NoError(t, err)
	assert.Equal(t, types.ResponseNoUpdate, second.Status)
	assert.Equal(t, tracker.ReasonDuplicate, second.Reason)
	assert.Equal(t, types.StatusComplete, second.SectionStatus)
	assert.Equal(t, 1, primary.Calls())

	snap, err := f.svc.Snapshot(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
	assert.Len(t, snap.Records[types.SectionWork].History, 1)
}

func TestRequestGeneration_LaterTurnDoesNotRegressSection(t *testing.T) {
	f := newFixture(t, &fakeClient{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "since 2020") {
			return goodWork, nil
		}
		return `{"name": "Acme", "position": "Engineer", "highlights": ["Mentored four engineers"]}`, nil
	}}, nil, nil)
	state := f.create(t)
	ctx := context.Background()

	_, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "engineer at Acme since 2020"))
	require.NoError(t, err)
	resp, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "I also mentored four engineers at Acme"))
	require.NoError(t, err)

	assert.Equal(t, types.StatusComplete, resp.SectionStatus)
	doc, err := f.svc.GetDocument(ctx, state.ID)
	require.NoError(t, err)
	require.Len(t, doc.Work, 1)
	assert.Equal(t, "2020-01", doc.Work[0].StartDate)
	assert.Equal(t, []string{"Reduced checkout latency by 40%", "Mentored four engineers"}, doc.Work[0].Highlights)
}

func TestRequestGeneration_FollowUpWithoutPositionExtendsEntry(t *testing.T) {
	primaryDown := false
	f := newFixture(t, &fakeClient{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "since 2020"):
			return goodWork, nil
		case primaryDown:
			return "", errors.New("503 service unavailable")
		default:
			return `{"name": "Acme", "highlights": ["Mentored four engineers"]}`, nil
		}
	}}, nil, nil)
	state := f.create(t)
	ctx := context.Background()

	_, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "engineer at Acme since 2020"))
	require.NoError(t, err)

	resp, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "I mentored four engineers at Acme"))
	require.NoError(t, err)
	assert.Equal(t, types.ProviderPrimary, resp.Provider)
	assert.Equal(t, types.StatusComplete, resp.SectionStatus)

	primaryDown = true
	resp, err = f.svc.RequestGeneration(ctx, turn(state.ID, "work", "I also mentored four engineers at Acme"))
	require.NoError(t, err)
	assert.Equal(t, types.ProviderRuleBased, resp.Provider)
	assert.NotEqual(t, types.ResponseFailed, resp.Status)
	assert.Equal(t, types.StatusComplete, resp.SectionStatus)

	doc, err := f.svc.GetDocument(ctx, state.ID)
	require.NoError(t, err)
	require.Len(t, doc.Work, 1)
	assert.Equal(t, "Engineer", doc.Work[0].Position)
	assert.Contains(t, doc.Work[0].Highlights, "Mentored four engineers")
}

func TestRequestGeneration_BlockedResultKeepsCompleteSection(t *testing.T) {
	f := newFixture(t, &fakeClient{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "since 2020") {
			return goodWork, nil
		}
		return `{"name": "Globex", "position": "Lead"}`, nil
	}}, nil, nil)
	state := f.create(t)
	ctx := context.Background()

	_, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "engineer at Acme since 2020"))
	require.NoError(t, err)
	resp, err := f.svc.RequestGeneration(ctx, turn(state.ID, "work", "Lead at Globex"))
	require.NoError(t, err)

	assert.Equal(t, types.ResponseNoUpdate, resp.Status)
	assert.Equal(t, tracker.ReasonBlocking, resp.Reason)
	assert.Equal(t, types.StatusComplete, resp.SectionStatus)
	assert.NotEmpty(t, resp.ValidationIssues)

	doc, err := f.svc.GetDocument(ctx, state.ID)
	require.NoError(t, err)
	require.Len(t, doc.Work, 1)
	assert.Equal(t, "Acme", doc.Work[0].Name)
}

func TestRequestGeneration_CancelledTurnLeavesNoDocument(t *testing.T) {
	f := newFixture(t, answer(goodWork), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := turn("", "work", "engineer at Acme since 2020")
	_, err := f.svc.RequestGeneration(ctx, req)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.store.Len())

	state := f.create(t)
	_, err = f.svc.RequestGeneration(ctx, turn(state.ID, "work", "engineer at Acme since 2020"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.store.Len(), "an existing document must survive a failed turn")
}

func TestRequestGeneration_RejectsBeforeAnyProviderRuns(t *testing.T) {
	primary := answer(goodWork)
	f := newFixture(t, primary, nil, nil)
	state := f.create(t)
	ctx := context.Background()

	modern, err := f.svc.CreateDocument(ctx, &types.CreateDocumentRequest{UserID: "user-1", StyleID: templates.StyleModern})
	require.NoError(t, err)

	var requestErr *RequestError
	var invalid *types.InvalidSectionError
	var unknown *templates.UnknownStyleError
	var notFound *tracker.DocumentNotFoundError

	tests := []struct {
		name   string
		req    *types.GenerationRequest
		target any
	}{
		{"empty input", turn(state.ID, "work", ""), &requestErr},
		{"missing user", &types.GenerationRequest{StyleID: templates.StyleClassy, Section: "work", RawInput: "x"}, &requestErr},
		{"unknown section", turn(state.ID, "hobbies", "I like chess"), &invalid},
		{"unknown style", &types.GenerationRequest{StyleID: 999, Section: "work", RawInput: "x", UserID: "user-1"}, &unknown},
		{"unknown document", turn("5f1c2f4e-8d0b-4b3e-9a53-0a6c7f0e2b11", "work", "x"), &notFound},
		{"someone else's document", &types.GenerationRequest{
			StyleID: templates.StyleClassy, Section: "work", RawInput: "x", UserID: "user-2", DocumentID: state.ID,
		}, &notFound},
		{"style mismatch", turn(modern.ID, "work", "x"), &requestErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RequestGeneration(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
		})
	}
	assert.Equal(t, 0, primary.Calls())
}

func TestRequestGenerationWithProgress(t *testing.T) {
	f := newFixture(t, answer(goodWork), nil, nil)
	state := f.create(t)

	var steps []string
	_, err := f.svc.RequestGenerationWithProgress(context.Background(),
		turn(state.ID, "work", "engineer at Acme since 2020"),
		func(event ProgressEvent) {
			assert.Equal(t, state.ID, event.DocumentID)
			assert.Equal(t, types.SectionWork, event.Section)
			steps = append(steps, event.Step)
		})
	require.NoError(t, err)
	assert.Equal(t, []string{StepSnapshot, StepGenerate, StepApply, StepSummarize}, steps)
}

func TestDocumentLifecycle(t *testing.T) {
	f := newFixture(t, answer(goodWork), nil, nil)
	ctx := context.Background()

	_, err := f.svc.CreateDocument(ctx, &types.CreateDocumentRequest{UserID: "", StyleID: templates.StyleClassy})
	var requestErr *RequestError
	assert.ErrorAs(t, err, &requestErr)

	state := f.create(t)
	summary, err := f.svc.GetGuidance(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.CompletionPercentage)
	require.NotNil(t, summary.PrioritySection)
	assert.Equal(t, types.SectionBasics, *summary.PrioritySection)

	require.NoError(t, f.svc.DeleteDocument(ctx, state.ID))

	var notFound *tracker.DocumentNotFoundError
	_, err = f.svc.GetGuidance(ctx, state.ID)
	assert.ErrorAs(t, err, &notFound)
	_, err = f.svc.GetDocument(ctx, state.ID)
	assert.ErrorAs(t, err, &notFound)
}

func TestValidateDocument(t *testing.T) {
	f := newFixture(t, answer(goodWork), nil, nil)
	state := f.create(t)
	ctx := context.Background()

	report, err := f.svc.ValidateDocument(ctx, state.ID)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Empty(t, report.SchemaErrors)

	reqs, err := f.svc.Registry().Get(templates.StyleClassy)
	require.NoError(t, err)
	require.Len(t, report.Sections, len(reqs.RequiredSections))
	for _, section := range report.Sections {
		assert.True(t, reqs.IsRequired(section.Section), section.Section)
	}

	_, err = f.svc.RequestGeneration(ctx, turn(state.ID, "work", "engineer at Acme since 2020"))
	require.NoError(t, err)

	report, err = f.svc.ValidateDocument(ctx, state.ID)
	require.NoError(t, err)
	for _, section := range report.Sections {
		if section.Section == types.SectionWork {
			assert.Equal(t, types.QualitySuccess, section.Status)
			assert.Empty(t, section.Issues)
		}
	}
}
