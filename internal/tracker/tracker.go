// Package tracker owns per-document section state.
//
// Every read and write of a document goes through the Tracker, which serializes
// them per document id. Different documents never contend for the same lock.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// Reasons an Apply left the document unchanged
const (
	ReasonZeroScore = "zero_score"
	ReasonDuplicate = "duplicate"
	ReasonBlocking  = "blocking"
)

// ApplyOutcome reports what Apply did. Record and State are copies taken after the call.
type ApplyOutcome struct {
	Record  *types.SectionRecord
	State   *types.DocumentState
	Applied bool
	Reason  string
}

// Tracker applies generation results to documents
type Tracker struct {
	store     Store
	registry  *templates.Registry
	publisher events.Publisher
	locks     *lockArena
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Tracker
type Option func(*Tracker)

// WithPublisher sets where section updates are announced
func WithPublisher(p events.Publisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

// WithLogger sets the tracker logger
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a tracker over a store
func New(store Store, registry *templates.Registry, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		registry:  registry,
		publisher: events.NopPublisher{},
		locks:     newLockArena(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Create opens a new document for a user in a registered style
func (t *Tracker) Create(ctx context.Context, userID string, styleID int) (*types.DocumentState, error) {
	if _, err := t.registry.Get(styleID); err != nil {
		return nil, err
	}
	state := types.NewDocumentState(uuid.New().String(), userID, styleID, t.now().UTC())
	if err := t.store.Create(ctx, state); err != nil {
		return nil, &StoreError{Op: "create", ID: state.ID, Cause: err}
	}
	t.logger.Info("document created", slog.String("document_id", state.ID), slog.Int("style_id", styleID))
	return state.Clone(), nil
}

// Delete removes a document
func (t *Tracker) Delete(ctx context.Context, id string) error {
	release := t.locks.lock(id)
	defer release()
	return t.wrap("delete", id, t.store.Delete(ctx, id))
}

// Snapshot returns a deep copy of the document state
func (t *Tracker) Snapshot(ctx context.Context, id string) (*types.DocumentState, error) {
	release := t.locks.lock(id)
	defer release()

	state, err := t.store.Load(ctx, id)
	if err != nil {
		return nil, t.wrap("load", id, err)
	}
	state.EnsureRecords()
	return state.Clone(), nil
}

// Apply folds a generation result into a section.
// Zero-score results and results already in the section history leave the document untouched.
func (t *Tracker) Apply(ctx context.Context, id string, section types.SectionName, result *types.GenerationResult) (*ApplyOutcome, error) {
	if !section.Valid() {
		return nil, &types.InvalidSectionError{Name: string(section)}
	}
	if result.Content != nil && result.Content.Section() != section {
		return nil, &types.InvalidSectionError{Name: string(result.Content.Section())}
	}

	release := t.locks.lock(id)
	defer release()

	state, err := t.store.Load(ctx, id)
	if err != nil {
		return nil, t.wrap("load", id, err)
	}
	record := state.Record(section)

	switch {
	case result.Score <= 0 || types.IsEmptySection(result.Content):
		return unchanged(state, record, ReasonZeroScore), nil
	case record.HasResult(result.ID):
		return unchanged(state, record, ReasonDuplicate), nil
	}

	reqs, err := t.registry.Get(state.StyleID)
	if err != nil {
		return nil, err
	}
	if regresses(record, result, reqs) {
		t.logger.Info("blocked result would regress section",
			slog.String("document_id", id),
			slog.String("section", string(section)),
			slog.String("status", string(record.Status)),
			slog.Int("blocking", len(result.Blocking())))
		return unchanged(state, record, ReasonBlocking), nil
	}

	now := t.now().UTC()
	state.Document.MergeSection(result.Content)
	record.Content = state.Document.Section(section)
	record.LastRawInput = result.RawInput
	record.LastScore = result.Score
	record.LastProvider = result.Provider
	record.UpdatedAt = now
	record.History = append(record.History, types.HistoryEntry{
		ResultID:  result.ID,
		RawInput:  result.RawInput,
		Provider:  result.Provider,
		Score:     result.Score,
		AppliedAt: now,
	})
	record.Status = types.StatusPartial
	if len(result.Blocking()) == 0 && RequiredFieldsPresent(record.Content, reqs.RequiredFields(section)) {
		record.Status = types.StatusComplete
	}
	state.UpdatedAt = now
	state.Version++

	if err := t.store.Save(ctx, state); err != nil {
		return nil, t.wrap("save", id, err)
	}

	event := events.SectionUpdated{
		Type:       events.TypeSectionUpdated,
		DocumentID: id,
		Section:    section,
		Status:     record.Status,
		Score:      result.Score,
		Provider:   result.Provider,
		Version:    state.Version,
		Timestamp:  now,
	}
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.logger.Warn("failed to publish section update",
			slog.String("document_id", id),
			slog.String("error", err.Error()))
	}

	t.logger.Info("section updated",
		slog.String("document_id", id),
		slog.String("section", string(section)),
		slog.String("status", string(record.Status)),
		slog.Int("version", state.Version))

	return &ApplyOutcome{Record: record.Clone(), State: state.Clone(), Applied: true}, nil
}

// regresses reports whether a failed result would leave a started section with more blocking issues than it has now.
// A complete section has none, so any failed result regresses it.
func regresses(record *types.SectionRecord, result *types.GenerationResult, reqs *templates.TemplateRequirements) bool {
	if result.Status != types.QualityFailed || record.Status == types.StatusNotStarted {
		return false
	}
	if record.Status == types.StatusComplete {
		return true
	}
	current := 0
	if record.Content != nil {
		current = validation.Validate(record.Content, reqs).Blocking()
	}
	return len(result.Blocking()) > current
}

func unchanged(state *types.DocumentState, record *types.SectionRecord, reason string) *ApplyOutcome {
	return &ApplyOutcome{Record: record.Clone(), State: state.Clone(), Reason: reason}
}

func (t *Tracker) wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var notFound *DocumentNotFoundError
	if errors.As(err, &notFound) {
		return notFound
	}
	return &StoreError{Op: op, ID: id, Cause: err}
}

// RequiredFieldsPresent reports whether a section has content and every entry carries all required fields
func RequiredFieldsPresent(section types.TypedSection, required []string) bool {
	if types.IsEmptySection(section) {
		return false
	}
	for _, entry := range section.Entries() {
		for _, name := range required {
			field, ok := types.FieldByName(entry, name)
			if !ok || !field.Present() {
				return false
			}
		}
	}
	return true
}
