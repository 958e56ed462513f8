// Package pipeline provides the high-level orchestration for conversational resume building.
//
// A Service ties the generation pipeline, the section tracker and the guidance engine together:
// one conversational turn is generated, folded into the document and summarized.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/guidance"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/tracker"
	"github.com/jonathan/resume-builder/internal/types"
)

// Generator produces a section result for one turn
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (*types.GenerationResult, error)
}

// Options configures a Service
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// Service is the entry point the conversational layer talks to
type Service struct {
	registry  *templates.Registry
	tracker   *tracker.Tracker
	generator Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires a service over its collaborators
func NewService(registry *templates.Registry, tr *tracker.Tracker, gen Generator, opts Options) *Service {
	s := &Service{
		registry:  registry,
		tracker:   tr,
		generator: gen,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Registry exposes the style registry for listing endpoints
func (s *Service) Registry() *templates.Registry {
	return s.registry
}

// RequestGeneration runs one conversational turn against a section
func (s *Service) RequestGeneration(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResponse, error) {
	return s.RequestGenerationWithProgress(ctx, req, nil)
}

// RequestGenerationWithProgress is RequestGeneration reporting each step to onProgress.
// A request without a document id opens a new document for the user.
func (s *Service) RequestGenerationWithProgress(ctx context.Context, req *types.GenerationRequest, onProgress ProgressCallback) (*types.GenerationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &RequestError{Message: "invalid generation request", Cause: err}
	}
	section, err := types.ParseSectionName(req.Section)
	if err != nil {
		return nil, err
	}
	reqs, err := s.registry.Get(req.StyleID)
	if err != nil {
		return nil, err
	}

	state, err := s.openDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	emitProgress(onProgress, StepSnapshot, section, state.ID, "Loaded document state", nil)

	result, err := s.generator.Generate(ctx, generation.Request{
		StyleID:    req.StyleID,
		DocumentID: state.ID,
		Section:    section,
		RawInput:   req.RawInput,
		Document:   state.Document,
	})
	if err != nil {
		s.discardOpened(ctx, req, state.ID)
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	emitProgress(onProgress, StepGenerate, section, state.ID,
		fmt.Sprintf("Generated %s with %s provider (score %.2f)", section, result.Provider, result.Score), result)

	outcome, err := s.tracker.Apply(ctx, state.ID, section, result)
	if err != nil {
		s.discardOpened(ctx, req, state.ID)
		return nil, err
	}
	applyMessage := "Applied result to document"
	if !outcome.Applied {
		applyMessage = fmt.Sprintf("Document unchanged (%s)", outcome.Reason)
	}
	emitProgress(onProgress, StepApply, section, state.ID, applyMessage, outcome.Record)

	summary := guidance.Summarize(outcome.State, reqs, s.now())
	emitProgress(onProgress, StepSummarize, section, state.ID,
		fmt.Sprintf("Document is %.1f%% complete", summary.CompletionPercentage), summary)

	resp := &types.GenerationResponse{
		Status:              types.ResponseNoUpdate,
		Reason:              outcome.Reason,
		DocumentID:          state.ID,
		Section:             section,
		SectionStatus:       outcome.Record.Status,
		RephrasedContent:    result.RephrasedContent,
		Provider:            result.Provider,
		Score:               result.Score,
		CompletenessSummary: summary,
		ValidationIssues:    result.Issues,
		Suggestions:         result.Suggestions,
	}
	if outcome.Applied {
		resp.Status = string(result.Status)
	}

	s.logger.Info("turn processed",
		slog.String("document_id", state.ID),
		slog.String("section", string(section)),
		slog.String("status", resp.Status),
		slog.String("provider", string(result.Provider)),
		slog.Float64("completion", summary.CompletionPercentage))
	return resp, nil
}

// openDocument snapshots the target document, creating one when the request names none
func (s *Service) openDocument(ctx context.Context, req *types.GenerationRequest) (*types.DocumentState, error) {
	if req.DocumentID == "" {
		return s.tracker.Create(ctx, req.UserID, req.StyleID)
	}
	state, err := s.tracker.Snapshot(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if state.UserID != req.UserID {
		return nil, &tracker.DocumentNotFoundError{ID: req.DocumentID}
	}
	if state.StyleID != req.StyleID {
		return nil, &RequestError{
			Field:   "style_id",
			Message: fmt.Sprintf("document %s uses style %d", state.ID, state.StyleID),
		}
	}
	return state, nil
}

// discardOpened removes a document this turn created when the turn fails before anything was applied.
// It runs even if ctx was cancelled.
func (s *Service) discardOpened(ctx context.Context, req *types.GenerationRequest, documentID string) {
	if req.DocumentID != "" {
		return
	}
	if err := s.tracker.Delete(context.WithoutCancel(ctx), documentID); err != nil {
		s.logger.Warn("failed to discard document opened by failed turn",
			slog.String("document_id", documentID),
			slog.String("error", err.Error()))
	}
}

// CreateDocument opens an empty document for a user
func (s *Service) CreateDocument(ctx context.Context, req *types.CreateDocumentRequest) (*types.DocumentState, error) {
	if err := req.Validate(); err != nil {
		return nil, &RequestError{Message: "invalid document request", Cause: err}
	}
	return s.tracker.Create(ctx, req.UserID, req.StyleID)
}

// Snapshot returns a copy of the full document state
func (s *Service) Snapshot(ctx context.Context, documentID string) (*types.DocumentState, error) {
	return s.tracker.Snapshot(ctx, documentID)
}

// GetDocument returns the canonical document for renderers
func (s *Service) GetDocument(ctx context.Context, documentID string) (*types.Document, error) {
	state, err := s.tracker.Snapshot(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc := state.Document
	doc.Normalize()
	return &doc, nil
}

// DeleteDocument removes a document and its section records
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	return s.tracker.Delete(ctx, documentID)
}

// GetGuidance summarizes a document's progress without changing it
func (s *Service) GetGuidance(ctx context.Context, documentID string) (*types.CompletenessSummary, error) {
	state, err := s.tracker.Snapshot(ctx, documentID)
	if err != nil {
		return nil, err
	}
	reqs, err := s.registry.Get(state.StyleID)
	if err != nil {
		return nil, err
	}
	return guidance.Summarize(state, reqs, s.now()), nil
}
