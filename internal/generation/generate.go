// Package generation turns one conversational turn into a validated resume section.
//
// Providers are tried in order as a chain of stages. Each stage yields a tagged Outcome;
// the chain stops at the first Accepted outcome and otherwise advances, so the last
// stage's result is returned as-is. The rule-based stage always produces a result.
package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultAttemptTimeout bounds each stage attempt
const DefaultAttemptTimeout = 30 * time.Second

// Request is one generation request for a section
type Request struct {
	StyleID    int
	DocumentID string
	Section    types.SectionName
	RawInput   string
	// Document is the current document; it is never mutated
	Document types.Document
}

// Options configures a Pipeline
type Options struct {
	Stages         []Stage
	AttemptTimeout time.Duration
	ContextFields  int
	Cache          *ResultCache
	Logger         *slog.Logger
	Now            func() time.Time
}

// Pipeline runs the provider chain
type Pipeline struct {
	registry       *templates.Registry
	stages         []Stage
	attemptTimeout time.Duration
	contextFields  int
	cache          *ResultCache
	stats          *statsRecorder
	logger         *slog.Logger
	now            func() time.Time
}

// DefaultStages builds the primary, secondary and rule-based chain. Nil clients are skipped.
func DefaultStages(primary, secondary llm.Client) []Stage {
	var stages []Stage
	if primary != nil {
		stages = append(stages, NewLLMStage(types.ProviderPrimary, primary))
	}
	if secondary != nil {
		stages = append(stages, NewLLMStage(types.ProviderSecondary, secondary))
	}
	return append(stages, RuleStage{})
}

// New creates a pipeline over a style registry
func New(registry *templates.Registry, opts Options) (*Pipeline, error) {
	if registry == nil {
		return nil, &ConfigError{Message: "style registry is required"}
	}
	if len(opts.Stages) == 0 {
		return nil, &ConfigError{Message: "at least one stage is required"}
	}
	p := &Pipeline{
		registry:       registry,
		stages:         opts.Stages,
		attemptTimeout: opts.AttemptTimeout,
		contextFields:  opts.ContextFields,
		cache:          opts.Cache,
		stats:          newStatsRecorder(),
		logger:         opts.Logger,
		now:            opts.Now,
	}
	if p.attemptTimeout <= 0 {
		p.attemptTimeout = DefaultAttemptTimeout
	}
	if p.contextFields <= 0 {
		p.contextFields = DefaultContextFields
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Stats returns per-provider attempt counters
func (p *Pipeline) Stats() map[types.ProviderKind]ProviderStats {
	return p.stats.snapshot()
}

// Generate runs the chain for one request.
// Provider faults never surface as errors; only an unknown style or section,
// a broken prompt template, or cancellation of ctx do.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*types.GenerationResult, error) {
	if !req.Section.Valid() {
		return nil, &types.InvalidSectionError{Name: string(req.Section)}
	}
	reqs, err := p.registry.Get(req.StyleID)
	if err != nil {
		return nil, err
	}
	if cached, ok := p.cache.Get(req); ok {
		p.logger.Debug("generation cache hit",
			slog.String("section", string(req.Section)),
			slog.String("result_id", cached.ID))
		return cached, nil
	}

	prompt, err := BuildPrompt(req, reqs, p.contextFields)
	if err != nil {
		return nil, &ConfigError{Message: err.Error()}
	}
	attempt := &Attempt{Request: req, Requirements: reqs, Prompt: prompt}

	var (
		result   *types.GenerationResult
		attempts []types.AttemptRecord
		lastErr  *ProviderTransientFailure
	)
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, elapsed := p.run(ctx, stage, attempt)
		p.stats.record(stage.Provider(), outcome.Kind(), elapsed)
		record := types.AttemptRecord{Provider: stage.Provider(), Outcome: outcome.Kind(), Duration: elapsed}

		result = nil
		switch o := outcome.(type) {
		case ProviderFailure:
			lastErr = o.Failure
			record.Error = o.Failure.Error()
			p.logger.Warn("provider attempt failed",
				slog.String("provider", string(stage.Provider())),
				slog.String("kind", string(o.Failure.Kind)),
				slog.String("error", o.Failure.Error()))
		case QualityFailure:
			result = o.Result
			record.Score = o.Result.Score
			p.logger.Info("provider output failed validation",
				slog.String("provider", string(stage.Provider())),
				slog.Int("blocking", types.CountBlocking(o.Result.Issues)),
				slog.Float64("score", o.Result.Score))
		case Accepted:
			result = o.Result
			record.Score = o.Result.Score
		}
		attempts = append(attempts, record)

		if outcome.Kind() == types.OutcomeAccepted {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = &types.GenerationResult{
			Provider:    attempts[len(attempts)-1].Provider,
			Status:      types.QualityFailed,
			Issues:      []types.Issue{},
			Suggestions: []types.Suggestion{},
		}
		if lastErr != nil {
			result.ParseError = lastErr.Error()
		}
	}

	result.ID = uuid.New().String()
	result.StyleID = req.StyleID
	result.Section = req.Section
	result.RawInput = req.RawInput
	result.Attempts = attempts
	result.RephrasedContent = Rephrase(result.Content)
	result.CreatedAt = p.now()

	p.logger.Info("section generated",
		slog.String("section", string(req.Section)),
		slog.String("provider", string(result.Provider)),
		slog.String("status", string(result.Status)),
		slog.Float64("score", result.Score),
		slog.Int("attempts", len(attempts)))

	if cacheable(result) {
		p.cache.Set(req, result)
	}
	return result, nil
}

// cacheable reports whether a retransmitted turn may reuse result.
// Failed results and results reached after a provider fault are recomputed so a recovered provider gets another try.
func cacheable(result *types.GenerationResult) bool {
	if result.Status == types.QualityFailed {
		return false
	}
	for _, a := range result.Attempts {
		if a.Outcome == types.OutcomeProviderFailure {
			return false
		}
	}
	return true
}

// run executes one stage under the per-attempt timeout
func (p *Pipeline) run(ctx context.Context, stage Stage, attempt *Attempt) (Outcome, time.Duration) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	defer cancel()

	start := time.Now()
	outcome := stage.Run(attemptCtx, attempt)
	return outcome, time.Since(start)
}
