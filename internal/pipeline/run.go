package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/types"
)

// Progress steps of a single turn
const (
	StepSnapshot  = "snapshot"
	StepGenerate  = "generate"
	StepApply     = "apply"
	StepSummarize = "summarize"
)

// DefaultReplayConcurrency bounds how many transcripts replay at once
const DefaultReplayConcurrency = 4

// ProgressEvent represents a progress update while a turn is processed
type ProgressEvent struct {
	Step       string            `json:"step"`
	Section    types.SectionName `json:"section"`
	Message    string            `json:"message"`
	DocumentID string            `json:"document_id,omitempty"`
	Content    any               `json:"content,omitempty"`
}

// ProgressCallback is called when turn progress occurs
type ProgressCallback func(event ProgressEvent)

// emitProgress calls the progress callback if configured
func emitProgress(cb ProgressCallback, step string, section types.SectionName, documentID, message string, content any) {
	if cb != nil {
		cb(ProgressEvent{
			Step:       step,
			Section:    section,
			Message:    message,
			DocumentID: documentID,
			Content:    content,
		})
	}
}

// Turn is one recorded conversational turn. Turns sharing a transcript build one document.
type Turn struct {
	Transcript string `json:"transcript"`
	UserID     string `json:"user_id"`
	StyleID    int    `json:"style_id"`
	Section    string `json:"section"`
	RawInput   string `json:"raw_input"`
}

// ReplayResult is the outcome of replaying one transcript
type ReplayResult struct {
	Transcript string                      `json:"transcript"`
	DocumentID string                      `json:"document_id"`
	Responses  []*types.GenerationResponse `json:"responses"`
	Summary    *types.CompletenessSummary  `json:"summary,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

// ReadTurns decodes JSON Lines turns; blank lines are skipped
func ReadTurns(r io.Reader) ([]Turn, error) {
	var turns []Turn
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var turn Turn
		if err := json.Unmarshal([]byte(text), &turn); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		turns = append(turns, turn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read turns: %w", err)
	}
	return turns, nil
}

// Replay runs recorded transcripts through the service.
// Turns of one transcript run in order against the same document; transcripts run in parallel.
// A turn that fails stops its transcript and is reported in its result; only cancellation fails the replay.
// onProgress may be called from several goroutines at once.
func (s *Service) Replay(ctx context.Context, turns []Turn, concurrency int, onProgress ProgressCallback) ([]ReplayResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultReplayConcurrency
	}

	var order []string
	grouped := make(map[string][]Turn)
	for _, turn := range turns {
		if _, seen := grouped[turn.Transcript]; !seen {
			order = append(order, turn.Transcript)
		}
		grouped[turn.Transcript] = append(grouped[turn.Transcript], turn)
	}

	results := make([]ReplayResult, len(order))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, transcript := range order {
		g.Go(func() error {
			results[i] = s.replayTranscript(gCtx, transcript, grouped[transcript], onProgress)
			return gCtx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (s *Service) replayTranscript(ctx context.Context, transcript string, turns []Turn, onProgress ProgressCallback) ReplayResult {
	result := ReplayResult{Transcript: transcript, Responses: []*types.GenerationResponse{}}
	for i, turn := range turns {
		resp, err := s.RequestGenerationWithProgress(ctx, &types.GenerationRequest{
			StyleID:    turn.StyleID,
			Section:    turn.Section,
			RawInput:   turn.RawInput,
			UserID:     turn.UserID,
			DocumentID: result.DocumentID,
		}, onProgress)
		if err != nil {
			result.Error = fmt.Sprintf("turn %d: %v", i+1, err)
			s.logger.Warn("replay turn failed",
				slog.String("transcript", transcript),
				slog.Int("turn", i+1),
				slog.String("error", err.Error()))
			return result
		}
		result.DocumentID = resp.DocumentID
		result.Responses = append(result.Responses, resp)
		result.Summary = resp.CompletenessSummary
	}
	return result
}
