package guidance

import (
	"math"
	"slices"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// Flow hints
const (
	HintNeedsGuidance   = "user_needs_guidance"
	HintStartWithBasics = "start_with_basics"
	HintEngaged         = "user_is_engaged"
	HintBuildMomentum   = "build_momentum"
	HintCommitted       = "user_is_committed"
	HintPolishDetails   = "polish_details"
	HintFinishing       = "user_is_finishing"
	HintReviewAndRefine = "review_and_refine"
	HintHasExperience   = "has_experience"
	HintHasEducation    = "has_education"
	HintHasSkills       = "has_skills"
	HintActiveSession   = "active_session"
	HintReturningUser   = "returning_user"
	HintQualityUp       = "quality_improving"
	HintQualityDown     = "quality_declining"
)

const (
	activeWindow    = 5 * time.Minute
	returningWindow = 24 * time.Hour
	trendWindow     = 3
)

func flowHints(state *types.DocumentState, completion float64, now time.Time) []string {
	var hints []string
	switch {
	case completion == 0:
		hints = append(hints, HintNeedsGuidance, HintStartWithBasics)
	case completion < 50:
		hints = append(hints, HintEngaged, HintBuildMomentum)
	case completion < 100:
		hints = append(hints, HintCommitted, HintPolishDetails)
	default:
		hints = append(hints, HintFinishing, HintReviewAndRefine)
	}

	if len(state.Document.Work) > 0 {
		hints = append(hints, HintHasExperience)
	}
	if len(state.Document.Education) > 0 {
		hints = append(hints, HintHasEducation)
	}
	if len(state.Document.Skills) > 0 {
		hints = append(hints, HintHasSkills)
	}

	if last := state.LastUpdate(); !last.IsZero() {
		switch idle := now.Sub(last); {
		case idle <= activeWindow:
			hints = append(hints, HintActiveSession)
		case idle > returningWindow:
			hints = append(hints, HintReturningUser)
		}
	}

	scores := recentScores(state, trendWindow)
	if len(scores) >= 2 {
		first, last := scores[0], scores[len(scores)-1]
		switch {
		case last > first:
			hints = append(hints, HintQualityUp)
		case last < first:
			hints = append(hints, HintQualityDown)
		}
	}
	return hints
}

// recentScores returns the scores of the last n applied updates across all sections, oldest first
func recentScores(state *types.DocumentState, n int) []float64 {
	var history []types.HistoryEntry
	for _, rec := range state.Records {
		if rec != nil {
			history = append(history, rec.History...)
		}
	}
	slices.SortStableFunc(history, func(a, b types.HistoryEntry) int {
		return a.AppliedAt.Compare(b.AppliedAt)
	})
	if len(history) > n {
		history = history[len(history)-n:]
	}
	scores := make([]float64, len(history))
	for i, h := range history {
		scores[i] = h.Score
	}
	return scores
}

func insights(state *types.DocumentState, completion float64) types.ProgressInsights {
	doc := state.Document
	out := types.ProgressInsights{}

	switch {
	case types.IsPlaceholder(doc.Basics.Name):
		out.ResumeStage = "initial_setup"
	case len(doc.Work) == 0:
		out.ResumeStage = "gathering_experience"
	case len(doc.Education) == 0:
		out.ResumeStage = "adding_education"
	case len(doc.Skills) == 0:
		out.ResumeStage = "defining_skills"
	case len(doc.Projects) == 0:
		out.ResumeStage = "adding_projects"
	default:
		out.ResumeStage = "polishing"
	}

	switch n := len(doc.Work); {
	case n <= 1:
		out.ExperienceLevel = "entry_level"
	case n <= 3:
		out.ExperienceLevel = "mid_level"
	default:
		out.ExperienceLevel = "senior_level"
	}

	switch {
	case completion < 25:
		out.EstimatedMinutesRemaining = 20
	case completion < 50:
		out.EstimatedMinutesRemaining = 15
	case completion < 75:
		out.EstimatedMinutesRemaining = 10
	default:
		out.EstimatedMinutesRemaining = 5
	}

	switch {
	case types.IsPlaceholder(doc.Basics.Name):
		out.ConversationTone = "welcoming_and_helpful"
	case len(doc.Work) == 0:
		out.ConversationTone = "encouraging_and_guiding"
	default:
		out.ConversationTone = "collaborative_and_refining"
	}

	var total float64
	var scored int
	for _, rec := range state.Records {
		if rec != nil && len(rec.History) > 0 {
			total += rec.LastScore
			scored++
		}
	}
	if scored > 0 {
		out.AverageQuality = math.Round(total/float64(scored)*100) / 100
	}
	return out
}
