// Package guidance derives the completeness summary the conversational layer uses to pick its next question.
//
// Everything here is a pure function of the document state and the style requirements.
// The summary is rebuilt on every call and never stored.
package guidance

import (
	"fmt"
	"math"
	"time"

	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

// MaxSuggestedTopics caps the ranked question list
const MaxSuggestedTopics = 5

// Summarize builds the completeness summary of a document for its style
func Summarize(state *types.DocumentState, reqs *templates.TemplateRequirements, now time.Time) *types.CompletenessSummary {
	summary := &types.CompletenessSummary{
		DocumentID:          state.ID,
		StyleID:             state.StyleID,
		SectionStatus:       make(map[types.SectionName]types.SectionStatus, len(types.AllSections)),
		RequiredSections:    append([]types.SectionName{}, reqs.RequiredSections...),
		CompletedSections:   []types.SectionName{},
		MissingCriticalInfo: []string{},
	}

	for _, name := range types.AllSections {
		status := statusOf(state, name)
		summary.SectionStatus[name] = status
		if status == types.StatusComplete {
			summary.CompletedSections = append(summary.CompletedSections, name)
		}
	}

	complete := 0
	for _, name := range reqs.RequiredSections {
		if summary.SectionStatus[name] == types.StatusComplete {
			complete++
			continue
		}
		if summary.PrioritySection == nil {
			priority := name
			summary.PrioritySection = &priority
		}
	}
	summary.DocumentComplete = summary.PrioritySection == nil
	summary.CompletionPercentage = completionPercentage(complete, len(reqs.RequiredSections))

	for _, name := range reqs.RequiredSections {
		summary.MissingCriticalInfo = append(summary.MissingCriticalInfo,
			missingFields(state.Document.Section(name), reqs.RequiredFields(name))...)
	}

	summary.SuggestedTopics = suggestTopics(state, reqs)
	summary.FlowHints = flowHints(state, summary.CompletionPercentage, now)
	summary.Insights = insights(state, summary.CompletionPercentage)
	return summary
}

// completionPercentage rounds complete/required to one decimal
func completionPercentage(complete, required int) float64 {
	if required == 0 {
		return 100
	}
	return math.Round(float64(complete)/float64(required)*1000) / 10
}

// missingFields lists absent required fields as paths; a list section with no entries reports its name
func missingFields(section types.TypedSection, required []string) []string {
	if section == nil {
		return nil
	}
	name := section.Section()
	entries := section.Entries()
	if name.IsList() && len(entries) == 0 {
		return []string{string(name)}
	}

	var missing []string
	for i, entry := range entries {
		for _, field := range required {
			f, ok := types.FieldByName(entry, field)
			if ok && f.Present() {
				continue
			}
			if name.IsList() {
				missing = append(missing, fmt.Sprintf("%s[%d].%s", name, i, field))
			} else {
				missing = append(missing, fmt.Sprintf("%s.%s", name, field))
			}
		}
	}
	return missing
}

func statusOf(state *types.DocumentState, name types.SectionName) types.SectionStatus {
	if rec := state.Records[name]; rec != nil {
		return rec.Status
	}
	return types.StatusNotStarted
}
