package types

// ProgressInsights are coarse conversation heuristics derived from the document
type ProgressInsights struct {
	ResumeStage               string  `json:"resume_stage"`
	ExperienceLevel           string  `json:"experience_level"`
	EstimatedMinutesRemaining int     `json:"estimated_minutes_remaining"`
	ConversationTone          string  `json:"conversation_tone"`
	AverageQuality            float64 `json:"average_quality"`
}

// CompletenessSummary is the derived, read-only view of a document's progress.
// It is rebuilt from section records and template requirements on every request.
type CompletenessSummary struct {
	DocumentID           string                        `json:"document_id"`
	StyleID              int                           `json:"style_id"`
	SectionStatus        map[SectionName]SectionStatus `json:"section_status"`
	RequiredSections     []SectionName                 `json:"required_sections"`
	CompletedSections    []SectionName                 `json:"completed_sections"`
	CompletionPercentage float64                       `json:"completion_percentage"`
	MissingCriticalInfo  []string                      `json:"missing_critical_info"`
	SuggestedTopics      []string                      `json:"suggested_topics"`
	PrioritySection      *SectionName                  `json:"priority_section"`
	DocumentComplete     bool                          `json:"document_complete"`
	FlowHints            []string                      `json:"flow_hints"`
	Insights             ProgressInsights              `json:"insights"`
}
