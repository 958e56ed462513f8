package types

import (
	"encoding/json"
	"time"
)

// HistoryEntry records one accepted update of a section
type HistoryEntry struct {
	ResultID  string       `json:"result_id"`
	RawInput  string       `json:"raw_input"`
	Provider  ProviderKind `json:"provider"`
	Score     float64      `json:"score"`
	AppliedAt time.Time    `json:"applied_at"`
}

// SectionRecord is the per-section bookkeeping of a document
type SectionRecord struct {
	Section      SectionName    `json:"section"`
	Status       SectionStatus  `json:"status"`
	LastRawInput string         `json:"last_raw_input,omitempty"`
	Content      TypedSection   `json:"-"`
	LastScore    float64        `json:"last_score"`
	LastProvider ProviderKind   `json:"last_provider,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at"`
	History      []HistoryEntry `json:"history"`
}

// NewSectionRecord returns a record for a section that never received an update
func NewSectionRecord(section SectionName) *SectionRecord {
	return &SectionRecord{Section: section, Status: StatusNotStarted, History: []HistoryEntry{}}
}

// HasResult reports whether a generation result was already applied to this record
func (r *SectionRecord) HasResult(resultID string) bool {
	for _, h := range r.History {
		if h.ResultID == resultID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record
func (r *SectionRecord) Clone() *SectionRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.History = append([]HistoryEntry{}, r.History...)
	out.Content = CloneSection(r.Content)
	return &out
}

type sectionRecordJSON struct {
	Section      SectionName     `json:"section"`
	Status       SectionStatus   `json:"status"`
	LastRawInput string          `json:"last_raw_input,omitempty"`
	Content      json.RawMessage `json:"content"`
	LastScore    float64         `json:"last_score"`
	LastProvider ProviderKind    `json:"last_provider,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
	History      []HistoryEntry  `json:"history"`
}

// MarshalJSON encodes the typed content in its document form
func (r SectionRecord) MarshalJSON() ([]byte, error) {
	content, err := MarshalSection(r.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionRecordJSON{
		Section:      r.Section,
		Status:       r.Status,
		LastRawInput: r.LastRawInput,
		Content:      content,
		LastScore:    r.LastScore,
		LastProvider: r.LastProvider,
		UpdatedAt:    r.UpdatedAt,
		History:      r.History,
	})
}

// UnmarshalJSON decodes the content back into its typed variant
func (r *SectionRecord) UnmarshalJSON(data []byte) error {
	var raw sectionRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content, err := UnmarshalSection(raw.Section, raw.Content)
	if err != nil {
		return err
	}
	*r = SectionRecord{
		Section:      raw.Section,
		Status:       raw.Status,
		LastRawInput: raw.LastRawInput,
		Content:      content,
		LastScore:    raw.LastScore,
		LastProvider: raw.LastProvider,
		UpdatedAt:    raw.UpdatedAt,
		History:      raw.History,
	}
	if r.History == nil {
		r.History = []HistoryEntry{}
	}
	return nil
}

// DocumentState is everything tracked for one document
type DocumentState struct {
	ID        string                         `json:"id"`
	UserID    string                         `json:"user_id"`
	StyleID   int                            `json:"style_id"`
	Document  Document                       `json:"document"`
	Records   map[SectionName]*SectionRecord `json:"records"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
	Version   int                            `json:"version"`
}

// NewDocumentState returns the state of a freshly opened document
func NewDocumentState(id, userID string, styleID int, now time.Time) *DocumentState {
	state := &DocumentState{
		ID:        id,
		UserID:    userID,
		StyleID:   styleID,
		Document:  NewDocument(styleID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	state.EnsureRecords()
	return state
}

// EnsureRecords fills in a not-started record for every section that lacks one
func (s *DocumentState) EnsureRecords() {
	if s.Records == nil {
		s.Records = make(map[SectionName]*SectionRecord, len(AllSections))
	}
	for _, name := range AllSections {
		if s.Records[name] == nil {
			s.Records[name] = NewSectionRecord(name)
		}
	}
	s.Document.Normalize()
}

// Record returns the record for a section, creating it if needed
func (s *DocumentState) Record(section SectionName) *SectionRecord {
	s.EnsureRecords()
	return s.Records[section]
}

// Clone returns a deep copy of the state
func (s *DocumentState) Clone() *DocumentState {
	if s == nil {
		return nil
	}
	out := *s
	out.Document = s.Document.Clone()
	out.Records = make(map[SectionName]*SectionRecord, len(s.Records))
	for name, rec := range s.Records {
		out.Records[name] = rec.Clone()
	}
	return &out
}

// LastUpdate returns the most recent time any section was updated
func (s *DocumentState) LastUpdate() time.Time {
	var latest time.Time
	for _, rec := range s.Records {
		if rec != nil && rec.UpdatedAt.After(latest) {
			latest = rec.UpdatedAt
		}
	}
	return latest
}
