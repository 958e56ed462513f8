package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionName(t *testing.T) {
	name, err := ParseSectionName(" work ")
	require.NoError(t, err)
	assert.Equal(t, SectionWork, name)

	_, err = ParseSectionName("hobbies")
	require.Error(t, err)
	var invalid *InvalidSectionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "hobbies", invalid.Name)
}

func TestDocumentSection_EveryNameHasVariant(t *testing.T) {
	doc := NewDocument(1)
	for _, name := range AllSections {
		ts := doc.Section(name)
		require.NotNil(t, ts, name)
		assert.Equal(t, name, ts.Section())
		assert.True(t, IsEmptySection(ts), name)
	}
}

func TestMarshalUnmarshalSection(t *testing.T) {
	original := SkillsSection{Items: []Skill{{Name: "Python"}, {Name: "SQL", Level: "Advanced"}}}

	data, err := MarshalSection(original)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Python"},{"name":"SQL","level":"Advanced"}]`, string(data))

	decoded, err := UnmarshalSection(SectionSkills, data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestUnmarshalSection_Basics(t *testing.T) {
	decoded, err := UnmarshalSection(SectionBasics, []byte(`{"name":"Jane","email":"jane@example.com"}`))
	require.NoError(t, err)
	basics, ok := decoded.(BasicsSection)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", basics.Basics.Email)
}

func TestFieldByName(t *testing.T) {
	field, ok := FieldByName(Work{Highlights: []string{"Led a team"}}, "highlights")
	require.True(t, ok)
	assert.True(t, field.List)
	assert.True(t, field.Present())

	_, ok = FieldByName(Work{}, "nonexistent")
	assert.False(t, ok)
}

func TestSectionRecord_JSONKeepsTypedContent(t *testing.T) {
	rec := NewSectionRecord(SectionEducation)
	rec.Status = StatusPartial
	rec.Content = EducationSection{Items: []Education{{Institution: "MIT", StudyType: "Bachelor"}}}
	rec.UpdatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec.History = append(rec.History, HistoryEntry{ResultID: "r1", RawInput: "MIT bachelor"})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded SectionRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec.Content, decoded.Content)
	assert.True(t, decoded.HasResult("r1"))
	assert.False(t, decoded.HasResult("r2"))
}

func TestDocumentState_CloneIsIndependent(t *testing.T) {
	state := NewDocumentState("doc-1", "user-1", 1, time.Now())
	state.Record(SectionSkills).Content = SkillsSection{Items: []Skill{{Name: "Go"}}}

	clone := state.Clone()
	clone.Record(SectionSkills).Status = StatusComplete
	clone.Record(SectionSkills).Content.(SkillsSection).Items[0].Name = "Rust"

	assert.Equal(t, StatusNotStarted, state.Record(SectionSkills).Status)
	assert.Equal(t, "Go", state.Record(SectionSkills).Content.(SkillsSection).Items[0].Name)
	assert.Len(t, state.Records, len(AllSections))
}

func TestGenerationRequest_Validate(t *testing.T) {
	valid := GenerationRequest{StyleID: 1, Section: "basics", RawInput: "I am John", UserID: "u1"}
	assert.NoError(t, valid.Validate())

	missingInput := valid
	missingInput.RawInput = ""
	assert.Error(t, missingInput.Validate())

	badDocID := valid
	badDocID.DocumentID = "not-a-uuid"
	assert.Error(t, badDocID.Validate())
}
