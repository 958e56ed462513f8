package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

const transcripts = `
{"transcript": "jane", "user_id": "u1", "style_id": 1, "section": "work", "raw_input": "engineer at Acme since 2020"}
{"transcript": "omar", "user_id": "u2", "style_id": 1, "section": "education", "raw_input": "I'd rather not say"}

{"transcript": "jane", "user_id": "u1", "style_id": 1, "section": "basics", "raw_input": "I am Jane, an engineer"}
{"transcript": "omar", "user_id": "u2", "style_id": 1, "section": "hobbies", "raw_input": "chess"}
{"transcript": "omar", "user_id": "u2", "style_id": 1, "section": "work", "raw_input": "never reached"}
`

func TestReadTurns(t *testing.T) {
	turns, err := ReadTurns(strings.NewReader(transcripts))
	require.NoError(t, err)
	require.Len(t, turns, 5)
	assert.Equal(t, Turn{
		Transcript: "jane", UserID: "u1", StyleID: 1, Section: "work", RawInput: "engineer at Acme since 2020",
	}, turns[0])

	_, err = ReadTurns(strings.NewReader("{\"transcript\": \"a\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReplay(t *testing.T) {
	primary := &fakeClient{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "since 2020"):
			return goodWork, nil
		case strings.Contains(prompt, "I am Jane"):
			return `{"name": "Jane", "label": "Engineer", "email": "jane@example.com"}`, nil
		}
		return "no idea", nil
	}}
	f := newFixture(t, primary, nil, nil)

	turns, err := ReadTurns(strings.NewReader(transcripts))
	require.NoError(t, err)

	var mu sync.Mutex
	progress := 0
	results, err := f.svc.Replay(context.Background(), turns, 2, func(ProgressEvent) {
		mu.Lock()
		progress++
		mu.Unlock()
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	jane := results[0]
	assert.Equal(t, "jane", jane.Transcript)
	assert.Empty(t, jane.Error)
	require.Len(t, jane.Responses, 2)
	assert.Equal(t, jane.DocumentID, jane.Responses[0].DocumentID)
	assert.Equal(t, jane.DocumentID, jane.Responses[1].DocumentID)
	assert.Equal(t, types.ResponseSuccess, jane.Responses[1].Status)
	require.NotNil(t, jane.Summary)
	assert.Equal(t, types.StatusComplete, jane.Summary.SectionStatus[types.SectionBasics])
	assert.Equal(t, types.StatusComplete, jane.Summary.SectionStatus[types.SectionWork])

	omar := results[1]
	assert.Equal(t, "omar", omar.Transcript)
	require.Len(t, omar.Responses, 1)
	assert.Equal(t, types.ResponseNoUpdate, omar.Responses[0].Status)
	assert.Contains(t, omar.Error, "turn 2")
	assert.Contains(t, omar.Error, "hobbies")

	assert.Equal(t, 12, progress)
}

func TestReplay_Cancelled(t *testing.T) {
	f := newFixture(t, answer(goodWork), nil, nil)
	turns, err := ReadTurns(strings.NewReader(transcripts))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.svc.Replay(ctx, turns, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
