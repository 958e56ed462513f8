package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	candidate := func(reason genai.FinishReason, parts ...genai.Part) *genai.Candidate {
		return &genai.Candidate{FinishReason: reason, Content: &genai.Content{Role: "model", Parts: parts}}
	}

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{"nil response", nil, "", ErrEmptyResponse},
		{"no candidates", &genai.GenerateContentResponse{}, "", ErrEmptyResponse},
		{
			"joins text parts",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.FinishReasonStop, genai.Text(`{"name": `), genai.Text(`"Jane"}`)),
			}},
			`{"name": "Jane"}`, nil,
		},
		{
			"safety stop",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(genai.FinishReasonSafety)}},
			"", ErrBlocked,
		},
		{
			"whitespace only",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(genai.FinishReasonStop, genai.Text("  \n"))}},
			"", ErrEmptyResponse,
		},
		{
			"no content",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}}},
			"", ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.ErrorContains(t, err, "API key required")

	_, err = NewClient(context.Background(), nil, "")
	assert.Error(t, err)
}
