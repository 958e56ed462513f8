package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_Blocking(t *testing.T) {
	issues := []Issue{
		{Field: "basics.email", Rule: "required", Severity: SeverityBlocking, Message: "email is required"},
		{Field: "basics.summary", Rule: "max_length", Severity: SeverityWarning, Message: "summary is too long"},
		{Field: "basics.phone", Rule: "format", Severity: SeverityBlocking, Message: "phone is malformed"},
	}

	assert.True(t, issues[0].Blocking())
	assert.False(t, issues[1].Blocking())
	assert.Equal(t, 2, CountBlocking(issues))
	assert.Zero(t, CountBlocking(nil))
}

func TestIssue_String(t *testing.T) {
	issue := Issue{Field: "work[0].position", Severity: SeverityBlocking, Message: "position is required"}
	assert.Equal(t, "[blocking] work[0].position: position is required", issue.String())
}

func TestIssue_JSON(t *testing.T) {
	data, err := json.Marshal(Issue{Field: "basics.email", Rule: "required", Severity: SeverityBlocking, Message: "missing"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"field": "basics.email", "rule": "required", "severity": "blocking", "message": "missing"}`, string(data))
}
