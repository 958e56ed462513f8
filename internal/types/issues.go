package types

import "fmt"

// Severity grades a validation issue
type Severity string

const (
	// SeverityBlocking marks content that cannot be accepted as complete
	SeverityBlocking Severity = "blocking"
	// SeverityWarning marks content that is accepted but flagged
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding against a section field
type Issue struct {
	Field    string   `json:"field"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Blocking reports whether the issue prevents the section from completing
func (i Issue) Blocking() bool {
	return i.Severity == SeverityBlocking
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Field, i.Message)
}

// Suggestion is a non-blocking improvement hint
type Suggestion struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CountBlocking returns the number of blocking issues
func CountBlocking(issues []Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Blocking() {
			n++
		}
	}
	return n
}
