// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// statusIcon marks a section status in lists
func statusIcon(status types.SectionStatus) string {
	switch status {
	case types.StatusComplete:
		return "✓"
	case types.StatusPartial:
		return "◐"
	default:
		return "○"
	}
}

// writeIssues appends an issue list, showing at most maxItemsToShow entries
func writeIssues(sb *strings.Builder, issues []types.Issue) {
	for i, issue := range issues {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(issues)-maxItemsToShow))
			break
		}
		marker := "⚠"
		if issue.Blocking() {
			marker = "✗"
		}
		sb.WriteString(fmt.Sprintf("  %s %s: %s\n", marker, issue.Field, issue.Message))
	}
}

// PrintResponse outputs the result of one generation turn.
func (p *Printer) PrintResponse(resp *types.GenerationResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document: %s\n", resp.DocumentID))
	sb.WriteString(fmt.Sprintf("Section:  %s (%s)\n", resp.Section, resp.SectionStatus))
	status := resp.Status
	if resp.Reason != "" {
		status += " (" + resp.Reason + ")"
	}
	sb.WriteString(fmt.Sprintf("Status:   %s\n", status))
	if resp.Provider != "" {
		sb.WriteString(fmt.Sprintf("Provider: %s  score %.2f\n", resp.Provider, resp.Score))
	}

	if resp.RephrasedContent != "" {
		sb.WriteString("\n")
		sb.WriteString(resp.RephrasedContent)
		sb.WriteString("\n")
	}

	if len(resp.ValidationIssues) > 0 {
		sb.WriteString("\nIssues:\n")
		writeIssues(&sb, resp.ValidationIssues)
	}
	if len(resp.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for i, s := range resp.Suggestions {
			if i >= maxItemsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", s.Message))
		}
	}

	p.printBox("SECTION UPDATE", strings.TrimRight(sb.String(), "\n"))
}

// PrintSummary outputs the completeness summary of a document.
func (p *Printer) PrintSummary(summary *types.CompletenessSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Completion: %.0f%%", summary.CompletionPercentage))
	if summary.DocumentComplete {
		sb.WriteString("  (ready to render)")
	}
	sb.WriteString("\n\n")

	for _, section := range types.AllSections {
		status, ok := summary.SectionStatus[section]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %-14s %s\n", statusIcon(status), section, status))
	}

	if summary.PrioritySection != nil {
		sb.WriteString(fmt.Sprintf("\nNext: %s\n", *summary.PrioritySection))
	}
	if len(summary.MissingCriticalInfo) > 0 {
		sb.WriteString("\nMissing:\n")
		for i, missing := range summary.MissingCriticalInfo {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(summary.MissingCriticalInfo)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", missing))
		}
	}
	if len(summary.SuggestedTopics) > 0 {
		sb.WriteString("\nAsk about:\n")
		for i, topic := range summary.SuggestedTopics {
			if i >= maxItemsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, topic))
		}
	}
	for _, hint := range summary.FlowHints {
		sb.WriteString(fmt.Sprintf("\n» %s", hint))
	}

	p.printBox("COMPLETENESS", strings.TrimRight(sb.String(), "\n"))
}

// PrintDocumentReport outputs the result of a whole-document validation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDocumentReport(report *pipeline.DocumentReport) {
	if report == nil {
		return
	}
	if report.Valid && len(report.SchemaErrors) == 0 && !hasIssues(report.Sections) {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ DOCUMENT IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	verdict := "valid with warnings"
	if !report.Valid {
		verdict = "invalid"
	}
	sb.WriteString(fmt.Sprintf("Document %s is %s\n", report.DocumentID, verdict))

	if len(report.SchemaErrors) > 0 {
		sb.WriteString("\nSchema:\n")
		for i, fe := range report.SchemaErrors {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.SchemaErrors)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  ✗ %s: %s\n", fe.Field, fe.Message))
		}
	}

	for _, section := range report.Sections {
		if len(section.Issues) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%s, score %.2f):\n", section.Section, section.Status, section.Score))
		writeIssues(&sb, section.Issues)
	}

	p.printBox("DOCUMENT VALIDATION", strings.TrimRight(sb.String(), "\n"))
}

func hasIssues(sections []pipeline.SectionReport) bool {
	for _, s := range sections {
		if len(s.Issues) > 0 {
			return true
		}
	}
	return false
}

// PrintTemplates outputs the registered styles with their required sections.
func (p *Printer) PrintTemplates(styles []*templates.TemplateRequirements) {
	if len(styles) == 0 {
		p.printBox("TEMPLATES", "No templates registered")
		return
	}

	var sb strings.Builder
	for i, style := range styles {
		required := make([]string, len(style.RequiredSections))
		for j, section := range style.RequiredSections {
			required[j] = string(section)
		}
		sb.WriteString(fmt.Sprintf("%2d  %-12s [%s]\n", style.StyleID, style.Name, style.Category))
		sb.WriteString(fmt.Sprintf("    requires: %s", strings.Join(required, ", ")))
		if i < len(styles)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("TEMPLATES (%d)", len(styles)), sb.String())
}
