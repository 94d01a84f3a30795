// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/noor/cv-tailor/internal/store"
	"github.com/noor/cv-tailor/internal/tailoring"
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

// printList writes up to limit items as bullets, with a "... and N more"
// tail when the list is longer.
func printList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		item := items[i]
		if len(item) > 50 {
			item = item[:47] + "..."
		}
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintAnalysis outputs a human-readable summary of the CV/job alignment.
func (p *Printer) PrintAnalysis(analysis *tailoring.Analysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	if len(analysis.RequiredSkills) > 0 {
		sb.WriteString("Required skills:\n")
		printList(&sb, analysis.RequiredSkills, maxItemsToShow)
		sb.WriteString("\n")
	}

	if len(analysis.MatchedExperience) > 0 {
		sb.WriteString("Matched experience:\n")
		printList(&sb, analysis.MatchedExperience, 3)
		sb.WriteString("\n")
	}

	if len(analysis.Gaps) > 0 {
		sb.WriteString("Gaps:\n")
		printList(&sb, analysis.Gaps, maxItemsToShow)
		sb.WriteString("\n")
	}

	if analysis.Suggestions != "" {
		sb.WriteString("Suggestions:\n")
		fmt.Fprintf(&sb, "  %s\n", analysis.Suggestions)
	}

	p.printBox("CV / JOB ALIGNMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the outcome of a tailoring run.
func (p *Printer) PrintResult(result *tailoring.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "CV size:  %d bytes\n", len(result.CVHTML))

	if len(result.SkillsAdded) > 0 {
		sb.WriteString("\nSkills added:\n")
		printList(&sb, result.SkillsAdded, maxItemsToShow)
	}

	if len(result.SkillGaps) > 0 {
		sb.WriteString("\nRemaining gaps:\n")
		printList(&sb, result.SkillGaps, maxItemsToShow)
	}

	if result.Warning != "" {
		fmt.Fprintf(&sb, "\n⚠ %s\n", result.Warning)
	}

	p.printBox("TAILORED CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplications outputs a compact listing of saved applications.
func (p *Printer) PrintApplications(apps []*store.Application) {
	if len(apps) == 0 {
		p.printBox("APPLICATIONS", "No applications saved yet.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %d\n\n", len(apps))

	count := min(len(apps), maxItemsToShow)
	for i := 0; i < count; i++ {
		app := apps[i]
		fmt.Fprintf(&sb, "%s\n", app.ID)
		fmt.Fprintf(&sb, "  %s / %s\n", app.Company, app.JobTitle)
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(apps) > maxItemsToShow {
		fmt.Fprintf(&sb, "\n... and %d more", len(apps)-maxItemsToShow)
	}

	p.printBox("APPLICATIONS", sb.String())
}
