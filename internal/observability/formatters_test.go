package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noor/cv-tailor/internal/store"
	"github.com/noor/cv-tailor/internal/tailoring"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &tailoring.Analysis{
		RequiredSkills:    []string{"Go", "Kubernetes"},
		MatchedExperience: []string{"Backend services in Python"},
		Gaps:              []string{"Kubernetes"},
		Suggestions:       "Highlight container work.",
	}

	p.PrintAnalysis(analysis)
	output := buf.String()

	assert.Contains(t, output, "CV / JOB ALIGNMENT")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "Kubernetes")
	assert.Contains(t, output, "Highlight container work.")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAnalysis_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &tailoring.Analysis{
		Gaps: []string{"a", "b", "c", "d", "e", "f", "g"},
	}

	p.PrintAnalysis(analysis)

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &tailoring.Result{
		CVHTML:      "<html></html>",
		SkillsAdded: []string{"Go"},
		SkillGaps:   []string{"Kubernetes"},
		Warning:     "model response was not valid CV data; returning the original CV",
	}

	p.PrintResult(result)
	output := buf.String()

	assert.Contains(t, output, "TAILORED CV")
	assert.Contains(t, output, "Skills added:")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "Remaining gaps:")
	assert.Contains(t, output, "model response was not valid CV")
}

func TestPrintResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(nil)

	assert.Empty(t, buf.String())
}

func TestPrintApplications(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	apps := []*store.Application{
		{ID: "acme_20260101_120000", Company: "Acme", JobTitle: "Backend Engineer"},
		{ID: "initech_20260102_090000", Company: "Initech", JobTitle: "Platform Engineer"},
	}

	p.PrintApplications(apps)
	output := buf.String()

	assert.Contains(t, output, "APPLICATIONS")
	assert.Contains(t, output, "Total: 2")
	assert.Contains(t, output, "acme_20260101_120000")
	assert.Contains(t, output, "Initech")
}

func TestPrintApplications_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintApplications(nil)

	assert.Contains(t, buf.String(), "No applications saved yet.")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))
	output := buf.String()

	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
