// Package tailoring rewrites a CV against a job description. The CV is
// extracted to its JSON form, sent to the language model together with job
// and history context, and the returned JSON is validated and rendered back
// into the original template. Model output is never trusted: anything that
// fails validation falls back to the unmodified CV with a warning.
package tailoring

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/noor/cv-tailor/internal/document"
	"github.com/noor/cv-tailor/internal/gapsession"
	"github.com/noor/cv-tailor/internal/llm"
	"github.com/noor/cv-tailor/internal/markup"
	"github.com/noor/cv-tailor/internal/prompts"
	"github.com/noor/cv-tailor/internal/schemas"
	"github.com/noor/cv-tailor/internal/skills"
	"github.com/noor/cv-tailor/internal/store"
)

const (
	// defaultHistoryLimit bounds how many past applications feed the
	// prompt when no limit is configured.
	defaultHistoryLimit = 3

	tailorTemperature = 0.5
)

// Engine coordinates extraction, model calls and rendering. All
// dependencies are passed in at construction.
type Engine struct {
	client       llm.Client
	store        *store.Store
	historyLimit int
}

// NewEngine builds an Engine from its dependencies. historyLimit caps how
// many past applications feed the tailoring prompt; values below 1 use the
// default.
func NewEngine(client llm.Client, st *store.Store, historyLimit int) *Engine {
	if historyLimit < 1 {
		historyLimit = defaultHistoryLimit
	}
	return &Engine{client: client, store: st, historyLimit: historyLimit}
}

// Result is the outcome of a tailoring run.
type Result struct {
	CVHTML      string
	SkillGaps   []string
	SkillsAdded []string
	Analysis    *Analysis
	// Warning is set when the model response could not be used and the
	// CV was returned untailored.
	Warning string
}

// Generate produces a tailored CV for the job description. Skills listed in
// addSkills are merged into the CV before tailoring; when skills are added
// the gap analysis runs again so the reported gaps reflect the updated CV.
func (e *Engine) Generate(ctx context.Context, jobDescription string, addSkills []string) (*Result, error) {
	baseCV, err := e.store.LoadTemplate()
	if err != nil {
		return nil, err
	}

	analysis, err := e.Analyze(ctx, jobDescription, baseCV)
	if err != nil {
		return nil, err
	}

	var added []string
	if len(addSkills) > 0 {
		baseCV, added, err = e.MergeSkills(baseCV, addSkills, "")
		if err != nil {
			return nil, err
		}
		analysis, err = e.Analyze(ctx, jobDescription, baseCV)
		if err != nil {
			return nil, err
		}
	}

	cvHTML, warning, err := e.tailor(ctx, jobDescription, baseCV, nil)
	if err != nil {
		return nil, err
	}

	return &Result{
		CVHTML:      cvHTML,
		SkillGaps:   analysis.Gaps,
		SkillsAdded: added,
		Analysis:    analysis,
		Warning:     warning,
	}, nil
}

// GenerateWithAnswers produces a tailored CV using the collected skill-gap
// answers. Skills the candidate confirmed, or described related experience
// for, are merged into the CV first; the answers themselves become prompt
// context so the model can frame that experience.
func (e *Engine) GenerateWithAnswers(ctx context.Context, jobDescription string, answers map[string]gapsession.Answer) (*Result, error) {
	baseCV, err := e.store.LoadTemplate()
	if err != nil {
		return nil, err
	}

	analysis, err := e.Analyze(ctx, jobDescription, baseCV)
	if err != nil {
		return nil, err
	}

	var added []string
	if toAdd := skillsFromAnswers(answers); len(toAdd) > 0 {
		baseCV, added, err = e.MergeSkills(baseCV, toAdd, "")
		if err != nil {
			return nil, err
		}
	}

	cvHTML, warning, err := e.tailor(ctx, jobDescription, baseCV, answers)
	if err != nil {
		return nil, err
	}

	return &Result{
		CVHTML:      cvHTML,
		SkillGaps:   analysis.Gaps,
		SkillsAdded: added,
		Analysis:    analysis,
		Warning:     warning,
	}, nil
}

// MergeSkills adds the named skills to the CV's skill section and returns
// the updated markup plus the skills that were actually added.
func (e *Engine) MergeSkills(cvHTML string, names []string, category string) (string, []string, error) {
	doc, err := markup.Extract(cvHTML)
	if err != nil {
		return "", nil, err
	}

	added := skills.Merge(doc, names, category)
	if len(added) == 0 {
		return cvHTML, nil, nil
	}

	updated, err := markup.Render(cvHTML, doc)
	if err != nil {
		return "", nil, err
	}
	return updated, added, nil
}

// tailor runs the model call for one CV. The returned warning is non-empty
// when the response was unusable and cvHTML is the original input.
func (e *Engine) tailor(ctx context.Context, jobDescription, cvHTML string, answers map[string]gapsession.Answer) (string, string, error) {
	doc, err := markup.Extract(cvHTML)
	if err != nil {
		return "", "", err
	}

	cvJSON, err := doc.ToJSON()
	if err != nil {
		return "", "", err
	}

	historical, err := e.store.HistoricalCVs(e.historyLimit)
	if err != nil {
		return "", "", err
	}

	prompt := prompts.Format(prompts.MustGet("tailor.json", "tailor-cv"), map[string]string{
		"JobDescription":    jobDescription,
		"CVJSON":            string(cvJSON),
		"HistoricalContext": historicalContext(historical),
		"AnswersContext":    answersContext(answers),
		"SummaryStyle":      doc.Summary,
	})

	raw, err := e.client.Generate(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: prompts.MustGet("tailor.json", "tailor-cv-system"),
		Tier:         llm.TierAdvanced,
		Temperature:  tailorTemperature,
		JSON:         true,
	})
	if err != nil {
		return "", "", fmt.Errorf("tailoring request failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateDocumentJSON(cleaned); err != nil {
		log.Printf("[TAILOR] model response failed schema validation: %v", err)
		return cvHTML, "model response was not valid CV data; returning the original CV", nil
	}

	tailored, err := document.FromJSON([]byte(cleaned))
	if err != nil {
		log.Printf("[TAILOR] model response failed to decode: %v", err)
		return cvHTML, "model response was not valid CV data; returning the original CV", nil
	}

	rendered, err := markup.Render(cvHTML, tailored)
	if err != nil {
		return "", "", err
	}
	return rendered, "", nil
}

// skillsFromAnswers picks the skills worth surfacing on the CV, per the
// answers' own merge rule.
func skillsFromAnswers(answers map[string]gapsession.Answer) []string {
	var out []string
	for skill, answer := range answers {
		if answer.AddsSkill() {
			out = append(out, skill)
		}
	}
	sort.Strings(out)
	return out
}

func historicalContext(history []store.HistoricalCV) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nPrevious tailoring examples:\n")
	for _, hist := range history {
		fmt.Fprintf(&sb, "- %s (%s): Added skills %s\n",
			hist.Company, hist.JobTitle, strings.Join(hist.SkillsAdded, ", "))
	}
	return sb.String()
}

func answersContext(answers map[string]gapsession.Answer) string {
	if len(answers) == 0 {
		return ""
	}

	// Stable order keeps prompts reproducible.
	keys := make([]string, 0, len(answers))
	for skill := range answers {
		keys = append(keys, skill)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("\nUser's Experience with Missing Skills:\n")
	for _, skill := range keys {
		answer := answers[skill]
		switch {
		case answer.HasExperience != nil && *answer.HasExperience:
			level := answer.Level
			if level == "" {
				level = "some"
			}
			fmt.Fprintf(&sb, "- %s: Has %s experience", skill, level)
			if answer.Details != "" {
				fmt.Fprintf(&sb, ". Details: %s", answer.Details)
			}
			sb.WriteString("\n")
		case answer.HasExperience != nil && answer.Related != "":
			fmt.Fprintf(&sb, "- %s: No direct experience, but has related experience: %s\n", skill, answer.Related)
		case answer.HasExperience != nil:
			fmt.Fprintf(&sb, "- %s: No direct experience\n", skill)
		}
	}
	return sb.String()
}
