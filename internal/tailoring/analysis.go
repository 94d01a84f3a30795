package tailoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/noor/cv-tailor/internal/llm"
	"github.com/noor/cv-tailor/internal/markup"
	"github.com/noor/cv-tailor/internal/prompts"
)

const analysisTemperature = 0.3

// Analysis is the model's semantic comparison of a CV and a job
// description. Gaps lists the skills the job needs that the CV does not
// show; those drive the interactive questionnaire.
type Analysis struct {
	RequiredSkills     []string `json:"required_skills"`
	RelevantExperience []string `json:"relevant_experience"`
	Gaps               []string `json:"gaps"`
	MatchedExperience  []string `json:"matched_experience"`
	Suggestions        string   `json:"suggestions"`
}

// Analyze compares the CV against the job description. Text content is
// stripped from the markup first so the model sees what a reader would. A
// response that fails to decode yields an empty analysis rather than an
// error, keeping generation usable when the model misbehaves.
func (e *Engine) Analyze(ctx context.Context, jobDescription, cvHTML string) (*Analysis, error) {
	cvText, err := markup.VisibleText(cvHTML)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet("analysis.json", "analyze-alignment"), map[string]string{
		"JobDescription": jobDescription,
		"CVText":         cvText,
	})

	raw, err := e.client.Generate(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: prompts.MustGet("analysis.json", "analyze-alignment-system"),
		Tier:         llm.TierStandard,
		Temperature:  analysisTemperature,
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &analysis); err != nil {
		log.Printf("[ANALYZE] model response failed to decode: %v", err)
		return &Analysis{
			Suggestions: "Unable to perform semantic analysis. Please check CV and job description.",
		}, nil
	}
	return &analysis, nil
}

// ExtractSkills pulls the skill names a job description mentions. Decode
// failures yield an empty list.
func (e *Engine) ExtractSkills(ctx context.Context, jobDescription string) ([]string, error) {
	prompt := prompts.Format(prompts.MustGet("analysis.json", "extract-skills"), map[string]string{
		"JobDescription": jobDescription,
	})

	raw, err := e.client.Generate(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: prompts.MustGet("analysis.json", "extract-skills-system"),
		Tier:         llm.TierLite,
		Temperature:  analysisTemperature,
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("skill extraction request failed: %w", err)
	}

	var skills []string
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &skills); err != nil {
		log.Printf("[ANALYZE] skill list failed to decode: %v", err)
		return nil, nil
	}
	return skills, nil
}
