package tailoring

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor/cv-tailor/internal/gapsession"
	"github.com/noor/cv-tailor/internal/llm"
	"github.com/noor/cv-tailor/internal/markup"
	"github.com/noor/cv-tailor/internal/store"
)

const testTemplate = `<html><body>
<h1>Noor Ahmed</h1>
<div class="skills"><div class="skill-group"><div class="skill-group-title">Technical Skills</div><div class="skill-tags"><span class="skill-tag">Python</span></div></div></div>
<div class="space-y-3"><h2>Professional Summary</h2><div class="ql-editor"><p>Engineer with experience.</p></div></div>
</body></html>`

const analysisResponse = `{"required_skills":["Go"],"relevant_experience":["Python services"],"gaps":["Go"],"matched_experience":["Python"],"suggestions":"Emphasize backend work."}`

const tailorResponse = `{"profile":{"name":"Noor Ahmed"},"contact":{},"summary":"**Backend engineer** matching this role.","skills":[{"category":"Technical Skills","items":["Python"]}]}`

// fakeClient answers each tier with a canned response and records every
// request it sees.
type fakeClient struct {
	responses map[llm.ModelTier]string
	requests  []llm.Request
}

func (f *fakeClient) Generate(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.responses[req.Tier], nil
}

func (f *fakeClient) Close() error { return nil }

func newTestEngine(t *testing.T, client llm.Client) (*Engine, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.html"), []byte(testTemplate), 0o644))

	st, err := store.Open(dir, "")
	require.NoError(t, err)
	return NewEngine(client, st, 0), st
}

func TestGenerate_TailorsAndReportsGaps(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisResponse,
		llm.TierAdvanced: tailorResponse,
	}}
	engine, _ := newTestEngine(t, client)

	result, err := engine.Generate(context.Background(), "Go backend role", nil)
	require.NoError(t, err)

	assert.Empty(t, result.Warning)
	assert.Equal(t, []string{"Go"}, result.SkillGaps)
	assert.Equal(t, "Emphasize backend work.", result.Analysis.Suggestions)

	doc, err := markup.Extract(result.CVHTML)
	require.NoError(t, err)
	assert.Equal(t, "**Backend engineer** matching this role.", doc.Summary)
}

func TestGenerate_AddSkillsBeforeTailoring(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisResponse,
		llm.TierAdvanced: tailorResponse,
	}}
	engine, _ := newTestEngine(t, client)

	result, err := engine.Generate(context.Background(), "Go backend role", []string{"Go", "Python"})
	require.NoError(t, err)

	// Python was already present, only Go is new.
	assert.Equal(t, []string{"Go"}, result.SkillsAdded)

	// The analysis runs twice: before and after the merge.
	tierCount := map[llm.ModelTier]int{}
	for _, req := range client.requests {
		tierCount[req.Tier]++
	}
	assert.Equal(t, 2, tierCount[llm.TierStandard])
	assert.Equal(t, 1, tierCount[llm.TierAdvanced])
}

func TestGenerate_BadModelOutputFallsBackWithWarning(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisResponse,
		llm.TierAdvanced: "I could not produce JSON this time, sorry.",
	}}
	engine, _ := newTestEngine(t, client)

	result, err := engine.Generate(context.Background(), "Go backend role", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, testTemplate, result.CVHTML)
}

func TestGenerate_SchemaRejectionFallsBackWithWarning(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisResponse,
		llm.TierAdvanced: `{"resume": "wrong shape"}`,
	}}
	engine, _ := newTestEngine(t, client)

	result, err := engine.Generate(context.Background(), "Go backend role", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, testTemplate, result.CVHTML)
}

func TestGenerateWithAnswers_MergesConfirmedSkills(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisResponse,
		llm.TierAdvanced: tailorResponse,
	}}
	engine, _ := newTestEngine(t, client)

	yes, no := true, false
	answers := map[string]gapsession.Answer{
		"Go":         {HasExperience: &yes, Level: "advanced", Details: "Three years of services."},
		"Kubernetes": {HasExperience: &no, Related: "Ran Docker Swarm clusters."},
		"Terraform":  {HasExperience: &no},
	}

	result, err := engine.GenerateWithAnswers(context.Background(), "Go backend role", answers)
	require.NoError(t, err)

	// Confirmed and related-experience skills are merged, plain denials are not.
	assert.Equal(t, []string{"Go", "Kubernetes"}, result.SkillsAdded)

	// The answers feed the tailoring prompt.
	var tailorPrompt string
	for _, req := range client.requests {
		if req.Tier == llm.TierAdvanced {
			tailorPrompt = req.Prompt
		}
	}
	assert.Contains(t, tailorPrompt, "Go: Has advanced experience. Details: Three years of services.")
	assert.Contains(t, tailorPrompt, "Kubernetes: No direct experience, but has related experience: Ran Docker Swarm clusters.")
	assert.Contains(t, tailorPrompt, "Terraform: No direct experience")
}

func TestTailor_IncludesHistoricalContext(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisResponse,
		llm.TierAdvanced: tailorResponse,
	}}
	engine, st := newTestEngine(t, client)

	id, err := st.SaveApplication(&store.Application{
		Company:     "Initech",
		JobTitle:    "Platform Engineer",
		SkillsAdded: []string{"Go", "Kubernetes"},
	})
	require.NoError(t, err)
	_, err = st.SaveCVHTML(id, testTemplate)
	require.NoError(t, err)

	_, err = engine.Generate(context.Background(), "Go backend role", nil)
	require.NoError(t, err)

	var tailorPrompt string
	for _, req := range client.requests {
		if req.Tier == llm.TierAdvanced {
			tailorPrompt = req.Prompt
		}
	}
	assert.Contains(t, tailorPrompt, "Previous tailoring examples:")
	assert.Contains(t, tailorPrompt, "Initech (Platform Engineer): Added skills Go, Kubernetes")
}

func TestTailor_HistoryLimitCapsContext(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisResponse,
		llm.TierAdvanced: tailorResponse,
	}}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv.html"), []byte(testTemplate), 0o644))
	st, err := store.Open(dir, "")
	require.NoError(t, err)
	engine := NewEngine(client, st, 1)

	for _, company := range []string{"Initech", "Globex"} {
		id, err := st.SaveApplication(&store.Application{
			Company:     company,
			JobTitle:    "Platform Engineer",
			SkillsAdded: []string{"Go"},
		})
		require.NoError(t, err)
		_, err = st.SaveCVHTML(id, testTemplate)
		require.NoError(t, err)
	}

	_, err = engine.Generate(context.Background(), "Go backend role", nil)
	require.NoError(t, err)

	var tailorPrompt string
	for _, req := range client.requests {
		if req.Tier == llm.TierAdvanced {
			tailorPrompt = req.Prompt
		}
	}
	assert.Equal(t, 1, strings.Count(tailorPrompt, "Added skills"))
}

func TestMergeSkills_NoNewSkillsLeavesMarkupUntouched(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeClient{})

	updated, added, err := engine.MergeSkills(testTemplate, []string{"Python"}, "")
	require.NoError(t, err)

	assert.Empty(t, added)
	assert.Equal(t, testTemplate, updated)
}

func TestAnalyze_BadOutputYieldsEmptyAnalysis(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierStandard: "no json here",
	}}
	engine, _ := newTestEngine(t, client)

	analysis, err := engine.Analyze(context.Background(), "Go backend role", testTemplate)
	require.NoError(t, err)

	assert.Empty(t, analysis.Gaps)
	assert.Contains(t, analysis.Suggestions, "Unable to perform semantic analysis")
}

func TestExtractSkills(t *testing.T) {
	client := &fakeClient{responses: map[llm.ModelTier]string{
		llm.TierLite: `["Go", "Kubernetes", "PostgreSQL"]`,
	}}
	engine, _ := newTestEngine(t, client)

	skills, err := engine.ExtractSkills(context.Background(), "Go backend role")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, skills)
}
