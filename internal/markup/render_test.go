package markup

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor/cv-tailor/internal/document"
)

// normalize parses and re-serializes markup so fixtures can be compared
// against render output independent of parser normalization.
func normalize(t *testing.T, src string) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	out, err := doc.Html()
	require.NoError(t, err)
	return out
}

func TestRender_RoundTripIsIdempotent(t *testing.T) {
	extracted, err := Extract(canonicalTemplate)
	require.NoError(t, err)

	rendered, err := Render(canonicalTemplate, extracted)
	require.NoError(t, err)

	reExtracted, err := Extract(rendered)
	require.NoError(t, err)

	assert.Equal(t, extracted, reExtracted)
}

func TestRender_RoundTripSurvivesFillerParagraphs(t *testing.T) {
	src := `<html><body><div class="space-y-3"><h2>Professional Summary</h2>
<div class="ql-editor"><p>First.</p><p><br></p><p>Second.</p></div></div></body></html>`

	extracted, err := Extract(src)
	require.NoError(t, err)
	require.Equal(t, "First.\n\nSecond.", extracted.Summary)

	rendered, err := Render(src, extracted)
	require.NoError(t, err)

	reExtracted, err := Extract(rendered)
	require.NoError(t, err)
	assert.Equal(t, extracted, reExtracted)
}

func TestRender_ScalarSlots(t *testing.T) {
	doc := &document.Document{
		Profile: document.Profile{Name: "Sam Lind", Title: "Staff Engineer"},
		Contact: document.Contact{Email: "sam@example.org"},
	}

	rendered, err := Render(canonicalTemplate, doc)
	require.NoError(t, err)

	out, err := Extract(rendered)
	require.NoError(t, err)
	assert.Equal(t, "Sam Lind", out.Profile.Name)
	assert.Equal(t, "Staff Engineer", out.Profile.Title)
	assert.Equal(t, "sam@example.org", out.Contact.Email)
	// Untouched slots keep the template's values.
	assert.Equal(t, "+46 70 123 45 67", out.Contact.Phone)
}

func TestRender_SummaryExpandsBoldRuns(t *testing.T) {
	doc := &document.Document{Summary: "**Lead engineer** with 10 years experience."}

	rendered, err := Render(canonicalTemplate, doc)
	require.NoError(t, err)

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	require.NoError(t, err)

	var editor *goquery.Selection
	parsed.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.TrimSpace(h.Text()) == "Professional Summary" {
			editor = h.Closest("div.space-y-3").Find("div.ql-editor").First()
			return false
		}
		return true
	})
	require.NotNil(t, editor)

	p := editor.Find("p").First()
	require.Equal(t, 1, p.Length())

	strong := p.Find("strong")
	require.Equal(t, 1, strong.Length())
	assert.Equal(t, "Lead engineer", strong.Text())
	assert.Equal(t, "**Lead engineer** with 10 years experience.",
		strings.TrimSpace(inlineText(p)))
}

func TestRender_ReplacesAllEntriesInSection(t *testing.T) {
	doc := &document.Document{
		Experience: []document.ExperienceEntry{
			{Title: "CTO", Date: "2024", Company: "Startup AB"},
		},
	}

	rendered, err := Render(canonicalTemplate, doc)
	require.NoError(t, err)

	out, err := Extract(rendered)
	require.NoError(t, err)
	require.Len(t, out.Experience, 1)
	assert.Equal(t, "CTO", out.Experience[0].Title)
	assert.Equal(t, "Startup AB", out.Experience[0].Company)
}

func TestRender_LinksCloneFirstNodeSkeleton(t *testing.T) {
	doc := &document.Document{
		Links: []document.Link{
			{Text: "site one", URL: "https://one.example"},
			{Text: "site two", URL: "https://two.example"},
			{Text: "site three", URL: "https://three.example"},
		},
	}

	rendered, err := Render(canonicalTemplate, doc)
	require.NoError(t, err)

	out, err := Extract(rendered)
	require.NoError(t, err)
	assert.Equal(t, doc.Links, out.Links)

	// Clones keep the first node's icon markup.
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	require.NoError(t, err)
	count := 0
	parsed.Find("div.contact-item").Each(func(_ int, item *goquery.Selection) {
		if item.Find("a").Length() > 0 {
			count++
			assert.Equal(t, 1, item.Find("svg").Length())
		}
	})
	assert.Equal(t, 3, count)
}

func TestRender_SkillGroupsRebuilt(t *testing.T) {
	doc := &document.Document{
		Skills: []document.SkillGroup{
			{Category: "Cloud", Items: []string{"AWS", "GCP"}},
		},
	}

	rendered, err := Render(canonicalTemplate, doc)
	require.NoError(t, err)

	out, err := Extract(rendered)
	require.NoError(t, err)
	require.Len(t, out.Skills, 1)
	assert.Equal(t, "Cloud", out.Skills[0].Category)
	assert.Equal(t, []string{"AWS", "GCP"}, out.Skills[0].Items)
}

func TestRender_LanguagesRebuilt(t *testing.T) {
	doc := &document.Document{
		Languages: []document.Language{
			{Name: "Arabic", Proficiency: 100},
			{Name: "English", Proficiency: 90},
		},
	}

	rendered, err := Render(canonicalTemplate, doc)
	require.NoError(t, err)

	out, err := Extract(rendered)
	require.NoError(t, err)
	assert.Equal(t, doc.Languages, out.Languages)
}

func TestRender_MissingSectionIsSkippedWithoutDamage(t *testing.T) {
	// Template with no Languages heading at all.
	const bare = `<html><body>
<div class="space-y-3"><h2>Professional Summary</h2><div class="ql-editor"><p>Old summary.</p></div></div>
</body></html>`

	doc := &document.Document{
		Languages: []document.Language{{Name: "English", Proficiency: 95}},
	}

	rendered, err := Render(bare, doc)
	require.NoError(t, err)
	assert.Equal(t, normalize(t, bare), rendered)
}

func TestRender_EscapesTextContent(t *testing.T) {
	doc := &document.Document{
		Experience: []document.ExperienceEntry{
			{Title: "R&D Lead <Platform>", Date: "2024", Company: "A & B"},
		},
	}

	rendered, err := Render(canonicalTemplate, doc)
	require.NoError(t, err)

	out, err := Extract(rendered)
	require.NoError(t, err)
	require.Len(t, out.Experience, 1)
	assert.Equal(t, "R&D Lead <Platform>", out.Experience[0].Title)
	assert.Equal(t, "A & B", out.Experience[0].Company)
}
