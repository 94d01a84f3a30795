package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor/cv-tailor/internal/document"
)

func TestValidateDocumentJSON_AcceptsEncodedDocument(t *testing.T) {
	doc := &document.Document{
		Profile: document.Profile{Name: "Noor Ahmed", Title: "Engineering Manager"},
		Contact: document.Contact{Email: "noor@example.com"},
		Skills: []document.SkillGroup{
			{Category: "Technical Skills", Items: []string{"Go", "SQL"}},
		},
		Languages: []document.Language{{Name: "English", Proficiency: 95}},
		Summary:   "**Lead engineer** with 10 years experience.",
		Experience: []document.ExperienceEntry{
			{Title: "Engineering Manager", Company: "Acme AB", Bullets: []string{"Grew the team"}},
		},
	}

	data, err := doc.ToJSON()
	require.NoError(t, err)

	assert.NoError(t, ValidateDocumentJSON(string(data)))
}

func TestValidateDocumentJSON_AcceptsMinimalObject(t *testing.T) {
	assert.NoError(t, ValidateDocumentJSON(`{"profile":{},"contact":{},"summary":""}`))
}

func TestValidateDocumentJSON_RejectsWrongTypes(t *testing.T) {
	err := ValidateDocumentJSON(`{"summary": 42}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateDocumentJSON_RejectsUnknownKeys(t *testing.T) {
	err := ValidateDocumentJSON(`{"resume": {}}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateDocumentJSON_RejectsProficiencyOutOfRange(t *testing.T) {
	err := ValidateDocumentJSON(`{"languages":[{"name":"English","proficiency":150}]}`)
	require.Error(t, err)
}

func TestValidateDocumentJSON_RejectsNonObject(t *testing.T) {
	err := ValidateDocumentJSON(`["not", "a", "document"]`)
	require.Error(t, err)
}

func TestValidateJSONString_SchemaLoadError(t *testing.T) {
	err := ValidateJSONString(`{"type": "object"`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
