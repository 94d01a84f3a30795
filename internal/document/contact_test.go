package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ContactKind
	}{
		{"email", "noor@example.com", ContactEmail},
		{"email wins over digits", "a1234567@example.com", ContactEmail},
		{"international phone", "+46 70 123 45 67", ContactPhone},
		{"dashed phone", "031-123-4567", ContactPhone},
		{"too few digits for phone", "12345", ContactLocation},
		{"city", "Gothenburg, Sweden", ContactLocation},
		{"plain word", "Stockholm", ContactLocation},
		{"empty", "", ContactUnknown},
		{"whitespace only", "   ", ContactUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyText(tt.text))
		})
	}
}

func TestContact_GetSet(t *testing.T) {
	var c Contact
	c.Set(ContactPhone, "+46 70 123 45 67")
	c.Set(ContactEmail, "noor@example.com")
	c.Set(ContactLocation, "Gothenburg")
	c.Set(ContactUnknown, "dropped")

	assert.Equal(t, "+46 70 123 45 67", c.Get(ContactPhone))
	assert.Equal(t, "noor@example.com", c.Get(ContactEmail))
	assert.Equal(t, "Gothenburg", c.Get(ContactLocation))
	assert.Equal(t, "", c.Get(ContactUnknown))
}

func TestFromJSON_Invalid(t *testing.T) {
	doc, err := FromJSON([]byte("not json"))
	assert.Nil(t, doc)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	doc := &Document{
		Profile: Profile{Name: "Noor Ahmed", Title: "Engineering Manager"},
		Contact: Contact{Email: "noor@example.com"},
		Skills: []SkillGroup{
			{Category: "Technical Skills", Items: []string{"Python", "SQL"}},
		},
		Summary: "**Lead engineer** with 10 years experience.",
	}

	data, err := doc.ToJSON()
	assert.NoError(t, err)

	parsed, err := FromJSON(data)
	assert.NoError(t, err)
	assert.Equal(t, doc, parsed)
}
