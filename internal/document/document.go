// Package document defines the structured, model-editable representation of a
// CV's content. A Document is a pure value: it is extracted fresh from markup,
// mutated by skill merging or by parsing a rewritten JSON form, rendered back
// into markup, and then discarded. Only rendered HTML is ever persisted.
package document

import (
	"encoding/json"
	"fmt"
)

// Document is the canonical structured form of a CV. Fields absent in the
// source markup stay zero-valued; JSON omits them.
type Document struct {
	Profile        Profile              `json:"profile"`
	Contact        Contact              `json:"contact"`
	Links          []Link               `json:"links"`
	Skills         []SkillGroup         `json:"skills"`
	Languages      []Language           `json:"languages"`
	Summary        string               `json:"summary"`
	Experience     []ExperienceEntry    `json:"experience"`
	Education      []EducationEntry     `json:"education"`
	Projects       []ProjectEntry       `json:"projects"`
	Certifications []CertificationEntry `json:"certifications"`
}

// Profile holds the header identity block.
type Profile struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Image string `json:"image,omitempty"`
}

// Contact maps contact kinds to their display text. Kinds are inferred from
// markup icon hints or text heuristics during extraction (see ClassifyText).
type Contact struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
}

// Get returns the display text for a contact kind, or "" if absent.
func (c Contact) Get(kind ContactKind) string {
	switch kind {
	case ContactPhone:
		return c.Phone
	case ContactEmail:
		return c.Email
	case ContactLocation:
		return c.Location
	default:
		return ""
	}
}

// Set stores the display text for a contact kind. Unknown kinds are dropped.
func (c *Contact) Set(kind ContactKind, text string) {
	switch kind {
	case ContactPhone:
		c.Phone = text
	case ContactEmail:
		c.Email = text
	case ContactLocation:
		c.Location = text
	}
}

// Link is a display-text/URL pair from the sidebar link list.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// SkillGroup is one named skill category with its ordered items.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Language pairs a language name with a 0-100 proficiency value.
type Language struct {
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
}

// ExperienceEntry is one work-history item. Bullet strings may carry the
// **bold** run convention; description paragraphs are plain text.
type ExperienceEntry struct {
	Title        string   `json:"title,omitempty"`
	Date         string   `json:"date,omitempty"`
	Company      string   `json:"company,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  []string `json:"description,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
	Technologies string   `json:"technologies,omitempty"`
}

// EducationEntry is one education item.
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Date        string `json:"date,omitempty"`
	Institution string `json:"institution,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProjectEntry is one project item; the title optionally carries a URL.
type ProjectEntry struct {
	Title        string   `json:"title,omitempty"`
	URL          string   `json:"url,omitempty"`
	Date         string   `json:"date,omitempty"`
	Description  string   `json:"description,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
	Technologies string   `json:"technologies,omitempty"`
}

// CertificationEntry is one certification item; the title optionally carries
// a URL.
type CertificationEntry struct {
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Date        string `json:"date,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Description string `json:"description,omitempty"`
}

// ParseError indicates JSON that does not decode into a Document.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse document JSON: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// FromJSON decodes a Document from its JSON form.
func FromJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Cause: err}
	}
	return &doc, nil
}

// ToJSON encodes the Document into the indented JSON form sent to the
// language model.
func (d *Document) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}
