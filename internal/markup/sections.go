// Package markup implements the bidirectional mapping between the CV HTML
// template and the structured Document form: extraction of a Document from
// template markup, and re-rendering a Document into a fresh parse of the
// same template. Only the fixed template shape is supported; every lookup is
// best-effort and a missing anchor yields an absent field, never an error.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section identifies a named region of the template. Sections are located by
// their heading text; the enum keeps the dispatch exhaustive instead of
// scattering string comparisons through the extractor and renderer.
type Section int

// Template sections, in document order.
const (
	SectionSummary Section = iota
	SectionExperience
	SectionEducation
	SectionProjects
	SectionCertifications
	SectionLanguages
)

// Heading returns the exact heading text that anchors the section.
func (s Section) Heading() string {
	switch s {
	case SectionSummary:
		return "Professional Summary"
	case SectionExperience:
		return "Work Experience"
	case SectionEducation:
		return "Education"
	case SectionProjects:
		return "Projects"
	case SectionCertifications:
		return "Certifications"
	case SectionLanguages:
		return "Languages"
	default:
		return ""
	}
}

// sectionContainerClass marks the ancestor container of a section heading and
// the inner container entries are appended into.
const sectionContainerClass = "div.space-y-3"

// findSection locates a section's container: the nearest ancestor container
// of a heading whose trimmed text equals the section heading. Returns nil
// when the heading or its container is missing; callers treat that as the
// section being absent from the template.
func findSection(doc *goquery.Document, s Section) *goquery.Selection {
	heading := s.Heading()
	var found *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.TrimSpace(h.Text()) != heading {
			return true
		}
		if container := h.Closest(sectionContainerClass); container.Length() > 0 {
			found = container
		}
		return false
	})
	return found
}

// entryContainer returns the node entries are appended into: the first inner
// container when the section nests one, otherwise the section itself.
func entryContainer(section *goquery.Selection) *goquery.Selection {
	if inner := section.Find(sectionContainerClass).First(); inner.Length() > 0 {
		return inner
	}
	return section
}
