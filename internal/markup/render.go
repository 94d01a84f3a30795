package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/noor/cv-tailor/internal/document"
)

// Render writes a Document into a fresh parse of the original template and
// returns the resulting markup. Callers must always pass the original
// template, never a previous render's output, to avoid drift.
//
// Scalar slots are overwritten in place. Repeating sections are rebuilt
// wholesale: existing entry nodes are removed and one node per Document
// entry is appended using the template's markup skeleton. A section whose
// anchor heading is missing from the template is silently skipped, dropping
// that part of the Document (a known data-loss risk for templates with
// non-standard headings). Nothing outside the known content regions is
// touched.
func Render(templateHTML string, d *document.Document) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(templateHTML))
	if err != nil {
		return "", &ParseError{Message: "failed to parse template HTML", Cause: err}
	}

	renderProfile(doc, d.Profile)
	renderContact(doc, d.Contact)
	renderLinks(doc, d.Links)
	renderSkills(doc, d.Skills)
	renderLanguages(doc, d.Languages)
	renderSummary(doc, d.Summary)
	renderExperience(doc, d.Experience)
	renderEducation(doc, d.Education)
	renderProjects(doc, d.Projects)
	renderCertifications(doc, d.Certifications)

	out, err := doc.Html()
	if err != nil {
		return "", &ParseError{Message: "failed to serialize rendered HTML", Cause: err}
	}
	return out, nil
}

func renderProfile(doc *goquery.Document, p document.Profile) {
	if p.Name != "" {
		doc.Find("h1").First().SetText(p.Name)
	}
	if p.Title != "" {
		doc.Find(`p[style*="font-size:1.25rem"]`).First().SetText(p.Title)
	}
	if p.Image != "" {
		doc.Find("img").First().SetAttr("src", p.Image)
	}
}

func renderContact(doc *goquery.Document, contact document.Contact) {
	doc.Find("div.contact-item").Each(func(_ int, item *goquery.Selection) {
		if item.Find("a").Length() > 0 {
			return
		}
		// Classify before mutating so the slot keeps its original identity.
		value := contact.Get(classifyContactItem(item))
		if value == "" {
			return
		}
		target := item.Find("span").Not(".contact-icon").First()
		if target.Length() == 0 {
			return
		}
		target.SetText(value)
	})
}

// renderLinks reuses the first existing link node as a clone template so the
// icon markup is preserved; entries beyond the first append a structural
// clone of it. Existing links past the first are discarded.
func renderLinks(doc *goquery.Document, links []document.Link) {
	if len(links) == 0 {
		return
	}

	var items []*goquery.Selection
	doc.Find("div.contact-item").Each(func(_ int, item *goquery.Selection) {
		if item.Find("a").Length() > 0 {
			items = append(items, item)
		}
	})
	if len(items) == 0 {
		return
	}

	first := items[0]
	skeleton, err := goquery.OuterHtml(first)
	if err != nil {
		return
	}
	container := first.Parent()

	for _, extra := range items[1:] {
		extra.Remove()
	}

	setLink(first, links[0])
	for _, link := range links[1:] {
		container.AppendHtml(skeleton)
		setLink(container.ChildrenFiltered("div.contact-item").Last(), link)
	}
}

func setLink(item *goquery.Selection, link document.Link) {
	a := item.Find("a").First()
	if a.Length() == 0 {
		return
	}
	a.SetText(link.Text)
	a.SetAttr("href", link.URL)
}

func renderSkills(doc *goquery.Document, groups []document.SkillGroup) {
	existing := doc.Find("div.skill-group")
	if existing.Length() == 0 || len(groups) == 0 {
		return
	}

	container := existing.First().Parent()
	existing.Remove()

	var sb strings.Builder
	for _, group := range groups {
		sb.WriteString(`<div class="skill-group"><div class="skill-group-title">`)
		sb.WriteString(html.EscapeString(group.Category))
		sb.WriteString(`</div><div class="skill-tags">`)
		for _, item := range group.Items {
			sb.WriteString(`<span class="skill-tag">`)
			sb.WriteString(html.EscapeString(item))
			sb.WriteString(`</span>`)
		}
		sb.WriteString(`</div></div>`)
	}
	container.AppendHtml(sb.String())
}

func renderLanguages(doc *goquery.Document, languages []document.Language) {
	section := findSection(doc, SectionLanguages)
	if section == nil || len(languages) == 0 {
		return
	}

	section.Find("div.space-y-1").Remove()
	container := entryContainer(section)

	var sb strings.Builder
	for _, lang := range languages {
		sb.WriteString(`<div class="space-y-1">`)
		sb.WriteString(`<div class="flex justify-between items-center gap-4">`)
		sb.WriteString(`<span class="text-sm flex-1 min-w-0" style="color:#334155">`)
		sb.WriteString(html.EscapeString(lang.Name))
		sb.WriteString(`</span></div>`)
		sb.WriteString(`<div class="language-bar">`)
		fmt.Fprintf(&sb, `<div class="language-bar-fill" style="width:%d%%"></div>`, lang.Proficiency)
		sb.WriteString(`</div></div>`)
	}
	container.AppendHtml(sb.String())
}

func renderSummary(doc *goquery.Document, summary string) {
	if summary == "" {
		return
	}
	section := findSection(doc, SectionSummary)
	if section == nil {
		return
	}
	editor := section.Find("div.ql-editor").First()
	if editor.Length() == 0 {
		return
	}

	var sb strings.Builder
	for _, para := range strings.Split(summary, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(boldHTML(para))
		sb.WriteString("</p>")
	}
	editor.SetHtml(sb.String())
}

// boldHTML expands the **bold** convention into inline markup: alternating
// segments become <strong> nodes, plain segments stay as escaped text. A
// wholly wrapped string becomes a single bold node with no plain siblings.
func boldHTML(text string) string {
	var sb strings.Builder
	for _, run := range document.SplitBoldRuns(text) {
		if run.Bold {
			sb.WriteString("<strong>")
			sb.WriteString(html.EscapeString(run.Text))
			sb.WriteString("</strong>")
		} else {
			sb.WriteString(html.EscapeString(run.Text))
		}
	}
	return sb.String()
}

func renderExperience(doc *goquery.Document, entries []document.ExperienceEntry) {
	section := findSection(doc, SectionExperience)
	if section == nil || len(entries) == 0 {
		return
	}

	section.Find("div.timeline-item").Remove()
	container := entryContainer(section)

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(`<div class="timeline-item"><div class="timeline-dot"></div>`)
		writeEntryHeader(&sb, entry.Title, "", entry.Date)
		writeEntrySubheader(&sb, entry.Company, entry.Location)

		sb.WriteString(`<div class="ql-editor break-words text-sm leading-tight">`)
		for _, para := range entry.Description {
			sb.WriteString("<p>")
			sb.WriteString(html.EscapeString(para))
			sb.WriteString("</p>")
		}
		writeBullets(&sb, entry.Bullets)
		writeTechnologies(&sb, entry.Technologies)
		sb.WriteString(`</div></div>`)
	}
	container.AppendHtml(sb.String())
}

func renderEducation(doc *goquery.Document, entries []document.EducationEntry) {
	section := findSection(doc, SectionEducation)
	if section == nil || len(entries) == 0 {
		return
	}

	section.Find("div.timeline-item").Remove()
	container := entryContainer(section)

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(`<div class="timeline-item"><div class="timeline-dot"></div>`)
		writeEntryHeader(&sb, entry.Degree, "", entry.Date)
		writeEntrySubheader(&sb, entry.Institution, entry.Location)
		if entry.Description != "" {
			sb.WriteString(`<div class="ql-editor break-words text-sm leading-tight"><p>`)
			sb.WriteString(html.EscapeString(entry.Description))
			sb.WriteString(`</p></div>`)
		}
		sb.WriteString(`</div>`)
	}
	container.AppendHtml(sb.String())
}

func renderProjects(doc *goquery.Document, entries []document.ProjectEntry) {
	section := findSection(doc, SectionProjects)
	if section == nil || len(entries) == 0 {
		return
	}

	section.Find("div.timeline-item").Remove()
	container := entryContainer(section)

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(`<div class="timeline-item"><div class="timeline-dot"></div>`)
		writeEntryHeader(&sb, entry.Title, entry.URL, entry.Date)

		sb.WriteString(`<div class="ql-editor break-words text-sm leading-tight">`)
		if entry.Description != "" {
			sb.WriteString("<p>")
			sb.WriteString(html.EscapeString(entry.Description))
			sb.WriteString("</p>")
		}
		writeBullets(&sb, entry.Bullets)
		writeTechnologies(&sb, entry.Technologies)
		sb.WriteString(`</div></div>`)
	}
	container.AppendHtml(sb.String())
}

func renderCertifications(doc *goquery.Document, entries []document.CertificationEntry) {
	section := findSection(doc, SectionCertifications)
	if section == nil || len(entries) == 0 {
		return
	}

	section.Find("div.timeline-item").Remove()
	container := entryContainer(section)

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(`<div class="timeline-item"><div class="timeline-dot"></div>`)
		writeEntryHeader(&sb, entry.Title, entry.URL, entry.Date)
		if entry.Issuer != "" {
			sb.WriteString(`<div class="flex justify-between items-baseline">`)
			sb.WriteString(`<p class="text-sm flex-1 min-w-0">`)
			sb.WriteString(html.EscapeString(entry.Issuer))
			sb.WriteString(`</p></div>`)
		}
		if entry.Description != "" {
			sb.WriteString(`<div class="ql-editor break-words text-sm leading-tight"><p>`)
			sb.WriteString(html.EscapeString(entry.Description))
			sb.WriteString(`</p></div>`)
		}
		sb.WriteString(`</div>`)
	}
	container.AppendHtml(sb.String())
}

// writeEntryHeader writes the title/date row; a non-empty url wraps the
// title in an anchor.
func writeEntryHeader(sb *strings.Builder, title, url, date string) {
	sb.WriteString(`<div class="flex justify-between items-baseline gap-4">`)
	sb.WriteString(`<h3 class="flex-1 min-w-0">`)
	if url != "" {
		sb.WriteString(`<a href="`)
		sb.WriteString(html.EscapeString(url))
		sb.WriteString(`" target="_blank" rel="noopener noreferrer">`)
		sb.WriteString(html.EscapeString(title))
		sb.WriteString(`</a>`)
	} else {
		sb.WriteString(html.EscapeString(title))
	}
	sb.WriteString(`</h3><span class="date-badge">`)
	sb.WriteString(html.EscapeString(date))
	sb.WriteString(`</span></div>`)
}

// writeEntrySubheader writes the company/location (or institution) row.
func writeEntrySubheader(sb *strings.Builder, primary, secondary string) {
	sb.WriteString(`<div class="flex justify-between items-baseline">`)
	sb.WriteString(`<p class="text-sm flex-1 min-w-0">`)
	sb.WriteString(html.EscapeString(primary))
	sb.WriteString(`</p><p class="flex-shrink-0 text-xs">`)
	sb.WriteString(html.EscapeString(secondary))
	sb.WriteString(`</p></div>`)
}

func writeBullets(sb *strings.Builder, bullets []string) {
	if len(bullets) == 0 {
		return
	}
	sb.WriteString("<ol>")
	for _, bullet := range bullets {
		sb.WriteString(`<li data-list="bullet"><span class="ql-ui" contenteditable="false"></span>`)
		sb.WriteString(boldHTML(bullet))
		sb.WriteString(`</li>`)
	}
	sb.WriteString("</ol>")
}

func writeTechnologies(sb *strings.Builder, tech string) {
	if tech == "" {
		return
	}
	sb.WriteString(`<p><strong>` + technologiesLabel + `: </strong>`)
	sb.WriteString(html.EscapeString(tech))
	sb.WriteString(`</p>`)
}
