package markup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/noor/cv-tailor/internal/document"
)

// defaultProficiency is used when a language bar carries no parsable width.
const defaultProficiency = 100

// technologiesLabel marks the free-text technologies tail of an entry.
const technologiesLabel = "Key Technologies"

var widthRe = regexp.MustCompile(`width:\s*(\d+)%`)

// Extract parses CV template markup and produces its Document form. Every
// step is null-safe: missing headings, sub-elements, or attributes yield
// absent fields. Only unparsable markup returns an error.
func Extract(cvHTML string) (*document.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cvHTML))
	if err != nil {
		return nil, &ParseError{Message: "failed to parse CV HTML", Cause: err}
	}

	return &document.Document{
		Profile:        extractProfile(doc),
		Contact:        extractContact(doc),
		Links:          extractLinks(doc),
		Skills:         extractSkills(doc),
		Languages:      extractLanguages(doc),
		Summary:        extractSummary(doc),
		Experience:     extractExperience(doc),
		Education:      extractEducation(doc),
		Projects:       extractProjects(doc),
		Certifications: extractCertifications(doc),
	}, nil
}

func extractProfile(doc *goquery.Document) document.Profile {
	var p document.Profile

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		p.Name = strings.TrimSpace(h1.Text())
	}
	if title := doc.Find(`p[style*="font-size:1.25rem"]`).First(); title.Length() > 0 {
		p.Title = strings.TrimSpace(title.Text())
	}
	if img := doc.Find("img").First(); img.Length() > 0 {
		p.Image, _ = img.Attr("src")
	}

	return p
}

// classifyContactItem determines a contact entry's kind, preferring icon
// hints in the item's SVG markup and falling back to the plain-text
// heuristics in the document package.
func classifyContactItem(item *goquery.Selection) document.ContactKind {
	if svg := item.Find("svg").First(); svg.Length() > 0 {
		if class, ok := svg.Attr("class"); ok {
			switch {
			case strings.Contains(class, "phone"):
				return document.ContactPhone
			case strings.Contains(class, "mail"):
				return document.ContactEmail
			case strings.Contains(class, "house"), strings.Contains(class, "map-pin"):
				return document.ContactLocation
			}
		}
	}
	return document.ClassifyText(strings.TrimSpace(item.Text()))
}

func extractContact(doc *goquery.Document) document.Contact {
	var contact document.Contact

	doc.Find("div.contact-item").Each(func(_ int, item *goquery.Selection) {
		if item.Find("a").Length() > 0 {
			return // link entry, handled by extractLinks
		}
		text := strings.TrimSpace(item.Text())
		if text == "" {
			return
		}
		contact.Set(classifyContactItem(item), text)
	})

	return contact
}

func extractLinks(doc *goquery.Document) []document.Link {
	var links []document.Link

	doc.Find("div.contact-item").Each(func(_ int, item *goquery.Selection) {
		a := item.Find("a").First()
		if a.Length() == 0 {
			return
		}
		href, _ := a.Attr("href")
		links = append(links, document.Link{
			Text: strings.TrimSpace(a.Text()),
			URL:  href,
		})
	})

	return links
}

func extractSkills(doc *goquery.Document) []document.SkillGroup {
	var groups []document.SkillGroup

	doc.Find("div.skill-group").Each(func(_ int, group *goquery.Selection) {
		title := group.Find("div.skill-group-title").First()
		if title.Length() == 0 {
			return
		}
		var items []string
		group.Find("span.skill-tag").Each(func(_ int, tag *goquery.Selection) {
			items = append(items, strings.TrimSpace(tag.Text()))
		})
		groups = append(groups, document.SkillGroup{
			Category: strings.TrimSpace(title.Text()),
			Items:    items,
		})
	})

	return groups
}

func extractLanguages(doc *goquery.Document) []document.Language {
	section := findSection(doc, SectionLanguages)
	if section == nil {
		return nil
	}

	var languages []document.Language
	section.Find("div.space-y-1").Each(func(_ int, item *goquery.Selection) {
		name := item.Find("span.text-sm").First()
		if name.Length() == 0 {
			return
		}
		languages = append(languages, document.Language{
			Name:        strings.TrimSpace(name.Text()),
			Proficiency: extractProficiency(item),
		})
	})

	return languages
}

// extractProficiency reads the percentage embedded in the proficiency bar's
// inline style. Parse failures default to full proficiency.
func extractProficiency(item *goquery.Selection) int {
	fill := item.Find("div.language-bar-fill").First()
	if fill.Length() == 0 {
		return defaultProficiency
	}
	style, ok := fill.Attr("style")
	if !ok {
		return defaultProficiency
	}
	m := widthRe.FindStringSubmatch(style)
	if m == nil {
		return defaultProficiency
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultProficiency
	}
	return pct
}

func extractSummary(doc *goquery.Document) string {
	section := findSection(doc, SectionSummary)
	if section == nil {
		return ""
	}
	editor := section.Find("div.ql-editor").First()
	if editor.Length() == 0 {
		return ""
	}

	var paragraphs []string
	editor.Find("p").Each(func(_ int, p *goquery.Selection) {
		// Editors emit filler paragraphs like <p><br></p>; keeping them
		// would break extract/render idempotence.
		if text := strings.TrimSpace(inlineText(p)); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

// inlineText flattens a paragraph-like node to a single string, fencing each
// bold child run in its own **...** pair and leaving other text untouched.
// Runs at the start, at the end, and adjacent bold runs all keep distinct
// marker pairs; non-bold child elements contribute their plain text.
func inlineText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}

	var runs []document.TextRun
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			runs = append(runs, document.TextRun{Text: c.Data})
		case c.Type == html.ElementNode && (c.Data == "strong" || c.Data == "b"):
			runs = append(runs, document.TextRun{Text: nodeText(c), Bold: true})
		case c.Type == html.ElementNode:
			if t := nodeText(c); t != "" {
				runs = append(runs, document.TextRun{Text: t})
			}
		}
	}
	return document.JoinBoldRuns(runs)
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func extractExperience(doc *goquery.Document) []document.ExperienceEntry {
	section := findSection(doc, SectionExperience)
	if section == nil {
		return nil
	}

	var entries []document.ExperienceEntry
	section.Find("div.timeline-item").Each(func(_ int, item *goquery.Selection) {
		entry := document.ExperienceEntry{
			Title:    firstText(item, "h3"),
			Date:     firstText(item, "span.date-badge"),
			Company:  firstText(item, "p.text-sm"),
			Location: firstText(item, "p.text-xs"),
		}

		if editor := item.Find("div.ql-editor").First(); editor.Length() > 0 {
			editor.Find("p").Each(func(_ int, p *goquery.Selection) {
				text := strings.TrimSpace(p.Text())
				if text == "" || strings.Contains(text, technologiesLabel) {
					return
				}
				entry.Description = append(entry.Description, text)
			})
			entry.Bullets = extractBullets(editor)
			entry.Technologies = extractTechnologies(editor)
		}

		entries = append(entries, entry)
	})

	return entries
}

func extractEducation(doc *goquery.Document) []document.EducationEntry {
	section := findSection(doc, SectionEducation)
	if section == nil {
		return nil
	}

	var entries []document.EducationEntry
	section.Find("div.timeline-item").Each(func(_ int, item *goquery.Selection) {
		entry := document.EducationEntry{
			Degree:      firstText(item, "h3"),
			Date:        firstText(item, "span.date-badge"),
			Institution: firstText(item, "p.text-sm"),
			Location:    firstText(item, "p.text-xs"),
		}
		if editor := item.Find("div.ql-editor").First(); editor.Length() > 0 {
			entry.Description = firstText(editor, "p")
		}
		entries = append(entries, entry)
	})

	return entries
}

func extractProjects(doc *goquery.Document) []document.ProjectEntry {
	section := findSection(doc, SectionProjects)
	if section == nil {
		return nil
	}

	var entries []document.ProjectEntry
	section.Find("div.timeline-item").Each(func(_ int, item *goquery.Selection) {
		entry := document.ProjectEntry{
			Date: firstText(item, "span.date-badge"),
		}
		entry.Title, entry.URL = titleWithURL(item)

		if editor := item.Find("div.ql-editor").First(); editor.Length() > 0 {
			entry.Description = firstPlainParagraph(editor)
			entry.Bullets = extractBullets(editor)
			entry.Technologies = extractTechnologies(editor)
		}

		entries = append(entries, entry)
	})

	return entries
}

func extractCertifications(doc *goquery.Document) []document.CertificationEntry {
	section := findSection(doc, SectionCertifications)
	if section == nil {
		return nil
	}

	var entries []document.CertificationEntry
	section.Find("div.timeline-item").Each(func(_ int, item *goquery.Selection) {
		entry := document.CertificationEntry{
			Date:   firstText(item, "span.date-badge"),
			Issuer: firstText(item, "p.text-sm"),
		}
		entry.Title, entry.URL = titleWithURL(item)

		if editor := item.Find("div.ql-editor").First(); editor.Length() > 0 {
			entry.Description = firstText(editor, "p")
		}

		entries = append(entries, entry)
	})

	return entries
}

// firstText returns the trimmed text of the first selector match under sel,
// or "" when there is none.
func firstText(sel *goquery.Selection, selector string) string {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(match.Text())
}

// titleWithURL reads an entry's h3 title, unwrapping an anchor when the
// title links out.
func titleWithURL(item *goquery.Selection) (title, url string) {
	h3 := item.Find("h3").First()
	if h3.Length() == 0 {
		return "", ""
	}
	if a := h3.Find("a").First(); a.Length() > 0 {
		href, _ := a.Attr("href")
		return strings.TrimSpace(a.Text()), href
	}
	return strings.TrimSpace(h3.Text()), ""
}

// firstPlainParagraph returns the first non-empty paragraph that is not the
// technologies tail.
func firstPlainParagraph(editor *goquery.Selection) string {
	var found string
	editor.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if text == "" || strings.Contains(text, technologiesLabel) {
			return true
		}
		found = text
		return false
	})
	return found
}

func extractBullets(editor *goquery.Selection) []string {
	var bullets []string
	editor.Find(`li[data-list="bullet"]`).Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(inlineText(li))
		if text == "" {
			return
		}
		bullets = append(bullets, text)
	})
	return bullets
}

func extractTechnologies(editor *goquery.Selection) string {
	var tech string
	editor.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := p.Text()
		if !strings.Contains(text, technologiesLabel) {
			return true
		}
		text = strings.ReplaceAll(text, technologiesLabel+":", "")
		text = strings.ReplaceAll(text, technologiesLabel, "")
		tech = strings.TrimSpace(text)
		return false
	})
	return tech
}
