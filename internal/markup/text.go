package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// VisibleText extracts all visible text from CV markup with scripts and
// styles stripped, collapsing runs of whitespace to single spaces. The
// result is what the semantic gap analysis sees, not a Document.
func VisibleText(cvHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cvHTML))
	if err != nil {
		return "", &ParseError{Message: "failed to parse CV HTML", Cause: err}
	}

	doc.Find("script,style").Remove()

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, strings.Join(strings.Fields(t), " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(parts, " "), nil
}
