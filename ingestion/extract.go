package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order before falling back to the
// largest text-bearing div on the page.
var contentSelectors = []string{
	"article",
	"div.post-content",
	"div.entry-content",
	"div.blog-post",
}

// extractArticle pulls the title and main body text from a blog page.
// Returns ErrNoContent when nothing usable remains after cleaning.
func extractArticle(doc *goquery.Document) (title, body string, err error) {
	doc.Find("script, style, nav, footer, aside").Remove()

	title = strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			content = sel
			break
		}
	}
	if content == nil {
		content = largestDiv(doc)
	}
	if content == nil {
		return "", "", ErrNoContent
	}

	body = cleanText(content.Text())
	if body == "" {
		return "", "", ErrNoContent
	}
	return title, body, nil
}

// largestDiv returns the div with the most text, or nil when the page
// has none.
func largestDiv(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestLen := 0
	doc.Find("div").Each(func(_ int, sel *goquery.Selection) {
		n := len(strings.TrimSpace(sel.Text()))
		if n > bestLen {
			best = sel
			bestLen = n
		}
	})
	return best
}

// cleanText strips per-line whitespace and drops blank lines.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
