package ingestion

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "  \n\t\n   ", ""},
		{"strips line whitespace", "  hello  \n  world  ", "hello\nworld"},
		{"drops blank lines", "one\n\n\ntwo", "one\ntwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.input))
		})
	}
}

func TestExtractArticleUsesArticleTag(t *testing.T) {
	doc := docFromHTML(t, `
		<html><head><title>Page Title</title></head><body>
		<nav>skip this</nav>
		<h1>Post Heading</h1>
		<article>
			<p>First paragraph.</p>
			<p>Second paragraph.</p>
		</article>
		<footer>skip this too</footer>
		</body></html>`)

	title, body, err := extractArticle(doc)
	require.NoError(t, err)
	assert.Equal(t, "Post Heading", title)
	assert.Contains(t, body, "First paragraph.")
	assert.Contains(t, body, "Second paragraph.")
	assert.NotContains(t, body, "skip this")
}

func TestExtractArticleFallsBackToTitleTag(t *testing.T) {
	doc := docFromHTML(t, `
		<html><head><title>Fallback Title</title></head><body>
		<article><p>Body text.</p></article>
		</body></html>`)

	title, _, err := extractArticle(doc)
	require.NoError(t, err)
	assert.Equal(t, "Fallback Title", title)
}

func TestExtractArticleContentSelectors(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<h1>Heading</h1>
		<div class="post-content"><p>The post body.</p></div>
		<div>unrelated sidebar text that is short</div>
		</body></html>`)

	_, body, err := extractArticle(doc)
	require.NoError(t, err)
	assert.Contains(t, body, "The post body.")
}

func TestExtractArticleLargestDivFallback(t *testing.T) {
	long := strings.Repeat("Real content sentence. ", 20)
	doc := docFromHTML(t, `
		<html><body>
		<div>short</div>
		<div id="main">`+long+`</div>
		</body></html>`)

	_, body, err := extractArticle(doc)
	require.NoError(t, err)
	assert.Contains(t, body, "Real content sentence.")
}

func TestExtractArticleRemovesScriptAndStyle(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<article>
			<script>var hidden = true;</script>
			<style>.x { color: red }</style>
			<p>Visible text.</p>
		</article>
		</body></html>`)

	_, body, err := extractArticle(doc)
	require.NoError(t, err)
	assert.Contains(t, body, "Visible text.")
	assert.NotContains(t, body, "hidden")
	assert.NotContains(t, body, "color")
}

func TestExtractArticleNoContent(t *testing.T) {
	doc := docFromHTML(t, `<html><body></body></html>`)

	_, _, err := extractArticle(doc)
	assert.ErrorIs(t, err, ErrNoContent)
}
