package markdown

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, in string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(&buf, in))
	return buf.String()
}

func TestRenderMarkdownInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
	}
	for _, tt := range tests {
		assert.Contains(t, render(t, tt.input), tt.expected, tt.input)
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	got := render(t, "# One\n\n## Two\n\n### Three")
	assert.Contains(t, got, `<h1 id="one">One</h1>`)
	assert.Contains(t, got, `<h2 id="two">Two</h2>`)
	assert.Contains(t, got, `<h3 id="three">Three</h3>`)
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"<hi>\")\n```")
	assert.Contains(t, got, `<code class="language-go">`)
	assert.Contains(t, got, "&lt;hi&gt;")
}

func TestRenderMarkdownListsAndTables(t *testing.T) {
	got := render(t, "- a\n- b\n\n1. one\n2. two\n\n| h |\n|---|\n| c |\n")
	assert.Contains(t, got, "<ul>")
	assert.Contains(t, got, "<ol>")
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<td>c</td>")
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	got := render(t, "<script>alert(1)</script>\n\ntext")
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "text")
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown("hello *world*").Render(context.Background(), &buf))
	assert.Equal(t, "<p>hello <em>world</em></p>\n", buf.String())
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"first h1", "intro\n\n# Hello World\n\n# Second", "Hello World"},
		{"emphasis in heading", "# Hello *big* [world](https://x.y)", "Hello big world"},
		{"h2 only", "## Not a title", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.input))
		})
	}
}

func TestExcerpt(t *testing.T) {
	content := "# Heading\n\nThe quick brown fox\njumps over the lazy dog.\n\nSecond paragraph."
	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", Excerpt(content, 0))
	assert.Equal(t, "The quick brown…", Excerpt(content, 17))
	assert.Equal(t, "", Excerpt("# only a heading", 10))
}

func TestSafeURL(t *testing.T) {
	assert.Equal(t, "https://blossom.band/abc.png", SafeURL(" https://blossom.band/abc.png "))
	assert.Equal(t, "/public/x.png", SafeURL("/public/x.png"))
	assert.Equal(t, "https://a.b/?x=1&y=2", SafeURL("https://a.b/?x=1&y=2"))
	assert.Empty(t, SafeURL("javascript:alert(1)"))
	assert.Empty(t, SafeURL("file:///tmp/x.png"))
	assert.Empty(t, SafeURL("mailto:me@example.com"))
	assert.Empty(t, SafeURL("//evil.example/x.png"))
	assert.Empty(t, SafeURL("not a url"))
	assert.Empty(t, SafeURL("   "))
}
