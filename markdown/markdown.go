// Package markdown renders post bodies to HTML with goldmark and extracts
// plain-text metadata (title, excerpt) from the Markdown AST.
package markdown

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// md renders GitHub-flavoured Markdown. Raw HTML in posts is not passed
// through to the preview.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(goldhtml.WithHardWraps()),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of content to buf.
func RenderMarkdown(buf *bytes.Buffer, content string) error {
	return md.Convert([]byte(content), buf)
}

func parse(source []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(source))
}

// Title returns the text of the first level-1 heading, or "" if there is none.
func Title(content string) string {
	source := []byte(content)
	var title string
	_ = ast.Walk(parse(source), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = inlineText(h, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(title)
}

// Excerpt returns the plain text of the first paragraph, cut at max runes
// on a word boundary with an ellipsis appended when shortened.
func Excerpt(content string, max int) string {
	source := []byte(content)
	var first string
	_ = ast.Walk(parse(source), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if p, ok := n.(*ast.Paragraph); ok {
			first = inlineText(p, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	first = strings.Join(strings.Fields(first), " ")
	runes := []rune(first)
	if max <= 0 || len(runes) <= max {
		return first
	}
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// inlineText concatenates the text segments below node, descending into
// emphasis, links and code spans.
func inlineText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		default:
			buf.WriteString(inlineText(c, source))
		}
	}
	return buf.String()
}

// SafeURL returns raw, trimmed, when it can be used as an image source: an
// http(s) URL with a host or a path on this site. Anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if strings.HasPrefix(val, "/") && !strings.HasPrefix(val, "//") {
		return val
	}
	u, err := url.Parse(val)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return val
	}
	return ""
}
