package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// layout wraps body in the page shell with navigation and flashes.
func layout(p Page, body func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		if p.Title != "" {
			h.text(p.Title)
			h.raw(" · ")
		}
		h.raw(`blogster</title><link rel="stylesheet" href="/public/style.css"></head><body>`)
		h.raw(`<header class="topbar"><a class="brand" href="/">blogster</a><nav>`,
			`<a href="/">Posts</a><a href="/history/">History</a><a href="/settings/">Settings</a>`,
			`</nav></header>`)
		for _, f := range p.Flashes {
			h.raw(`<div`)
			h.attr("class", "flash flash-"+f.Kind)
			h.raw(` role="status">`)
			h.text(f.Message)
			h.raw(`</div>`)
		}
		h.raw(`<main>`)
		body(ctx, h)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return layout(Page{Title: "Not found"}, func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="empty"><h1>Not found</h1><p>That page or post doesn't exist.</p><a href="/">Back to posts</a></section>`)
	})
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return layout(Page{Title: "Error"}, func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="empty"><h1>Something went wrong</h1><p>The error has been logged.</p><a href="/">Back to posts</a></section>`)
	})
}
