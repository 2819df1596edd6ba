package views

import (
	"context"
	"fmt"
	"net/url"

	"github.com/a-h/templ"

	"github.com/eringen/blogster/markdown"
)

// Dashboard renders the sidebar and, when ed is set, the editor.
func Dashboard(p Page, sb Sidebar, ed *Editor) templ.Component {
	return layout(p, func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="workspace">`)
		sidebar(h, p, sb)
		h.raw(`<section class="editor">`)
		if ed == nil {
			h.raw(`<div class="empty"><p>Select a post or create a new one.</p></div>`)
		} else {
			editor(h, p, *ed)
		}
		h.raw(`</section></div>`)
	})
}

func sidebar(h *htmlWriter, p Page, sb Sidebar) {
	h.raw(`<aside class="sidebar">`)
	h.postForm("/posts/", p.CSRF, `class="new-post"`)
	h.raw(`<input type="text" name="title" placeholder="New post title"><button type="submit">New post</button></form>`)
	h.raw(`<form method="get" action="/" class="search"><input type="search" name="q" placeholder="Search posts"`)
	h.attr("value", sb.Query)
	h.raw(`></form>`)
	group(h, "Drafts", sb.Drafts, sb.Query)
	group(h, "Published", sb.Published, sb.Query)
	group(h, "Failed", sb.Failed, sb.Query)
	h.raw(`<details class="import"><summary>Import Markdown</summary>`)
	h.postForm("/import/", p.CSRF, `enctype="multipart/form-data"`)
	h.raw(`<input type="file" name="file" accept=".md,text/markdown" required><button type="submit">Import</button></form></details>`)
	h.raw(`</aside>`)
}

func group(h *htmlWriter, name string, items []PostItem, query string) {
	h.raw(`<h3>`)
	h.text(name)
	h.raw(fmt.Sprintf(` <span class="count">%d</span></h3><ul class="posts">`, len(items)))
	for _, it := range items {
		link := "/?id=" + url.QueryEscape(it.ID)
		if query != "" {
			link += "&q=" + url.QueryEscape(query)
		}
		h.raw(`<li`)
		if it.Active {
			h.raw(` class="active"`)
		}
		h.raw(`><a`)
		h.attr("href", link)
		h.raw(`>`)
		title := it.Title
		if title == "" {
			title = "Untitled"
		}
		h.text(title)
		h.raw(`<small>`)
		h.text(it.Updated)
		h.raw(`</small></a></li>`)
	}
	h.raw(`</ul>`)
}

func editor(h *htmlWriter, p Page, ed Editor) {
	base := "/posts/" + url.PathEscape(ed.ID) + "/"

	h.raw(`<div class="status-line"><span`)
	h.attr("class", "badge badge-"+ed.Status)
	h.raw(`>`)
	h.text(ed.Status)
	h.raw(`</span>`)
	h.raw(fmt.Sprintf(`<span>%d words · %d min read</span>`, ed.Words, ed.ReadingTime))
	h.raw(`<span>Updated `)
	h.text(ed.Updated)
	h.raw(`</span></div>`)

	h.postForm(base, p.CSRF, `class="post-form"`)
	field(h, "Title", "title", ed.Title)
	field(h, "Summary", "summary", ed.Summary)
	field(h, "Tags (comma separated)", "tags", ed.Tags)
	field(h, "Featured image URL", "image", ed.Image)
	h.raw(`<label>Content<textarea name="content" rows="24">`)
	h.text(ed.Content)
	h.raw(`</textarea></label><div class="actions"><button type="submit">Save</button>`)
	h.raw(`<a class="button secondary"`)
	h.attr("href", base+"preview/")
	h.raw(`>Preview</a><a class="button secondary"`)
	h.attr("href", base+"export/")
	h.raw(`>Export</a><a class="button secondary"`)
	h.attr("href", "/history/?post="+url.QueryEscape(ed.ID))
	h.raw(`>History</a></div></form>`)

	h.raw(`<div class="actions">`)
	if ed.CanPublish {
		h.button(base+"publish/", p.CSRF, "Publish to Nostr", "primary")
	} else {
		h.raw(`<button type="button" disabled title="Add a title and content first">Publish to Nostr</button>`)
	}
	h.postForm(base+"delete/", p.CSRF, `class="inline"`)
	h.raw(`<button type="submit" class="danger">Delete</button></form></div>`)

	h.postForm(base+"images/", p.CSRF, `enctype="multipart/form-data" class="upload"`)
	h.raw(`<label>Upload image<input type="file" name="image" accept="image/*" required></label>`,
		`<label class="checkbox"><input type="checkbox" name="featured" value="1"> Use as featured image</label>`,
		`<button type="submit">Upload to Blossom</button></form>`)

	if src := markdown.SafeURL(ed.Image); src != "" {
		h.raw(`<figure class="featured"><img alt="Featured image"`)
		h.url("src", src)
		h.raw(`></figure>`)
	}

	if ed.EventID != "" {
		h.raw(`<section class="published"><h4>Last publish</h4><p>Event <code>`)
		h.text(ed.EventID)
		h.raw(`</code></p>`)
		if ed.Naddr != "" {
			h.raw(`<p>Address <code>`)
			h.text(ed.Naddr)
			h.raw(`</code></p>`)
		}
		h.raw(`<ul>`)
		for _, r := range ed.Relays {
			h.raw(`<li>`)
			h.text(r)
			h.raw(`</li>`)
		}
		h.raw(`</ul></section>`)
	}
	h.raw(`<p class="path">`)
	h.text(ed.FilePath)
	h.raw(`</p>`)
}

func field(h *htmlWriter, label, name, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input type="text"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`></label>`)
}

// Preview renders a post's Markdown as HTML.
func Preview(p Page, ed Editor) templ.Component {
	return layout(p, func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="preview"><p><a`)
		h.attr("href", "/?id="+url.QueryEscape(ed.ID))
		h.raw(`>Back to editor</a></p>`)
		if src := markdown.SafeURL(ed.Image); src != "" {
			h.raw(`<img class="featured" alt=""`)
			h.url("src", src)
			h.raw(`>`)
		}
		h.raw(`<h1>`)
		h.text(ed.Title)
		h.raw(`</h1>`)
		if ed.Summary != "" {
			h.raw(`<p class="summary">`)
			h.text(ed.Summary)
			h.raw(`</p>`)
		}
		h.embed(ctx, markdown.Markdown(ed.Content))
		h.raw(`</article>`)
	})
}
