package views

import (
	"context"
	"net/url"

	"github.com/a-h/templ"
)

// HistoryPage renders publish history and uploads.
func HistoryPage(p Page, hist History) templ.Component {
	return layout(p, func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="history"><h1>History</h1>`)
		if hist.PostID != "" {
			h.raw(`<p>Showing publishes of <a`)
			h.attr("href", "/?id="+url.QueryEscape(hist.PostID))
			h.raw(`>`)
			h.text(hist.PostTitle)
			h.raw(`</a>. <a href="/history/">Show all</a></p>`)
		}

		h.raw(`<h2>Publishes</h2>`)
		if len(hist.Publishes) == 0 {
			h.raw(`<p class="hint">Nothing published yet.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>When</th><th>Post</th><th>Relay</th><th>Result</th><th>Event</th></tr></thead><tbody>`)
			for _, r := range hist.Publishes {
				h.raw(`<tr><td>`)
				h.text(r.PublishedAt)
				h.raw(`</td><td>`)
				h.text(r.PostTitle)
				h.raw(`</td><td>`)
				h.text(r.Relay)
				h.raw(`</td><td>`)
				if r.OK {
					h.raw(`<span class="ok">accepted</span>`)
				} else {
					h.raw(`<span class="fail">`)
					h.text(r.Error)
					h.raw(`</span>`)
				}
				h.raw(`</td><td><code>`)
				h.text(shortID(r.EventID))
				h.raw(`</code></td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		if hist.PostID == "" {
			h.raw(`<h2>Uploads</h2>`)
			if len(hist.Uploads) == 0 {
				h.raw(`<p class="hint">No images uploaded yet.</p>`)
			} else {
				h.raw(`<table><thead><tr><th>When</th><th>Name</th><th>Type</th><th>Size</th><th>URL</th></tr></thead><tbody>`)
				for _, u := range hist.Uploads {
					h.raw(`<tr><td>`)
					h.text(u.UploadedAt)
					h.raw(`</td><td>`)
					h.text(u.Name)
					h.raw(`</td><td>`)
					h.text(u.Type)
					h.raw(`</td><td>`)
					h.text(u.Size)
					h.raw(`</td><td><a target="_blank" rel="noopener"`)
					h.url("href", u.URL)
					h.raw(`>`)
					h.text(u.URL)
					h.raw(`</a></td></tr>`)
				}
				h.raw(`</tbody></table>`)
			}
		}
		h.raw(`</section>`)
	})
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12] + "…"
}
