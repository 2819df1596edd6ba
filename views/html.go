package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so view code can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped for element content or a quoted attribute.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// url writes an href or src attribute, dropping unsafe schemes.
func (h *htmlWriter) url(name, value string) {
	h.attr(name, string(templ.URL(value)))
}

func (h *htmlWriter) csrf(token string) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", token)
	h.raw(">")
}

// postForm opens a POST form to action with the CSRF field.
func (h *htmlWriter) postForm(action, token string, extra ...string) {
	h.raw("<form method=\"post\"")
	h.attr("action", action)
	for _, e := range extra {
		if e != "" {
			h.raw(" ", e)
		}
	}
	h.raw(">")
	h.csrf(token)
}

// button writes a complete single-button form.
func (h *htmlWriter) button(action, token, label, class string) {
	h.postForm(action, token, `class="inline"`)
	h.raw(`<button type="submit"`)
	h.attr("class", class)
	h.raw(">")
	h.text(label)
	h.raw("</button></form>")
}

// embed renders a nested component into the same writer.
func (h *htmlWriter) embed(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
