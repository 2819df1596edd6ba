package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// SettingsPage renders relay, Blossom, key and profile settings.
func SettingsPage(p Page, s Settings) templ.Component {
	return layout(p, func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="settings"><h1>Settings</h1>`)

		h.raw(`<h2>Relays</h2>`)
		h.postForm("/settings/relays/", p.CSRF, `class="relay-toggles"`)
		checkbox(h, "use_defaults", "Use default relays", s.UseDefaults)
		checkbox(h, "use_custom", "Use custom relays", s.UseCustom)
		h.raw(`<button type="submit">Save relay selection</button></form>`)

		h.raw(`<h3>Default relays</h3><ul class="relays">`)
		for _, r := range s.Defaults {
			h.raw(`<li>`)
			h.text(r)
			h.raw(`</li>`)
		}
		h.raw(`</ul><h3>Custom relays</h3><ul class="relays">`)
		for _, r := range s.Custom {
			h.raw(`<li>`)
			h.text(r)
			h.postForm("/settings/relays/remove/", p.CSRF, `class="inline"`)
			h.raw(`<input type="hidden" name="url"`)
			h.attr("value", r)
			h.raw(`><button type="submit" class="link">Remove</button></form></li>`)
		}
		h.raw(`</ul>`)
		h.postForm("/settings/relays/add/", p.CSRF, `class="inline-form"`)
		h.raw(`<input type="text" name="url" placeholder="wss://relay.example.com" required><button type="submit">Add relay</button></form>`)
		h.raw(`<p class="hint">Publishing goes to: `)
		for i, r := range s.Active {
			if i > 0 {
				h.raw(", ")
			}
			h.text(r)
		}
		h.raw(`</p>`)

		h.raw(`<h2>Blossom media server</h2>`)
		h.postForm("/settings/blossom/", p.CSRF, "")
		h.raw(`<label>Server URL<input type="url" name="server_url" required`)
		h.attr("value", s.BlossomServer)
		h.raw(`></label><label>Max image width (0 keeps the original)<input type="number" min="0" name="max_image_width"`)
		h.attr("value", strconv.Itoa(s.MaxImageWidth))
		h.raw(`></label><button type="submit">Save</button></form>`)

		h.raw(`<h2>Nostr keys</h2>`)
		if s.HasKeys {
			h.raw(`<p>Public key <code>`)
			h.text(s.Npub)
			h.raw(`</code></p><p class="hint">hex <code>`)
			h.text(s.PublicKey)
			h.raw(`</code></p>`)
			h.button("/settings/keys/delete/", p.CSRF, "Delete keys from keyring", "danger")
		} else {
			h.raw(`<p>No keys stored yet.</p>`)
			h.button("/settings/keys/generate/", p.CSRF, "Generate new keys", "primary")
		}
		h.postForm("/settings/keys/import/", p.CSRF, `class="inline-form"`)
		h.raw(`<input type="password" name="private_key" placeholder="nsec1… or hex" autocomplete="off" required><button type="submit">Import private key</button></form>`)

		if s.HasKeys {
			h.raw(`<h2>Profile</h2>`)
			h.postForm("/settings/profile/", p.CSRF, "")
			field(h, "Display name", "display_name", s.DisplayName)
			h.raw(`<label>About<textarea name="about" rows="3">`)
			h.text(s.About)
			h.raw(`</textarea></label>`)
			field(h, "Picture URL", "picture", s.Picture)
			field(h, "NIP-05 identifier", "nip05", s.NIP05)
			h.raw(`<button type="submit">Save and publish profile</button></form>`)
		}
		h.raw(`</section>`)
	})
}

func checkbox(h *htmlWriter, name, label string, checked bool) {
	h.raw(`<label class="checkbox"><input type="checkbox" value="1"`)
	h.attr("name", name)
	if checked {
		h.raw(` checked`)
	}
	h.raw(`> `)
	h.text(label)
	h.raw(`</label>`)
}
