package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/eringen/blogster"
	"github.com/eringen/blogster/internal/nostrtest"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	keyring.MockInit()
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) runIn(stdin string, args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config-dir", c.dir, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) run(args ...string) string {
	c.t.Helper()
	out, err := c.runIn("", args...)
	require.NoError(c.t, err, out)
	return out
}

// newPost runs "new" and returns the created id.
func (c *cli) newPost(title string) string {
	c.t.Helper()
	out := c.run("new", title)
	first := strings.SplitN(out, "\n", 2)[0]
	require.True(c.t, strings.HasPrefix(first, "Created "), out)
	return strings.TrimPrefix(first, "Created ")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	assert.Equal(t, "blogster dev\n", c.run("version"))
}

func TestPostLifecycle(t *testing.T) {
	c := newCLI(t)
	id := c.newPost("Relay notes")

	body := filepath.Join(t.TempDir(), "body.md")
	require.NoError(t, os.WriteFile(body, []byte("Some words about relays."), 0o644))
	c.run("edit", id, "--summary", "short", "--tag", "nostr", "--tag", "go", "--content-file", body)

	out := c.run("show", id)
	assert.Contains(t, out, "Title:    Relay notes")
	assert.Contains(t, out, "Summary:  short")
	assert.Contains(t, out, "Tags:     nostr, go")
	assert.Contains(t, out, "Some words about relays.")

	c.run("edit", id, "--untag", "go")
	out = c.run("show", id)
	assert.Contains(t, out, "Tags:     nostr\n")

	out = c.run("list", "--status", "draft")
	assert.Contains(t, out, id)
	assert.Contains(t, c.run("list", "--search", "SHORT"), id, "summary is searched")
	out = c.run("list", "--search", "nothing-matches-this")
	assert.Equal(t, "No posts.\n", out)

	dest := filepath.Join(t.TempDir(), "out.md")
	c.run("export", id, dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Relay notes")

	c.run("delete", id)
	_, err = c.runIn("", "show", id)
	assert.ErrorIs(t, err, blogster.ErrNotFound)
}

func TestEditContentFromStdin(t *testing.T) {
	c := newCLI(t)
	id := c.newPost("Piped")
	_, err := c.runIn("From stdin.", "edit", id, "--content-file", "-")
	require.NoError(t, err)
	assert.Contains(t, c.run("show", id), "From stdin.")
}

func TestImport(t *testing.T) {
	c := newCLI(t)
	src := filepath.Join(t.TempDir(), "plain.md")
	require.NoError(t, os.WriteFile(src, []byte("# Imported title\n\nBody."), 0o644))

	out := c.run("import", src)
	assert.Contains(t, out, "(Imported title)")
	assert.Contains(t, c.run("list"), "Imported title")
}

func TestListRejectsUnknownStatus(t *testing.T) {
	c := newCLI(t)
	_, err := c.runIn("", "list", "--status", "archived")
	assert.ErrorContains(t, err, "unknown status")
}

func TestKeys(t *testing.T) {
	c := newCLI(t)
	_, err := c.runIn("", "keys", "show")
	assert.ErrorIs(t, err, blogster.ErrNoCredentials)

	out := c.run("keys", "generate")
	assert.Contains(t, out, "Generated npub1")

	_, err = c.runIn("", "keys", "generate")
	assert.ErrorContains(t, err, "--force")

	out = c.run("keys", "show")
	assert.Contains(t, out, "npub:         npub1")
	assert.NotContains(t, out, "private key")
	assert.Contains(t, c.run("keys", "show", "--private"), "private key:  nsec1")

	c.run("keys", "delete")
	_, err = c.runIn("", "keys", "show")
	assert.ErrorIs(t, err, blogster.ErrNoCredentials)
}

func TestKeysImportFromStdin(t *testing.T) {
	c := newCLI(t)
	const hexKey = "67dea2ed018072d675f5415ecfaed7d2597555e202d85b3d65ea4e58d2d92ffa"
	_, err := c.runIn(hexKey+"\n", "keys", "import")
	require.NoError(t, err)
	out := c.run("keys", "show")
	pub, err := blogster.PublicKeyFromPrivate(hexKey)
	require.NoError(t, err)
	assert.Contains(t, out, pub)

	_, err = c.runIn("", "keys", "import", "--force", "not-a-key")
	assert.ErrorContains(t, err, "invalid private key")
}

func TestRelaysAndConfig(t *testing.T) {
	c := newCLI(t)
	c.run("relays", "add", "wss://relay.example.com")
	c.run("relays", "custom", "on")
	c.run("relays", "defaults", "off")

	out := c.run("relays", "list")
	assert.Contains(t, out, "Default relays (off):")
	assert.Contains(t, out, "Custom relays (on):\n  wss://relay.example.com")

	_, err := c.runIn("", "relays", "add", "wss://relay.example.com")
	assert.ErrorIs(t, err, blogster.ErrRelayExists)
	_, err = c.runIn("", "relays", "add", "https://relay.example.com")
	assert.ErrorIs(t, err, blogster.ErrInvalidRelayURL)
	_, err = c.runIn("", "relays", "defaults", "maybe")
	assert.Error(t, err)

	out = c.run("config", "show")
	assert.Regexp(t, `relays\.active\s+wss://relay\.example\.com`, out)

	c.run("relays", "remove", "wss://relay.example.com")
	_, err = c.runIn("", "relays", "remove", "wss://relay.example.com")
	assert.ErrorContains(t, err, "relay not found")
}

func TestBlossomSettings(t *testing.T) {
	c := newCLI(t)
	c.run("blossom", "set", "https://media.example.com/", "--max-width", "800")
	out := c.run("blossom", "show")
	assert.Contains(t, out, "server:          https://media.example.com\n")
	assert.Contains(t, out, "max image width: 800px")

	c.run("blossom", "set", "https://other.example.com")
	assert.Contains(t, c.run("blossom", "show"), "max image width: 800px")

	_, err := c.runIn("", "blossom", "set", "ftp://media.example.com")
	assert.ErrorIs(t, err, blogster.ErrInvalidServerURL)
}

func TestPublishAndHistory(t *testing.T) {
	c := newCLI(t)
	relay := nostrtest.NewRelay(t, true, "")
	c.run("relays", "add", relay.URL())
	c.run("relays", "custom", "on")
	c.run("relays", "defaults", "off")
	c.run("keys", "generate")

	id := c.newPost("Hello")
	_, err := c.runIn("", "publish", id)
	assert.ErrorIs(t, err, blogster.ErrNotReady)

	_, err = c.runIn("Body text.", "edit", id, "--content-file", "-")
	require.NoError(t, err)
	out := c.run("publish", id)
	assert.Contains(t, out, "ok "+relay.URL())
	assert.Contains(t, out, "Address: naddr1")
	require.Len(t, relay.Events(), 1)

	assert.Contains(t, c.run("show", id), "Status:   Published")
	out = c.run("history", id)
	assert.Contains(t, out, relay.URL())
	assert.Contains(t, out, relay.Events()[0].ID[:12])
}

func TestUpload(t *testing.T) {
	c := newCLI(t)
	server := nostrtest.NewBlossom(t)
	c.run("blossom", "set", server.URL)
	c.run("keys", "generate")
	id := c.newPost("With image")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "cover.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	out := c.run("upload", id, path, "--featured")
	assert.Contains(t, out, "Uploaded cover.png (image/png")
	assert.Contains(t, out, "Set as featured image of "+id)
	require.Len(t, server.Uploads(), 1)

	assert.Contains(t, c.run("show", id), "Image:    "+server.URL+"/")
	assert.Contains(t, c.run("history", "--uploads"), "cover.png")

	sum := sha256.Sum256(server.Uploads()[0].Body)
	c.run("history", "--forget", hex.EncodeToString(sum[:]))
	assert.NotContains(t, c.run("history", "--uploads"), "cover.png")
	_, err = c.runIn("", "history", "--forget", hex.EncodeToString(sum[:]))
	assert.ErrorIs(t, err, blogster.ErrUploadNotFound)
}

func TestParseStatusFlag(t *testing.T) {
	for in, want := range map[string]blogster.PostStatus{
		"":          "",
		"Draft":     blogster.StatusDraft,
		"published": blogster.StatusPublished,
		"FAILED":    blogster.StatusFailed,
	} {
		got, err := parseStatusFlag(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
