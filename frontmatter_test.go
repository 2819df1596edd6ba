package blogster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePost() Post {
	return Post{
		ID:              "4f7a2a4e-8c55-4a57-9f0e-6d1b2c3d4e5f",
		Title:           `Quotes "inside" & colons: yes`,
		Content:         "# Heading\n\nBody with --- dashes\n",
		Summary:         "A short summary",
		Tags:            []string{"nostr", "go"},
		Image:           "https://blossom.band/abc.png",
		CreatedAt:       time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC),
		Status:          StatusPublished,
		EventID:         "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		PublishedRelays: []string{"wss://nos.lol", "wss://relay.damus.io"},
	}
}

func TestMarshalPostLayout(t *testing.T) {
	data, err := MarshalPost(samplePost())
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.HasPrefix(doc, "---\ntitle: "))
	assert.Contains(t, doc, "status: Published\n")
	assert.Contains(t, doc, "nostr_event_id: ")
	assert.Contains(t, doc, "published_relays:\n  - ")
	assert.Contains(t, doc, "tags:\n  - nostr\n  - go\n")
	assert.True(t, strings.HasSuffix(doc, "---\n\n# Heading\n\nBody with --- dashes\n"))
}

func TestMarshalPostOmitsEmptyOptionalFields(t *testing.T) {
	p := NewPost()
	p.Title = "Draft"
	data, err := MarshalPost(p)
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "status: Draft")
	assert.NotContains(t, doc, "summary:")
	assert.NotContains(t, doc, "tags:")
	assert.NotContains(t, doc, "image:")
	assert.NotContains(t, doc, "nostr_event_id:")
}

func TestParsePostRoundTrip(t *testing.T) {
	want := samplePost()
	data, err := MarshalPost(want)
	require.NoError(t, err)

	got, err := ParsePost(data, "/tmp/x.md")
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Content, got.Content)
	assert.Equal(t, want.Summary, got.Summary)
	assert.Equal(t, want.Tags, got.Tags)
	assert.Equal(t, want.Image, got.Image)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.EventID, got.EventID)
	assert.Equal(t, want.PublishedRelays, got.PublishedRelays)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, "/tmp/x.md", got.FilePath)
}

func TestParsePostRoundTripPreservesLeadingBlankLines(t *testing.T) {
	p := NewPost()
	p.Content = "\n\nindented start"
	data, err := MarshalPost(p)
	require.NoError(t, err)
	got, err := ParsePost(data, "")
	require.NoError(t, err)
	assert.Equal(t, p.Content, got.Content)
}

func TestParsePostQuotedLegacyFrontmatter(t *testing.T) {
	doc := "---\n" +
		"title: \"Legacy \\\"quoted\\\" title\"\n" +
		"id: \"4f7a2a4e-8c55-4a57-9f0e-6d1b2c3d4e5f\"\n" +
		"created_at: \"2024-01-15T10:30:00+00:00\"\n" +
		"updated_at: \"2024-01-15T10:30:00+00:00\"\n" +
		"status: \"Failed\"\n" +
		"tags:\n  - \"a\"\n  - \"b\"\n" +
		"---\n\nHello"
	got, err := ParsePost([]byte(doc), "")
	require.NoError(t, err)

	assert.Equal(t, `Legacy "quoted" title`, got.Title)
	assert.Equal(t, "4f7a2a4e-8c55-4a57-9f0e-6d1b2c3d4e5f", got.ID)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.Equal(t, "Hello", got.Content)
	assert.Equal(t, 2024, got.CreatedAt.Year())
}

func TestParsePostInvalidIDGetsFreshOne(t *testing.T) {
	doc := "---\ntitle: x\nid: not-a-uuid\nstatus: Weird\n---\n\nbody"
	got, err := ParsePost([]byte(doc), "")
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", got.ID)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, StatusDraft, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestParsePostCanonicalizesID(t *testing.T) {
	const canonical = "11111111-2222-3333-4444-555555555555"
	for _, id := range []string{
		"{11111111-2222-3333-4444-555555555555}",
		"urn:uuid:11111111-2222-3333-4444-555555555555",
		"11111111-2222-3333-4444-555555555555",
	} {
		doc := "---\ntitle: x\nid: \"" + id + "\"\n---\n\nbody"
		got, err := ParsePost([]byte(doc), "")
		require.NoError(t, err, id)
		assert.Equal(t, canonical, got.ID, id)
		assert.Equal(t, "x_"+canonical+".md", got.Filename(), id)
	}

	doc := "---\ntitle: x\nid: AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE\n---\n\nbody"
	got, err := ParsePost([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", got.ID)
}

func TestParsePostWithoutFrontmatter(t *testing.T) {
	doc := "Some intro\n\n# The Real Title\n\ntext"
	got, err := ParsePost([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, "The Real Title", got.Title)
	assert.Equal(t, doc, got.Content)
	assert.Equal(t, StatusDraft, got.Status)
}

func TestParsePostUnterminatedFrontmatterIsBody(t *testing.T) {
	doc := "---\ntitle: x\nno closing fence"
	got, err := ParsePost([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, doc, got.Content)
	assert.Empty(t, got.Title)
}

func TestParsePostEmptyFrontmatter(t *testing.T) {
	got, err := ParsePost([]byte("---\n---\n\nbody"), "")
	require.NoError(t, err)
	assert.Equal(t, "body", got.Content)
}

func TestParsePostMalformedYAML(t *testing.T) {
	_, err := ParsePost([]byte("---\ntitle: [unclosed\n---\n\nbody"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse frontmatter")
}

func TestParsePostCRLF(t *testing.T) {
	doc := "---\r\ntitle: Windows\r\n---\r\n\r\nbody\r\n"
	got, err := ParsePost([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, "Windows", got.Title)
	assert.Equal(t, "body\n", got.Content)
}
