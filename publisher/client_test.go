package publisher

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogster/internal/nostrtest"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	k, err := ParseKeys(vectorSecret)
	require.NoError(t, err)
	return New(k, WithRelayTimeout(2*time.Second))
}

func sampleArticle() Article {
	return Article{
		Identifier:  "blogster-1234",
		Title:       "Hello Nostr",
		Summary:     "short",
		Content:     "# Hello\n\nbody",
		Hashtags:    []string{"nostr", "go"},
		Image:       "https://blossom.band/abc.png",
		PublishedAt: time.Unix(1700000000, 0),
	}
}

func tagValues(ev nostr.Event, name string) []string {
	var out []string
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == name {
			out = append(out, tag[1])
		}
	}
	return out
}

func TestLongFormEventLayout(t *testing.T) {
	c := testClient(t)
	ev, err := c.LongFormEvent(sampleArticle())
	require.NoError(t, err)

	assert.Equal(t, KindLongForm, ev.Kind)
	assert.Equal(t, "# Hello\n\nbody", ev.Content)
	assert.Equal(t, c.Keys().PublicKey(), ev.PubKey)

	names := make([]string, 0, len(ev.Tags))
	for _, tag := range ev.Tags {
		names = append(names, tag[0])
	}
	assert.Equal(t, []string{"title", "summary", "t", "t", "image", "published_at", "d"}, names)
	assert.Equal(t, []string{"nostr", "go"}, tagValues(ev, "t"))
	assert.Equal(t, []string{"1700000000"}, tagValues(ev, "published_at"))
	assert.Equal(t, []string{"blogster-1234"}, tagValues(ev, "d"))

	ok, err := ev.CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLongFormEventOptionalTags(t *testing.T) {
	c := testClient(t)
	a := sampleArticle()
	a.Summary = ""
	a.Image = ""
	a.Hashtags = nil
	ev, err := c.LongFormEvent(a)
	require.NoError(t, err)

	assert.Empty(t, tagValues(ev, "summary"))
	assert.Empty(t, tagValues(ev, "image"))
	assert.Empty(t, tagValues(ev, "t"))
	assert.Len(t, ev.Tags, 3)
}

func TestMetadataEvent(t *testing.T) {
	c := testClient(t)
	ev, err := c.MetadataEvent(Profile{
		DisplayName: "Alice",
		About:       "writes things",
		Picture:     "not a url",
		NIP05:       "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, KindMetadata, ev.Kind)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(ev.Content), &meta))
	assert.Equal(t, "Alice", meta["display_name"])
	assert.Equal(t, "alice@example.com", meta["nip05"])
	_, hasPicture := meta["picture"]
	assert.False(t, hasPicture)

	ev, err = c.MetadataEvent(Profile{Picture: "https://example.com/me.png"})
	require.NoError(t, err)
	assert.Contains(t, ev.Content, `"picture":"https://example.com/me.png"`)
}

func TestPublishArticleToRelays(t *testing.T) {
	good := nostrtest.NewRelay(t, true, "")
	bad := nostrtest.NewRelay(t, false, "blocked: not on whitelist")
	c := testClient(t)

	ev, results, err := c.PublishArticle(context.Background(), sampleArticle(),
		[]string{good.URL(), bad.URL(), "ws://127.0.0.1:1"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "blocked")
	assert.Error(t, results[2].Err)
	assert.Equal(t, []string{good.URL()}, Accepted(results))

	received := good.Events()
	require.Len(t, received, 1)
	assert.Equal(t, ev.ID, received[0].ID)
	ok, err := received[0].CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPublishArticleNoRelayAccepted(t *testing.T) {
	bad := nostrtest.NewRelay(t, false, "invalid: nope")
	c := testClient(t)

	_, results, err := c.PublishArticle(context.Background(), sampleArticle(), []string{bad.URL()})
	assert.ErrorIs(t, err, ErrNoRelayAccepted)
	require.Len(t, results, 1)
	assert.Empty(t, Accepted(results))
}

func TestUpdateProfilePublishesKindZero(t *testing.T) {
	relay := nostrtest.NewRelay(t, true, "")
	c := testClient(t)

	ev, _, err := c.UpdateProfile(context.Background(), Profile{DisplayName: "Bob"}, []string{relay.URL()})
	require.NoError(t, err)
	received := relay.Events()
	require.Len(t, received, 1)
	assert.Equal(t, ev.ID, received[0].ID)
	assert.Equal(t, KindMetadata, received[0].Kind)
}

func TestNaddr(t *testing.T) {
	c := testClient(t)
	addr, err := Naddr(c.Keys().PublicKey(), "blogster-1234", []string{"wss://nos.lol"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr, "naddr1"))

	prefix, value, err := nip19.Decode(addr)
	require.NoError(t, err)
	assert.Equal(t, "naddr", prefix)
	ep, ok := value.(nostr.EntityPointer)
	require.True(t, ok)
	assert.Equal(t, "blogster-1234", ep.Identifier)
	assert.Equal(t, KindLongForm, ep.Kind)
}
