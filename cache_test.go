package blogster

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogster/logger"
)

func savePost(t *testing.T, s *Store, title, content string, tags []string, status PostStatus) Post {
	t.Helper()
	p := NewPost()
	p.Title = title
	p.Content = content
	p.Tags = tags
	p.Status = status
	_, err := s.SavePost(&p)
	require.NoError(t, err)
	return p
}

func TestPostCacheSearchAndGroups(t *testing.T) {
	s := setupTestStore(t)
	savePost(t, s, "Go generics", "type params", []string{"go"}, StatusDraft)
	pub := savePost(t, s, "Nostr relays", "wss everywhere", []string{"nostr"}, StatusPublished)
	savePost(t, s, "Broken", "relay said no", []string{"Misc"}, StatusFailed)

	c := NewPostCache(s, time.Minute)

	all, err := c.ListPosts()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := c.Search("RELAY")
	require.NoError(t, err)
	assert.Len(t, found, 2, "title and content match case-insensitively")

	found, err = c.Search("misc")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Broken", found[0].Title)

	g, err := c.Groups("")
	require.NoError(t, err)
	assert.Len(t, g.Drafts, 1)
	assert.Len(t, g.Published, 1)
	assert.Len(t, g.Failed, 1)
	assert.Equal(t, 3, g.Len())

	got, err := c.GetPost(pub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nostr relays", got.Title)

	_, err = c.GetPost("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostCacheTTLAndInvalidate(t *testing.T) {
	s := setupTestStore(t)
	c := NewPostCache(s, time.Hour)

	posts, err := c.ListPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)

	savePost(t, s, "Later", "", nil, StatusDraft)
	posts, err = c.ListPosts()
	require.NoError(t, err)
	assert.Empty(t, posts, "cached listing is served until invalidated")

	c.Invalidate()
	posts, err = c.ListPosts()
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestWatcherInvalidatesOnExternalChange(t *testing.T) {
	s := setupTestStore(t)
	c := NewPostCache(s, time.Hour)
	w, err := WatchPosts(s.Dir(), c, logger.Nop())
	require.NoError(t, err)
	defer w.Close()

	posts, err := c.ListPosts()
	require.NoError(t, err)
	require.Empty(t, posts)

	p := NewPost()
	p.Title = "Dropped in"
	data, err := MarshalPost(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), p.Filename()), data, 0o644))

	assert.Eventually(t, func() bool {
		posts, err := c.ListPosts()
		return err == nil && len(posts) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatchPostsMissingDir(t *testing.T) {
	_, err := WatchPosts(filepath.Join(t.TempDir(), "nope"), NewPostCache(nil, time.Minute), nil)
	assert.Error(t, err)
}

func TestFilterPostsMatchesSummary(t *testing.T) {
	posts := []Post{{Title: "a", Summary: "About Blossom servers"}, {Title: "b", Content: "blossom"}, {Title: "c"}}
	found := FilterPosts(posts, "BLOSSOM")
	require.Len(t, found, 2)
	assert.Equal(t, "a", found[0].Title)
	assert.Equal(t, "b", found[1].Title)
}

func TestFilterPostsBlankQuery(t *testing.T) {
	posts := []Post{{Title: "a"}, {Title: "b"}}
	assert.Equal(t, posts, FilterPosts(posts, "  "))
	assert.Empty(t, FilterPosts(posts, "zzz"))
}
