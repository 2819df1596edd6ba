package blogster

import (
	"strings"
	"sync"
	"time"
)

// PostCache is an in-memory cache of the posts directory listing with TTL.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts()
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListPosts returns every post, most recently updated first.
func (c *PostCache) ListPosts() ([]Post, error) {
	return c.ensureLoaded()
}

// GetPost returns a single post by id from the cache.
func (c *PostCache) GetPost(id string) (Post, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Search returns posts whose title, content or tags contain query,
// case-insensitively. A blank query matches everything.
func (c *PostCache) Search(query string) ([]Post, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return FilterPosts(posts, query), nil
}

// Groups returns the search results bucketed by status.
func (c *PostCache) Groups(query string) (PostGroups, error) {
	posts, err := c.Search(query)
	if err != nil {
		return PostGroups{}, err
	}
	return GroupPosts(posts), nil
}

// PostGroups buckets posts the way the sidebar shows them.
type PostGroups struct {
	Drafts    []Post
	Published []Post
	Failed    []Post
}

// Len returns the number of posts across all groups.
func (g PostGroups) Len() int {
	return len(g.Drafts) + len(g.Published) + len(g.Failed)
}

// GroupPosts splits posts by status, keeping their order.
func GroupPosts(posts []Post) PostGroups {
	var g PostGroups
	for _, p := range posts {
		switch p.Status {
		case StatusPublished:
			g.Published = append(g.Published, p)
		case StatusFailed:
			g.Failed = append(g.Failed, p)
		default:
			g.Drafts = append(g.Drafts, p)
		}
	}
	return g
}

// FilterPosts returns the posts matching query.
func FilterPosts(posts []Post, query string) []Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return posts
	}
	var out []Post
	for _, p := range posts {
		if matchesPost(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matchesPost(p Post, q string) bool {
	for _, field := range []string{p.Title, p.Summary, p.Content} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, t := range p.Tags {
		if strings.Contains(normalizeTag(t), q) {
			return true
		}
	}
	return false
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
