package blogster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eringen/blogster/markdown"
)

// ErrInvalidImageURL is returned for an image or picture URL that is not
// http(s) or a site path.
var ErrInvalidImageURL = errors.New("image URL must be an http:// or https:// URL")

// PostEdit describes changes to a post. Nil fields are left alone.
type PostEdit struct {
	Title      *string
	Summary    *string
	Content    *string
	Image      *string
	Tags       []string // replaces the tag list when SetTags is true
	SetTags    bool
	AddTags    []string
	RemoveTags []string
}

// CreatePost saves a new draft with the given title and returns it.
func (a *App) CreatePost(title string) (Post, error) {
	p := NewPost()
	p.Title = strings.TrimSpace(title)
	if _, err := a.Store.SavePost(&p); err != nil {
		return Post{}, err
	}
	a.Cache.Invalidate()
	return p, nil
}

// GetPost loads a post by id.
func (a *App) GetPost(id string) (Post, error) {
	return a.Store.GetPost(id)
}

// ListPosts returns posts matching query (all when blank), newest first,
// optionally restricted to one status.
func (a *App) ListPosts(query string, status PostStatus) ([]Post, error) {
	posts, err := a.Cache.Search(query)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return posts, nil
	}
	var out []Post
	for _, p := range posts {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdatePost applies e to the post with the given id and saves it.
func (a *App) UpdatePost(id string, e PostEdit) (Post, error) {
	if e.Image != nil && strings.TrimSpace(*e.Image) != "" && markdown.SafeURL(*e.Image) == "" {
		return Post{}, ErrInvalidImageURL
	}
	p, err := a.Store.GetPost(id)
	if err != nil {
		return Post{}, err
	}
	if e.Title != nil {
		p.SetTitle(strings.TrimSpace(*e.Title))
	}
	if e.Summary != nil {
		p.Summary = strings.TrimSpace(*e.Summary)
	}
	if e.Content != nil {
		p.SetContent(*e.Content)
	}
	if e.Image != nil {
		p.SetImage(strings.TrimSpace(*e.Image))
	}
	if e.SetTags {
		p.SetTags(e.Tags)
	}
	for _, t := range e.AddTags {
		p.AddTag(t)
	}
	for _, t := range e.RemoveTags {
		p.RemoveTag(strings.TrimSpace(t))
	}
	if err := a.savePost(&p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// DeletePost removes the post file.
func (a *App) DeletePost(id string) error {
	p, err := a.Store.GetPost(id)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePost(p); err != nil {
		return err
	}
	a.actionLimiter.Reset(publishKey(p.ID))
	a.Cache.Invalidate()
	return nil
}

// ImportPost copies a Markdown file into the posts directory.
func (a *App) ImportPost(src string) (Post, error) {
	p, err := a.Store.ImportPost(src)
	if err != nil {
		return Post{}, err
	}
	a.Cache.Invalidate()
	return p, nil
}

// ImportData imports an uploaded Markdown document.
func (a *App) ImportData(data []byte, name string) (Post, error) {
	p, err := a.Store.ImportData(data, name)
	if err != nil {
		return Post{}, err
	}
	a.Cache.Invalidate()
	return p, nil
}

// ExportPost writes the post with its frontmatter to dest.
func (a *App) ExportPost(id, dest string) error {
	p, err := a.Store.GetPost(id)
	if err != nil {
		return err
	}
	return a.Store.ExportPost(p, dest)
}

func (a *App) savePost(p *Post) error {
	if _, err := a.Store.SavePost(p); err != nil {
		return fmt.Errorf("save post %s: %w", p.ID, err)
	}
	a.Cache.Invalidate()
	return nil
}

// ParseTags splits comma-separated user input into trimmed, non-empty tags.
func ParseTags(input string) []string {
	return FilterEmpty(strings.Split(input, ","))
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
