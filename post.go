package blogster

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const wordsPerMinute = 200

// identifierPrefix namespaces the NIP-33 "d" tag so re-publishing a post
// replaces the previous event instead of creating a new one.
const identifierPrefix = "blogster-"

// NewPost returns an empty draft with a fresh id.
func NewPost() Post {
	now := time.Now().UTC()
	return Post{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Status:    StatusDraft,
	}
}

func (p *Post) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// SetTitle replaces the title.
func (p *Post) SetTitle(title string) {
	p.Title = title
	p.touch()
}

// SetContent replaces the Markdown body.
func (p *Post) SetContent(content string) {
	p.Content = content
	p.touch()
}

// AddTag appends tag unless it is blank or already present.
func (p *Post) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, t := range p.Tags {
		if t == tag {
			return
		}
	}
	p.Tags = append(p.Tags, tag)
	p.touch()
}

// RemoveTag drops every occurrence of tag.
func (p *Post) RemoveTag(tag string) {
	kept := p.Tags[:0]
	for _, t := range p.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	p.Tags = kept
	p.touch()
}

// SetTags replaces the tag list, dropping blanks and duplicates.
func (p *Post) SetTags(tags []string) {
	p.Tags = nil
	for _, t := range tags {
		p.AddTag(t)
	}
	p.touch()
}

// SetImage sets the featured image URL.
func (p *Post) SetImage(url string) {
	p.Image = url
	p.touch()
}

// AppendImage adds an inline Markdown image reference to the end of the body.
func (p *Post) AppendImage(url string) {
	p.Content += "\n\n![Image](" + url + ")\n\n"
	p.touch()
}

// SetPublished marks the post as published by eventID on relays.
func (p *Post) SetPublished(eventID string, relays []string) {
	p.Status = StatusPublished
	p.EventID = eventID
	p.PublishedRelays = relays
	p.touch()
}

// SetFailed marks the last publish attempt as failed.
func (p *Post) SetFailed() {
	p.Status = StatusFailed
	p.touch()
}

// WordCount returns the number of whitespace-separated words in the body.
func (p Post) WordCount() int {
	return len(strings.Fields(p.Content))
}

// ReadingTime returns the estimated reading time in minutes, at least one.
func (p Post) ReadingTime() int {
	return max(1, p.WordCount()/wordsPerMinute)
}

// ReadyToPublish reports whether the post has a title and a body.
func (p Post) ReadyToPublish() bool {
	return strings.TrimSpace(p.Title) != "" && strings.TrimSpace(p.Content) != ""
}

// Identifier returns the NIP-33 "d" tag value for the post.
func (p Post) Identifier() string {
	return identifierPrefix + p.ID
}

// Filename returns the file name the post is stored under: the sanitized
// title followed by the id, or post_<id>.md for untitled posts.
func (p Post) Filename() string {
	var b strings.Builder
	for _, r := range p.Title {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte('_')
		}
	}
	safe := b.String()
	if safe == "" {
		return "post_" + p.ID + ".md"
	}
	return safe + "_" + p.ID + ".md"
}
