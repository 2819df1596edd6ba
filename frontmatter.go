package blogster

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/eringen/blogster/markdown"
)

const fence = "---\n"

// frontmatter is the YAML header written at the top of every post file.
type frontmatter struct {
	Title           string   `yaml:"title"`
	ID              string   `yaml:"id"`
	CreatedAt       string   `yaml:"created_at"`
	UpdatedAt       string   `yaml:"updated_at"`
	Status          string   `yaml:"status"`
	Summary         string   `yaml:"summary,omitempty"`
	Tags            []string `yaml:"tags,omitempty"`
	Image           string   `yaml:"image,omitempty"`
	EventID         string   `yaml:"nostr_event_id,omitempty"`
	PublishedRelays []string `yaml:"published_relays,omitempty"`
}

// MarshalPost renders p as a Markdown document with YAML frontmatter.
func MarshalPost(p Post) ([]byte, error) {
	fm := frontmatter{
		Title:           p.Title,
		ID:              p.ID,
		CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.UTC().Format(time.RFC3339),
		Status:          string(p.Status),
		Summary:         p.Summary,
		Tags:            p.Tags,
		Image:           p.Image,
		EventID:         p.EventID,
		PublishedRelays: p.PublishedRelays,
	}
	if fm.Status == "" {
		fm.Status = string(StatusDraft)
	}

	var buf bytes.Buffer
	buf.WriteString(fence)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString(fence)
	buf.WriteString("\n")
	buf.WriteString(p.Content)
	return buf.Bytes(), nil
}

// splitFrontmatter separates the YAML header from the body. ok is false when
// the document does not start with a complete frontmatter block.
func splitFrontmatter(doc string) (header, body string, ok bool) {
	if !strings.HasPrefix(doc, fence) {
		return "", doc, false
	}
	rest := doc[len(fence):]
	if strings.HasPrefix(rest, fence) {
		return "", strings.TrimPrefix(rest[len(fence):], "\n"), true
	}
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return "", doc, false
	}
	header = rest[:end+1]
	body = rest[end+1+len(fence):]
	return header, strings.TrimPrefix(body, "\n"), true
}

// ParsePost reads a Markdown document. Documents with frontmatter restore
// every stored field; plain Markdown becomes a draft titled after its first
// level-1 heading.
func ParsePost(data []byte, path string) (Post, error) {
	doc := strings.ReplaceAll(string(data), "\r\n", "\n")
	p := NewPost()
	p.FilePath = path

	header, body, ok := splitFrontmatter(doc)
	if !ok {
		p.Content = doc
		p.Title = markdown.Title(doc)
		return p, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return Post{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	p.Content = body
	p.Title = fm.Title
	if id, err := uuid.Parse(strings.TrimSpace(fm.ID)); err == nil {
		p.ID = id.String()
	}
	if t, err := time.Parse(time.RFC3339, fm.CreatedAt); err == nil {
		p.CreatedAt = t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, fm.UpdatedAt); err == nil {
		p.UpdatedAt = t.UTC()
	}
	p.Status = ParseStatus(fm.Status)
	p.Summary = fm.Summary
	p.Tags = fm.Tags
	p.Image = fm.Image
	p.EventID = fm.EventID
	p.PublishedRelays = fm.PublishedRelays
	return p, nil
}
