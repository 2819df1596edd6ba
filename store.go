package blogster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eringen/blogster/logger"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("post not found")

const postExt = ".md"

// Store keeps posts as Markdown files with YAML frontmatter in one directory.
type Store struct {
	dir string
	log *logger.Logger
}

// NewStore opens (or creates) the posts directory at dir.
func NewStore(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create posts directory: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the posts directory.
func (s *Store) Dir() string {
	return s.dir
}

// SavePost writes p to its generated filename and records the path on p.
// When the title changed since the last save the previous file is removed.
func (s *Store) SavePost(p *Post) (string, error) {
	data, err := MarshalPost(*p)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, p.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save post to %s: %w", path, err)
	}
	if old := p.FilePath; old != "" && old != path && filepath.Dir(old) == s.dir {
		if err := os.Remove(old); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warnw("remove previous post file", "path", old, "err", err)
		}
	}
	p.FilePath = path
	s.log.Infow("saved post", "title", p.Title, "path", path)
	return path, nil
}

// LoadPost reads the post stored at path.
func (s *Store) LoadPost(path string) (Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Post{}, fmt.Errorf("read post from %s: %w", path, err)
	}
	return ParsePost(data, path)
}

// ListPosts loads every post in the directory, newest update first.
// Files that cannot be parsed are logged and skipped.
func (s *Store) ListPosts() ([]Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read posts directory: %w", err)
	}

	var posts []Post
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != postExt {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		p, err := s.LoadPost(path)
		if err != nil {
			s.log.Warnw("skipping unreadable post", "path", path, "err", err)
			continue
		}
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].UpdatedAt.After(posts[j].UpdatedAt)
	})
	return posts, nil
}

// GetPost returns the post with the given id.
func (s *Store) GetPost(id string) (Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Post{}, ErrNotFound
	}
	// Files written by SavePost end in the id; check those before a full scan.
	matches, _ := filepath.Glob(filepath.Join(s.dir, "*"+id+postExt))
	for _, path := range matches {
		if p, err := s.LoadPost(path); err == nil && p.ID == id {
			return p, nil
		}
	}
	posts, err := s.ListPosts()
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

// DeletePost removes the file backing p. A missing file is not an error.
func (s *Store) DeletePost(p Post) error {
	path := p.FilePath
	if path == "" {
		path = filepath.Join(s.dir, p.Filename())
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("delete post file %s: %w", path, err)
	}
	s.log.Infow("deleted post", "path", path)
	return nil
}

// ExportPost writes p with frontmatter to dest.
func (s *Store) ExportPost(p Post, dest string) error {
	data, err := MarshalPost(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("export post to %s: %w", dest, err)
	}
	s.log.Infow("exported post", "title", p.Title, "dest", dest)
	return nil
}

// ImportPost reads a Markdown file from src and saves it into the store.
func (s *Store) ImportPost(src string) (Post, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return Post{}, fmt.Errorf("read post from %s: %w", src, err)
	}
	return s.ImportData(data, src)
}

// ImportData parses a Markdown document and saves it into the store.
// origin is only used for logging.
func (s *Store) ImportData(data []byte, origin string) (Post, error) {
	p, err := ParsePost(data, "")
	if err != nil {
		return Post{}, err
	}
	if _, err := s.SavePost(&p); err != nil {
		return Post{}, err
	}
	s.log.Infow("imported post", "title", p.Title, "from", origin)
	return p, nil
}
