package blogster

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "Draft"
	StatusPublished PostStatus = "Published"
	StatusFailed    PostStatus = "Failed"
)

// ParseStatus maps a frontmatter value to a PostStatus. Unknown values are drafts.
func ParseStatus(s string) PostStatus {
	switch PostStatus(s) {
	case StatusPublished:
		return StatusPublished
	case StatusFailed:
		return StatusFailed
	default:
		return StatusDraft
	}
}

// Post is the core content type stored as a Markdown file with YAML frontmatter.
type Post struct {
	ID              string
	Title           string
	Content         string // Markdown body
	Summary         string
	Tags            []string
	Image           string // featured image URL
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Status          PostStatus
	EventID         string   // hex id of the last published event
	PublishedRelays []string // relays that accepted the last publish
	FilePath        string   // where the post was loaded from or saved to
}

// Credentials is the Nostr identity kept in the OS keyring.
type Credentials struct {
	PrivateKey  string `json:"private_key"` // nsec or hex, as entered
	PublicKey   string `json:"public_key"`  // hex
	DisplayName string `json:"display_name,omitempty"`
	About       string `json:"about,omitempty"`
	Picture     string `json:"picture,omitempty"`
	NIP05       string `json:"nip05,omitempty"`
}

// Upload records a blob stored on a Blossom server.
type Upload struct {
	SHA256     string
	URL        string
	Name       string
	Type       string
	Size       int64
	Server     string
	UploadedAt string
}

// PublishRecord is one relay's outcome for a published event.
type PublishRecord struct {
	ID          int64
	PostID      string
	EventID     string
	Relay       string
	OK          bool
	Error       string
	PublishedAt string
}
