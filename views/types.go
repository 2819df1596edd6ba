// Package views renders the web editor pages. The types here are view
// models filled in by the handlers so views stay free of application
// imports.
package views

// Flash is a one-time message shown at the top of a page.
type Flash struct {
	Kind    string // "info" or "error"
	Message string
}

// Page carries what every page needs.
type Page struct {
	Title   string
	CSRF    string
	Flashes []Flash
}

// PostItem is one entry in the sidebar.
type PostItem struct {
	ID      string
	Title   string
	Updated string
	Active  bool
}

// Sidebar lists posts grouped by status.
type Sidebar struct {
	Query     string
	Drafts    []PostItem
	Published []PostItem
	Failed    []PostItem
}

// Editor is the form for one post.
type Editor struct {
	ID          string
	Title       string
	Summary     string
	Tags        string // comma-separated
	Image       string
	Content     string
	Status      string
	EventID     string
	Naddr       string
	Relays      []string
	FilePath    string
	Updated     string
	Words       int
	ReadingTime int
	CanPublish  bool
}

// Settings is the state shown on the settings page.
type Settings struct {
	UseDefaults   bool
	UseCustom     bool
	Defaults      []string
	Custom        []string
	Active        []string
	BlossomServer string
	MaxImageWidth int
	HasKeys       bool
	PublicKey     string
	Npub          string
	DisplayName   string
	About         string
	Picture       string
	NIP05         string
}

// PublishRow is one relay outcome in the history.
type PublishRow struct {
	PostID      string
	PostTitle   string
	EventID     string
	Relay       string
	OK          bool
	Error       string
	PublishedAt string
}

// UploadRow is one uploaded blob in the history.
type UploadRow struct {
	URL        string
	Name       string
	Type       string
	Size       string
	Server     string
	UploadedAt string
}

// History lists publishes and uploads.
type History struct {
	PostID    string
	PostTitle string
	Publishes []PublishRow
	Uploads   []UploadRow
}
