package blogster

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eringen/blogster/publisher"

	_ "modernc.org/sqlite"
)

// ErrUploadNotFound is returned when deleting an upload the library doesn't know.
var ErrUploadNotFound = errors.New("upload not found")

// Library records uploads and publish attempts in a local SQLite database.
// Posts themselves live in Markdown files; the library keeps what the files
// don't.
type Library struct {
	db *sql.DB
}

// OpenLibrary opens (or creates) the SQLite database at path and runs schema
// migrations.
func OpenLibrary(path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	l := newLibrary(db)
	if err := l.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func newLibrary(db *sql.DB) *Library {
	return &Library{db: db}
}

// Close closes the underlying database connection.
func (l *Library) Close() error {
	return l.db.Close()
}

const schemaUploads = `
CREATE TABLE IF NOT EXISTS uploads (
    sha256 TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    size INTEGER NOT NULL,
    server TEXT NOT NULL,
    uploaded_at TEXT NOT NULL
);
`

const schemaPublishes = `
CREATE TABLE IF NOT EXISTS publishes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    post_id TEXT NOT NULL,
    event_id TEXT NOT NULL,
    relay TEXT NOT NULL,
    ok INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    published_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_publishes_post ON publishes(post_id);
`

func (l *Library) ensureSchema() error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{schemaUploads, schemaPublishes} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

// SaveUpload upserts an upload record keyed by its hash.
func (l *Library) SaveUpload(u Upload) error {
	if u.UploadedAt == "" {
		u.UploadedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := l.db.Exec(`INSERT OR REPLACE INTO uploads (sha256, url, name, type, size, server, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.ToLower(u.SHA256), u.URL, u.Name, u.Type, u.Size, u.Server, u.UploadedAt)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

// ListUploads returns all uploads, newest first.
func (l *Library) ListUploads() ([]Upload, error) {
	rows, err := l.db.Query(`SELECT sha256, url, name, type, size, server, uploaded_at FROM uploads ORDER BY uploaded_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.SHA256, &u.URL, &u.Name, &u.Type, &u.Size, &u.Server, &u.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// DeleteUpload forgets an upload. The blob stays on the server.
func (l *Library) DeleteUpload(sha string) error {
	res, err := l.db.Exec(`DELETE FROM uploads WHERE sha256 = ?`, strings.ToLower(sha))
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUploadNotFound
	}
	return nil
}

// RecordPublish stores one row per relay outcome of publishing eventID.
func (l *Library) RecordPublish(postID, eventID string, results []publisher.Result) error {
	if len(results) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin publish record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range results {
		ok, msg := 1, ""
		if r.Err != nil {
			ok, msg = 0, r.Err.Error()
		}
		if _, err := tx.Exec(`INSERT INTO publishes (post_id, event_id, relay, ok, error, published_at) VALUES (?, ?, ?, ?, ?, ?)`,
			postID, eventID, r.Relay, ok, msg, now); err != nil {
			return fmt.Errorf("record publish to %s: %w", r.Relay, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit publish record: %w", err)
	}
	return nil
}

// ListPublishes returns publish history, newest first. An empty postID
// lists every post.
func (l *Library) ListPublishes(postID string) ([]PublishRecord, error) {
	query := `SELECT id, post_id, event_id, relay, ok, error, published_at FROM publishes`
	var args []any
	if postID != "" {
		query += ` WHERE post_id = ?`
		args = append(args, postID)
	}
	query += ` ORDER BY id DESC`

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publishes: %w", err)
	}
	defer rows.Close()

	var records []PublishRecord
	for rows.Next() {
		var (
			r  PublishRecord
			ok int
		)
		if err := rows.Scan(&r.ID, &r.PostID, &r.EventID, &r.Relay, &ok, &r.Error, &r.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan publish: %w", err)
		}
		r.OK = ok == 1
		records = append(records, r)
	}
	return records, rows.Err()
}
