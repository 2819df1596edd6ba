// Package blossom uploads media to a Blossom server (BUD-02) using a signed
// Nostr authorization event.
package blossom

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nbd-wtf/go-nostr"

	"github.com/eringen/blogster/logger"
)

// KindAuth is the Blossom authorization event kind.
const KindAuth = 24242

const (
	authExpiry     = 10 * time.Minute
	maxErrBody     = 4 << 10
	defaultMIME    = "application/octet-stream"
	defaultTimeout = 60 * time.Second
)

// Signer signs authorization events.
type Signer interface {
	Sign(ev *nostr.Event) error
}

// Descriptor is the server's description of a stored blob.
type Descriptor struct {
	URL      string `json:"url"`
	SHA256   string `json:"sha256"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Uploaded int64  `json:"uploaded,omitempty"`
}

// Client uploads blobs to one Blossom server.
type Client struct {
	server string
	signer Signer
	http   *http.Client
	log    *logger.Logger
	now    func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Client for server. A trailing slash on server is ignored.
func New(server string, signer Signer, opts ...Option) *Client {
	c := &Client{
		server: strings.TrimRight(server, "/"),
		signer: signer,
		http:   &http.Client{Timeout: defaultTimeout},
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Server returns the base URL uploads go to.
func (c *Client) Server() string {
	return c.server
}

// ContentType picks a MIME type from the file extension, falling back to
// sniffing the data.
func ContentType(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	}
	if len(data) == 0 {
		return defaultMIME
	}
	mt := mimetype.Detect(data)
	if mt == nil {
		return defaultMIME
	}
	// mimetype appends parameters such as charset; the server only wants the type.
	typ, _, _ := strings.Cut(mt.String(), ";")
	return typ
}

// AuthEvent builds and signs the kind-24242 event that authorizes uploading
// a blob with the given hash.
func (c *Client) AuthEvent(name, hash string) (nostr.Event, error) {
	now := c.now()
	ev := nostr.Event{
		CreatedAt: nostr.Timestamp(now.Unix()),
		Kind:      KindAuth,
		Content:   "Upload " + name,
		Tags: nostr.Tags{
			{"t", "upload"},
			{"x", hash},
			{"expiration", strconv.FormatInt(now.Add(authExpiry).Unix(), 10)},
		},
	}
	if err := c.signer.Sign(&ev); err != nil {
		return nostr.Event{}, fmt.Errorf("sign auth event: %w", err)
	}
	return ev, nil
}

// AuthHeader encodes ev as a BUD-02 Authorization header value.
func AuthHeader(ev nostr.Event) (string, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("encode auth event: %w", err)
	}
	return "Nostr " + base64.StdEncoding.EncodeToString(raw), nil
}

// Upload stores data on the server and returns its descriptor.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (Descriptor, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	ev, err := c.AuthEvent(name, hash)
	if err != nil {
		return Descriptor{}, err
	}
	auth, err := AuthHeader(ev)
	if err != nil {
		return Descriptor{}, err
	}

	contentType := ContentType(name, data)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.server+"/upload", bytes.NewReader(data))
	if err != nil {
		return Descriptor{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	c.log.Debugw("uploading blob", "server", c.server, "name", name, "sha256", hash, "size", len(data))
	resp, err := c.http.Do(req)
	if err != nil {
		return Descriptor{}, fmt.Errorf("blossom upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return Descriptor{}, fmt.Errorf("blossom upload failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var desc Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return Descriptor{}, fmt.Errorf("decode blossom response: %w", err)
	}
	if desc.URL == "" {
		return Descriptor{}, fmt.Errorf("blossom response has no url")
	}
	if desc.SHA256 != "" && !strings.EqualFold(desc.SHA256, hash) {
		c.log.Warnw("blossom hash mismatch", "expected", hash, "got", desc.SHA256)
	}
	if desc.SHA256 == "" {
		desc.SHA256 = hash
	}
	if desc.Type == "" {
		desc.Type = contentType
	}
	if desc.Size == 0 {
		desc.Size = int64(len(data))
	}
	c.log.Infow("uploaded blob", "url", desc.URL, "sha256", desc.SHA256)
	return desc, nil
}

// UploadFile reads path and uploads its contents under the file's base name.
func (c *Client) UploadFile(ctx context.Context, path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read %s: %w", path, err)
	}
	return c.Upload(ctx, filepath.Base(path), data)
}
