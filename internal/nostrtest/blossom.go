package nostrtest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Upload is one request received by a Blossom fake.
type Upload struct {
	Method      string
	Path        string
	Auth        string
	ContentType string
	Body        []byte
}

// Blossom answers PUT /upload with a blob descriptor for the received body.
type Blossom struct {
	*httptest.Server

	mu      sync.Mutex
	uploads []Upload
	status  int
	hash    string
}

// NewBlossom starts a Blossom fake that accepts uploads. It is shut down
// when the test ends.
func NewBlossom(t testing.TB) *Blossom {
	t.Helper()
	b := &Blossom{status: http.StatusOK}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *Blossom) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.uploads = append(b.uploads, Upload{
		Method:      r.Method,
		Path:        r.URL.Path,
		Auth:        r.Header.Get("Authorization"),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	status, hash := b.status, b.hash
	b.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, "quota exceeded", status)
		return
	}
	if hash == "" {
		sum := sha256.Sum256(body)
		hash = hex.EncodeToString(sum[:])
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"url":    b.URL + "/" + hash,
		"sha256": hash,
		"size":   len(body),
		"type":   r.Header.Get("Content-Type"),
	})
}

// Respond makes later uploads fail with status (when not 200) or report
// hash instead of the real digest (when not empty).
func (b *Blossom) Respond(status int, hash string) {
	b.mu.Lock()
	b.status, b.hash = status, hash
	b.mu.Unlock()
}

// Uploads returns the requests received so far.
func (b *Blossom) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Upload(nil), b.uploads...)
}
