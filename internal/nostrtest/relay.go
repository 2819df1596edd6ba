// Package nostrtest provides in-process fakes of a Nostr relay and a Blossom
// server for tests.
package nostrtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/nbd-wtf/go-nostr"
)

// Relay is a minimal NIP-01 relay that answers every EVENT with an OK
// message carrying the configured verdict.
type Relay struct {
	srv    *httptest.Server
	accept bool
	reason string

	mu     sync.Mutex
	events []nostr.Event
}

// NewRelay starts a relay that accepts (or rejects with reason) every event.
// It is shut down when the test ends.
func NewRelay(t testing.TB, accept bool, reason string) *Relay {
	t.Helper()
	r := &Relay{accept: accept, reason: reason}
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	r.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame []json.RawMessage
			if json.Unmarshal(msg, &frame) != nil || len(frame) < 2 {
				continue
			}
			var typ string
			if json.Unmarshal(frame[0], &typ) != nil || typ != "EVENT" {
				continue
			}
			var ev nostr.Event
			if err := json.Unmarshal(frame[1], &ev); err != nil {
				continue
			}
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
			if err := conn.WriteJSON([]any{"OK", ev.ID, r.accept, r.reason}); err != nil {
				return
			}
		}
	}))
	t.Cleanup(r.srv.Close)
	return r
}

// URL returns the ws:// address of the relay.
func (r *Relay) URL() string {
	return "ws" + strings.TrimPrefix(r.srv.URL, "http")
}

// Events returns the events received so far.
func (r *Relay) Events() []nostr.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]nostr.Event(nil), r.events...)
}
