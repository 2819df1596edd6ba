// Package publisher signs Nostr events and sends them to relays. Event
// serialization, signatures and the relay wire protocol come from go-nostr.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/eringen/blogster/logger"
)

// Event kinds used by blogster.
const (
	KindMetadata = 0
	KindLongForm = 30023 // NIP-23, parameterized replaceable
)

// ErrNoRelayAccepted is returned when every relay failed or rejected an event.
var ErrNoRelayAccepted = errors.New("failed to publish to any relay")

const defaultRelayTimeout = 10 * time.Second

// Article is the long-form content of one post.
type Article struct {
	Identifier  string // NIP-33 "d" tag
	Title       string
	Summary     string
	Content     string
	Hashtags    []string
	Image       string
	PublishedAt time.Time
}

// Profile is the kind-0 metadata published for the author.
type Profile struct {
	DisplayName string
	About       string
	Picture     string
	NIP05       string
}

// Result is one relay's outcome for a publish.
type Result struct {
	Relay string
	Err   error
}

// Client signs with one key pair and publishes to relays.
type Client struct {
	keys         Keys
	relayTimeout time.Duration
	log          *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRelayTimeout bounds connecting and publishing to a single relay.
func WithRelayTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.relayTimeout = d
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

// New returns a Client signing with keys.
func New(keys Keys, opts ...Option) *Client {
	c := &Client{
		keys:         keys,
		relayTimeout: defaultRelayTimeout,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Keys returns the signing key pair.
func (c *Client) Keys() Keys {
	return c.keys
}

// Sign signs ev with the client's keys. Used for Blossom authorization events.
func (c *Client) Sign(ev *nostr.Event) error {
	return c.keys.Sign(ev)
}

// LongFormEvent builds and signs a kind-30023 event for a.
func (c *Client) LongFormEvent(a Article) (nostr.Event, error) {
	tags := nostr.Tags{{"title", a.Title}}
	if a.Summary != "" {
		tags = append(tags, nostr.Tag{"summary", a.Summary})
	}
	for _, t := range a.Hashtags {
		tags = append(tags, nostr.Tag{"t", t})
	}
	if a.Image != "" {
		tags = append(tags, nostr.Tag{"image", a.Image})
	}
	tags = append(tags,
		nostr.Tag{"published_at", strconv.FormatInt(a.PublishedAt.Unix(), 10)},
		nostr.Tag{"d", a.Identifier},
	)

	ev := nostr.Event{
		CreatedAt: nostr.Now(),
		Kind:      KindLongForm,
		Tags:      tags,
		Content:   a.Content,
	}
	if err := c.Sign(&ev); err != nil {
		return nostr.Event{}, err
	}
	return ev, nil
}

type metadataContent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	About       string `json:"about,omitempty"`
	Picture     string `json:"picture,omitempty"`
	NIP05       string `json:"nip05,omitempty"`
}

// MetadataEvent builds and signs a kind-0 event for p. A picture that is not
// an absolute URL is left out.
func (c *Client) MetadataEvent(p Profile) (nostr.Event, error) {
	meta := metadataContent{
		Name:        p.DisplayName,
		DisplayName: p.DisplayName,
		About:       p.About,
		NIP05:       p.NIP05,
	}
	if u, err := url.Parse(p.Picture); err == nil && u.IsAbs() && u.Host != "" {
		meta.Picture = p.Picture
	}
	content, err := json.Marshal(meta)
	if err != nil {
		return nostr.Event{}, fmt.Errorf("encode metadata: %w", err)
	}
	ev := nostr.Event{
		CreatedAt: nostr.Now(),
		Kind:      KindMetadata,
		Tags:      nostr.Tags{},
		Content:   string(content),
	}
	if err := c.Sign(&ev); err != nil {
		return nostr.Event{}, err
	}
	return ev, nil
}

// Publish sends ev to every relay concurrently and returns one Result per
// relay, in the order given.
func (c *Client) Publish(ctx context.Context, ev nostr.Event, relays []string) []Result {
	results := make([]Result, len(relays))
	var wg sync.WaitGroup
	for i, relayURL := range relays {
		wg.Add(1)
		go func(i int, relayURL string) {
			defer wg.Done()
			err := c.publishOne(ctx, relayURL, ev)
			if err != nil {
				c.log.Warnw("relay did not accept event", "relay", relayURL, "event", ev.ID, "err", err)
			} else {
				c.log.Debugw("relay accepted event", "relay", relayURL, "event", ev.ID)
			}
			results[i] = Result{Relay: relayURL, Err: err}
		}(i, relayURL)
	}
	wg.Wait()
	return results
}

func (c *Client) publishOne(ctx context.Context, relayURL string, ev nostr.Event) error {
	ctx, cancel := context.WithTimeout(ctx, c.relayTimeout)
	defer cancel()

	relay, err := nostr.RelayConnect(ctx, relayURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer relay.Close()

	if err := relay.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Accepted returns the relays whose Result has no error.
func Accepted(results []Result) []string {
	var ok []string
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r.Relay)
		}
	}
	return ok
}

// PublishArticle signs a long-form event for a and publishes it. It fails
// with ErrNoRelayAccepted when no relay took the event.
func (c *Client) PublishArticle(ctx context.Context, a Article, relays []string) (nostr.Event, []Result, error) {
	ev, err := c.LongFormEvent(a)
	if err != nil {
		return nostr.Event{}, nil, err
	}
	c.log.Infow("publishing long-form event", "event", ev.ID, "title", a.Title, "relays", len(relays))
	results := c.Publish(ctx, ev, relays)
	if len(Accepted(results)) == 0 {
		return ev, results, ErrNoRelayAccepted
	}
	return ev, results, nil
}

// UpdateProfile publishes kind-0 metadata for p.
func (c *Client) UpdateProfile(ctx context.Context, p Profile, relays []string) (nostr.Event, []Result, error) {
	ev, err := c.MetadataEvent(p)
	if err != nil {
		return nostr.Event{}, nil, err
	}
	results := c.Publish(ctx, ev, relays)
	if len(Accepted(results)) == 0 {
		return ev, results, ErrNoRelayAccepted
	}
	c.log.Infow("updated profile metadata", "event", ev.ID)
	return ev, results, nil
}

// Naddr returns the NIP-19 address of a long-form article.
func Naddr(pubkey, identifier string, relays []string) (string, error) {
	return nip19.EncodeEntity(pubkey, KindLongForm, identifier, relays)
}
