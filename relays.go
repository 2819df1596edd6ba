package blogster

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

// DefaultRelays are well-known relays that accept long-form content.
var DefaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
	"wss://relay.nostr.band",
	"wss://nostr-pub.wellorder.net",
	"wss://relay.snort.social",
}

var (
	ErrInvalidRelayURL = errors.New("relay URL must start with wss:// or ws://")
	ErrRelayTooShort   = errors.New("relay URL is too short")
	ErrRelayNoHost     = errors.New("relay URL has no host")
	ErrRelayExists     = errors.New("relay already exists")
)

// RelaySettings selects which relays posts are published to.
type RelaySettings struct {
	CustomRelays     []string `mapstructure:"custom"`
	UseDefaultRelays bool     `mapstructure:"use_defaults"`
	UseCustomRelays  bool     `mapstructure:"use_custom"`
}

// NewRelaySettings returns settings that publish to the default relays only.
func NewRelaySettings() RelaySettings {
	return RelaySettings{UseDefaultRelays: true}
}

// Active returns the sorted, deduplicated relay set for publishing. When
// nothing is selected the default relays are used.
func (r RelaySettings) Active() []string {
	var relays []string
	if r.UseDefaultRelays {
		relays = append(relays, DefaultRelays...)
	}
	if r.UseCustomRelays {
		relays = append(relays, r.CustomRelays...)
	}
	relays = dedupeSorted(relays)
	if len(relays) == 0 {
		relays = append([]string(nil), DefaultRelays...)
	}
	return relays
}

func dedupeSorted(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for i, s := range in {
		if i > 0 && s == in[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Add validates relayURL and appends it to the custom relays.
func (r *RelaySettings) Add(relayURL string) error {
	relayURL = strings.TrimSpace(relayURL)
	if err := ValidateRelayURL(relayURL); err != nil {
		return err
	}
	for _, existing := range r.CustomRelays {
		if existing == relayURL {
			return ErrRelayExists
		}
	}
	r.CustomRelays = append(r.CustomRelays, relayURL)
	return nil
}

// Remove deletes relayURL from the custom relays and reports whether it was present.
func (r *RelaySettings) Remove(relayURL string) bool {
	for i, existing := range r.CustomRelays {
		if existing == relayURL {
			r.CustomRelays = append(r.CustomRelays[:i], r.CustomRelays[i+1:]...)
			return true
		}
	}
	return false
}

// ValidateRelayURL checks that u is a ws:// or wss:// URL with a host.
func ValidateRelayURL(u string) error {
	if !strings.HasPrefix(u, "wss://") && !strings.HasPrefix(u, "ws://") {
		return ErrInvalidRelayURL
	}
	if len(u) < 10 {
		return ErrRelayTooShort
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return ErrRelayNoHost
	}
	return nil
}
