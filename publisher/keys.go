package publisher

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

var (
	ErrInvalidNsec       = errors.New("invalid nsec format")
	ErrInvalidPrivateKey = errors.New("invalid private key format")
)

// Keys is a parsed Nostr key pair in hex form.
type Keys struct {
	secret string
	public string
}

// SecretKeyHex decodes a private key given as nsec or 64 hex characters.
func SecretKeyHex(priv string) (string, error) {
	priv = strings.TrimSpace(priv)
	if strings.HasPrefix(priv, "nsec") {
		prefix, value, err := nip19.Decode(priv)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidNsec, err)
		}
		sk, ok := value.(string)
		if prefix != "nsec" || !ok {
			return "", ErrInvalidNsec
		}
		return sk, nil
	}
	raw, err := hex.DecodeString(priv)
	if err != nil || len(raw) != 32 {
		return "", ErrInvalidPrivateKey
	}
	return strings.ToLower(priv), nil
}

// ParseKeys builds a key pair from a private key in nsec or hex form.
func ParseKeys(priv string) (Keys, error) {
	sk, err := SecretKeyHex(priv)
	if err != nil {
		return Keys{}, err
	}
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return Keys{}, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return Keys{secret: sk, public: pk}, nil
}

// GenerateKeys creates a fresh random key pair.
func GenerateKeys() Keys {
	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)
	return Keys{secret: sk, public: pk}
}

// ValidPrivateKey reports whether priv parses as an nsec or hex private key.
func ValidPrivateKey(priv string) bool {
	_, err := ParseKeys(priv)
	return err == nil
}

// PublicKey returns the hex public key.
func (k Keys) PublicKey() string {
	return k.public
}

// Nsec returns the bech32-encoded private key.
func (k Keys) Nsec() (string, error) {
	return nip19.EncodePrivateKey(k.secret)
}

// Npub returns the bech32-encoded public key.
func (k Keys) Npub() (string, error) {
	return Npub(k.public)
}

// Npub encodes a hex public key as npub.
func Npub(pubkey string) (string, error) {
	return nip19.EncodePublicKey(pubkey)
}

// Sign sets the author, id and signature of ev.
func (k Keys) Sign(ev *nostr.Event) error {
	ev.PubKey = k.public
	if err := ev.Sign(k.secret); err != nil {
		return fmt.Errorf("sign event: %w", err)
	}
	return nil
}
