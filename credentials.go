package blogster

import (
	"fmt"
	"strings"

	"github.com/eringen/blogster/publisher"
)

// GenerateCredentials creates a new key pair. The private key is kept in
// nsec form, the public key as hex.
func GenerateCredentials() (Credentials, error) {
	keys := publisher.GenerateKeys()
	nsec, err := keys.Nsec()
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{PrivateKey: nsec, PublicKey: keys.PublicKey()}, nil
}

// ImportCredentials builds credentials from an nsec or 64-character hex
// private key.
func ImportCredentials(priv string) (Credentials, error) {
	priv = strings.TrimSpace(priv)
	keys, err := publisher.ParseKeys(priv)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{PrivateKey: priv, PublicKey: keys.PublicKey()}, nil
}

// ValidatePrivateKey reports whether priv is a usable nsec or hex key.
func ValidatePrivateKey(priv string) bool {
	return publisher.ValidPrivateKey(priv)
}

// PublicKeyFromPrivate derives the hex public key for priv.
func PublicKeyFromPrivate(priv string) (string, error) {
	keys, err := publisher.ParseKeys(priv)
	if err != nil {
		return "", err
	}
	return keys.PublicKey(), nil
}

// Npub returns the bech32 form of the credentials' public key.
func (c Credentials) Npub() string {
	npub, err := publisher.Npub(c.PublicKey)
	if err != nil {
		return c.PublicKey
	}
	return npub
}

// Profile returns the kind-0 metadata for the credentials.
func (c Credentials) Profile() publisher.Profile {
	return publisher.Profile{
		DisplayName: c.DisplayName,
		About:       c.About,
		Picture:     c.Picture,
		NIP05:       c.NIP05,
	}
}

// GenerateKeys creates and stores a new identity, keeping any profile
// fields already stored.
func (a *App) GenerateKeys() (Credentials, error) {
	creds, err := GenerateCredentials()
	if err != nil {
		return Credentials{}, fmt.Errorf("generate keys: %w", err)
	}
	return a.storeKeys(creds)
}

// ImportKeys stores the identity for priv, keeping any profile fields
// already stored.
func (a *App) ImportKeys(priv string) (Credentials, error) {
	creds, err := ImportCredentials(priv)
	if err != nil {
		return Credentials{}, err
	}
	return a.storeKeys(creds)
}

func (a *App) storeKeys(creds Credentials) (Credentials, error) {
	existing, err := a.Credentials.Load()
	if err != nil {
		return Credentials{}, err
	}
	if existing != nil {
		creds.DisplayName = existing.DisplayName
		creds.About = existing.About
		creds.Picture = existing.Picture
		creds.NIP05 = existing.NIP05
	}
	if err := a.Credentials.Save(creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// DeleteKeys removes the stored identity.
func (a *App) DeleteKeys() error {
	return a.Credentials.Delete()
}
