package blogster

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/eringen/blogster/logger"
)

const (
	keyringService = "blogster"
	keyringUser    = "nostr_credentials"
)

// ErrNoCredentials is returned when an operation needs a Nostr identity and
// none is stored.
var ErrNoCredentials = errors.New("no Nostr credentials configured")

// CredentialStore keeps the Nostr identity in the OS-native secret store.
type CredentialStore struct {
	service string
	log     *logger.Logger
}

// NewCredentialStore returns a store using the blogster keyring entry.
func NewCredentialStore(log *logger.Logger) *CredentialStore {
	if log == nil {
		log = logger.Nop()
	}
	return &CredentialStore{service: keyringService, log: log}
}

// Save stores creds as JSON in the keyring.
func (s *CredentialStore) Save(creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("serialize credentials: %w", err)
	}
	if err := keyring.Set(s.service, keyringUser, string(data)); err != nil {
		return fmt.Errorf("save credentials to keyring: %w", err)
	}
	s.log.Infow("saved Nostr credentials", "pubkey", creds.PublicKey)
	return nil
}

// Load returns the stored credentials, or nil when none are stored.
func (s *CredentialStore) Load() (*Credentials, error) {
	data, err := keyring.Get(s.service, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load credentials from keyring: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("deserialize credentials: %w", err)
	}
	return &creds, nil
}

// Require is Load that turns a missing entry into ErrNoCredentials.
func (s *CredentialStore) Require() (Credentials, error) {
	creds, err := s.Load()
	if err != nil {
		return Credentials{}, err
	}
	if creds == nil {
		return Credentials{}, ErrNoCredentials
	}
	return *creds, nil
}

// Delete removes the stored credentials. Deleting a missing entry is not an error.
func (s *CredentialStore) Delete() error {
	if err := keyring.Delete(s.service, keyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			s.log.Debugw("no credentials to delete")
			return nil
		}
		return fmt.Errorf("delete credentials from keyring: %w", err)
	}
	s.log.Infow("deleted Nostr credentials")
	return nil
}
