package blogster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestCredentialStoreLifecycle(t *testing.T) {
	keyring.MockInit()
	s := NewCredentialStore(nil)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.Require()
	assert.ErrorIs(t, err, ErrNoCredentials)

	creds := Credentials{
		PrivateKey:  "nsec1example",
		PublicKey:   "abcdef",
		DisplayName: "Alice",
		NIP05:       "alice@example.com",
	}
	require.NoError(t, s.Save(creds))

	got, err = s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, creds, *got)

	req, err := s.Require()
	require.NoError(t, err)
	assert.Equal(t, "Alice", req.DisplayName)

	require.NoError(t, s.Delete())
	got, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Delete(), "deleting twice is fine")
}

func TestCredentialStoreSurfacesKeyringErrors(t *testing.T) {
	denied := errors.New("access denied")
	keyring.MockInitWithError(denied)
	t.Cleanup(keyring.MockInit)

	s := NewCredentialStore(nil)

	_, err := s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, denied)

	err = s.Save(Credentials{PrivateKey: "x"})
	assert.ErrorIs(t, err, denied)

	err = s.Delete()
	assert.ErrorIs(t, err, denied)
}

func TestCredentialStoreCorruptEntry(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(keyringService, keyringUser, "{not json"))

	_, err := NewCredentialStore(nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deserialize credentials")
}
