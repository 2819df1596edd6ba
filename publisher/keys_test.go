package publisher

import (
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test vector from NIP-19.
const (
	vectorNsec   = "nsec1vl029mgpspedva04g90vltkh6fvh240zqtv9k0t9af8935ke9laqsnlfe5"
	vectorSecret = "67dea2ed018072d675f5415ecfaed7d2597555e202d85b3d65ea4e58d2d92ffa"
)

func TestSecretKeyHex(t *testing.T) {
	sk, err := SecretKeyHex(vectorNsec)
	require.NoError(t, err)
	assert.Equal(t, vectorSecret, sk)

	sk, err = SecretKeyHex("  " + strings.ToUpper(vectorSecret) + "\n")
	require.NoError(t, err)
	assert.Equal(t, vectorSecret, sk)

	_, err = SecretKeyHex("nsec1garbage")
	assert.ErrorIs(t, err, ErrInvalidNsec)

	_, err = SecretKeyHex("abcd")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = SecretKeyHex("zz" + vectorSecret[2:])
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestParseKeysNsecAndHexAgree(t *testing.T) {
	fromNsec, err := ParseKeys(vectorNsec)
	require.NoError(t, err)
	fromHex, err := ParseKeys(vectorSecret)
	require.NoError(t, err)

	assert.Equal(t, fromHex.PublicKey(), fromNsec.PublicKey())
	assert.Len(t, fromHex.PublicKey(), 64)

	nsec, err := fromHex.Nsec()
	require.NoError(t, err)
	assert.Equal(t, vectorNsec, nsec)
}

func TestGenerateKeys(t *testing.T) {
	k := GenerateKeys()
	assert.Len(t, k.PublicKey(), 64)

	nsec, err := k.Nsec()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(nsec, "nsec1"))

	again, err := ParseKeys(nsec)
	require.NoError(t, err)
	assert.Equal(t, k.PublicKey(), again.PublicKey())

	npub, err := k.Npub()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(npub, "npub1"))
}

func TestValidPrivateKey(t *testing.T) {
	assert.True(t, ValidPrivateKey(vectorNsec))
	assert.True(t, ValidPrivateKey(vectorSecret))
	assert.False(t, ValidPrivateKey(""))
	assert.False(t, ValidPrivateKey("npub1xyz"))
}

func TestKeysSign(t *testing.T) {
	k, err := ParseKeys(vectorSecret)
	require.NoError(t, err)

	ev := nostr.Event{CreatedAt: nostr.Now(), Kind: 1, Tags: nostr.Tags{}, Content: "hi"}
	require.NoError(t, k.Sign(&ev))
	assert.Equal(t, k.PublicKey(), ev.PubKey)
	assert.NotEmpty(t, ev.ID)

	ok, err := ev.CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)
}
