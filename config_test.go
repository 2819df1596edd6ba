package blogster

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "posts"), cfg.PostsDir)
	assert.Equal(t, filepath.Join(dir, "library.db"), cfg.LibraryPath)
	assert.Equal(t, "127.0.0.1:7070", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.PublishTimeout)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, DefaultBlossomServer, cfg.Blossom.ServerURL)
	assert.True(t, cfg.Relays.UseDefaultRelays)
	assert.False(t, cfg.Relays.UseCustomRelays)
	assert.Empty(t, cfg.Relays.CustomRelays)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yml := `addr: ":9000"
log_level: debug
publish_timeout: 5s
relays:
  use_defaults: false
  use_custom: true
  custom:
    - wss://relay.example.com
blossom:
  server_url: https://cdn.example.com/
  max_image_width: 1200
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.PublishTimeout)
	assert.Equal(t, []string{"wss://relay.example.com"}, cfg.Relays.Active())
	assert.Equal(t, "https://cdn.example.com", cfg.Blossom.ServerURL)
	assert.Equal(t, 1200, cfg.Blossom.MaxImageWidth)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOGSTER_ADDR", "127.0.0.1:8088")
	t.Setenv("BLOGSTER_BLOSSOM_SERVER_URL", "https://env.example.com")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8088", cfg.Addr)
	assert.Equal(t, "https://env.example.com", cfg.Blossom.ServerURL)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("addr: [oops"), 0o644))
	_, err := LoadConfig(dir)
	require.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Relays.Add("wss://mine.example.org"))
	cfg.Relays.UseCustomRelays = true
	cfg.Blossom.ServerURL = "https://blobs.example.org"
	cfg.ConnectTimeout = 3 * time.Second
	require.NoError(t, SaveConfig(cfg))
	assert.FileExists(t, cfg.ConfigFile())

	got, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://mine.example.org"}, got.Relays.CustomRelays)
	assert.True(t, got.Relays.UseCustomRelays)
	assert.True(t, got.Relays.UseDefaultRelays)
	assert.Equal(t, "https://blobs.example.org", got.Blossom.ServerURL)
	assert.Equal(t, 3*time.Second, got.ConnectTimeout)
	assert.Equal(t, filepath.Join(dir, "posts"), got.PostsDir)
}

func TestConfigAttributes(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	attrs := cfg.Attributes()
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a[0])
	}
	assert.Contains(t, names, "relays.active")
	assert.Contains(t, names, "blossom.server_url")
}
