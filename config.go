package blogster

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName        = "blogster"
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "BLOGSTER"
)

// DefaultBlossomServer is used when no Blossom server is configured.
const DefaultBlossomServer = "https://blossom.band"

// BlossomSettings configures image uploads.
type BlossomSettings struct {
	ServerURL     string `mapstructure:"server_url"`
	MaxImageWidth int    `mapstructure:"max_image_width"` // 0 keeps the original size
}

// Config holds all configuration for blogster. It is read from config.yaml in
// Dir and BLOGSTER_* environment variables (e.g. BLOGSTER_ADDR,
// BLOGSTER_BLOSSOM_SERVER_URL).
type Config struct {
	Dir            string        `mapstructure:"-"`               // config directory
	PostsDir       string        `mapstructure:"posts_dir"`       // default <Dir>/posts
	LibraryPath    string        `mapstructure:"library_path"`    // default <Dir>/library.db
	Addr           string        `mapstructure:"addr"`            // web editor listen address
	SessionSecret  string        `mapstructure:"session_secret"`  // random per run when empty
	CookieSecure   bool          `mapstructure:"cookie_secure"`   // set when served over HTTPS
	LogLevel       string        `mapstructure:"log_level"`       // debug, info, warn, error
	PublishTimeout time.Duration `mapstructure:"publish_timeout"` // whole publish call
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"` // per relay
	UploadTimeout  time.Duration `mapstructure:"upload_timeout"`
	PostCacheTTL   time.Duration `mapstructure:"post_cache_ttl"`

	Relays  RelaySettings   `mapstructure:"relays"`
	Blossom BlossomSettings `mapstructure:"blossom"`
}

// ErrInvalidServerURL is returned for a Blossom server that is not an
// http(s) URL with a host.
var ErrInvalidServerURL = errors.New("blossom server must be an http:// or https:// URL")

// ValidateServerURL checks a Blossom server URL.
func ValidateServerURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return ErrInvalidServerURL
	}
	return nil
}

// SetBlossom validates and applies Blossom settings. maxWidth 0 disables
// resizing.
func (c *Config) SetBlossom(server string, maxWidth int) error {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if err := ValidateServerURL(server); err != nil {
		return err
	}
	if maxWidth < 0 {
		return errors.New("max image width must not be negative")
	}
	c.Blossom.ServerURL = server
	c.Blossom.MaxImageWidth = maxWidth
	return nil
}

// DefaultDir returns the per-OS configuration directory for blogster.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("could not find config directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

func (c *Config) setDefaults() {
	if c.PostsDir == "" {
		c.PostsDir = filepath.Join(c.Dir, "posts")
	}
	if c.LibraryPath == "" {
		c.LibraryPath = filepath.Join(c.Dir, "library.db")
	}
	if c.Addr == "" {
		c.Addr = "127.0.0.1:7070"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PublishTimeout == 0 {
		c.PublishTimeout = 30 * time.Second
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.UploadTimeout == 0 {
		c.UploadTimeout = 60 * time.Second
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = time.Minute
	}
	if c.Blossom.ServerURL == "" {
		c.Blossom.ServerURL = DefaultBlossomServer
	}
	c.Blossom.ServerURL = strings.TrimRight(c.Blossom.ServerURL, "/")
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys must be known to viper for environment overrides to reach Unmarshal.
	v.SetDefault("posts_dir", "")
	v.SetDefault("library_path", "")
	v.SetDefault("addr", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("log_level", "")
	v.SetDefault("publish_timeout", "0s")
	v.SetDefault("connect_timeout", "0s")
	v.SetDefault("upload_timeout", "0s")
	v.SetDefault("post_cache_ttl", "0s")
	v.SetDefault("relays.custom", []string{})
	v.SetDefault("relays.use_defaults", true)
	v.SetDefault("relays.use_custom", false)
	v.SetDefault("blossom.server_url", "")
	v.SetDefault("blossom.max_image_width", 0)
	return v
}

// LoadConfig reads config.yaml from dir (if present) and the environment.
// An empty dir selects DefaultDir.
func LoadConfig(dir string) (Config, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		dir = d
	}

	v := newViper(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Dir = dir
	cfg.setDefaults()
	return cfg, nil
}

// ConfigFile returns the path settings are written to.
func (c Config) ConfigFile() string {
	return filepath.Join(c.Dir, configFileName+"."+configFileType)
}

// SaveConfig writes the user-editable settings back to config.yaml.
func SaveConfig(c Config) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	v := viper.New()
	v.SetConfigType(configFileType)
	v.Set("addr", c.Addr)
	v.Set("log_level", c.LogLevel)
	v.Set("cookie_secure", c.CookieSecure)
	v.Set("publish_timeout", c.PublishTimeout.String())
	v.Set("connect_timeout", c.ConnectTimeout.String())
	v.Set("upload_timeout", c.UploadTimeout.String())
	v.Set("post_cache_ttl", c.PostCacheTTL.String())
	if c.SessionSecret != "" {
		v.Set("session_secret", c.SessionSecret)
	}
	if c.PostsDir != filepath.Join(c.Dir, "posts") {
		v.Set("posts_dir", c.PostsDir)
	}
	if c.LibraryPath != filepath.Join(c.Dir, "library.db") {
		v.Set("library_path", c.LibraryPath)
	}
	custom := c.Relays.CustomRelays
	if custom == nil {
		custom = []string{}
	}
	v.Set("relays.custom", custom)
	v.Set("relays.use_defaults", c.Relays.UseDefaultRelays)
	v.Set("relays.use_custom", c.Relays.UseCustomRelays)
	v.Set("blossom.server_url", c.Blossom.ServerURL)
	v.Set("blossom.max_image_width", c.Blossom.MaxImageWidth)

	if err := v.WriteConfigAs(c.ConfigFile()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Attributes lists the effective settings for display.
func (c Config) Attributes() [][2]string {
	return [][2]string{
		{"config_file", c.ConfigFile()},
		{"posts_dir", c.PostsDir},
		{"library_path", c.LibraryPath},
		{"addr", c.Addr},
		{"log_level", c.LogLevel},
		{"publish_timeout", c.PublishTimeout.String()},
		{"connect_timeout", c.ConnectTimeout.String()},
		{"upload_timeout", c.UploadTimeout.String()},
		{"post_cache_ttl", c.PostCacheTTL.String()},
		{"relays.use_defaults", fmt.Sprint(c.Relays.UseDefaultRelays)},
		{"relays.use_custom", fmt.Sprint(c.Relays.UseCustomRelays)},
		{"relays.custom", strings.Join(c.Relays.CustomRelays, ",")},
		{"relays.active", strings.Join(c.Relays.Active(), ",")},
		{"blossom.server_url", c.Blossom.ServerURL},
		{"blossom.max_image_width", fmt.Sprint(c.Blossom.MaxImageWidth)},
	}
}
