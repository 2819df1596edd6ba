// Package blogster composes Markdown blog posts and publishes them to Nostr
// relays as long-form (NIP-23) events, with image uploads to a Blossom
// server.
//
// Posts are plain Markdown files with YAML frontmatter. The App type wires
// the file store, a SQLite library of uploads and publish history, the OS
// keyring, and the local web editor together; cmd/blogster drives the same
// App from the command line.
package blogster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogster/blossom"
	"github.com/eringen/blogster/logger"
	"github.com/eringen/blogster/publisher"
)

// App is the central blogster application. It wires together the store,
// cache, library, credentials and the web editor.
type App struct {
	// Config is read directly only before the server starts. Later reads
	// go through Settings and writes through UpdateSettings.
	Config      Config
	Echo        *echo.Echo
	Store       *Store
	Cache       *PostCache
	Library     *Library
	Credentials *CredentialStore
	Log         *logger.Logger

	actionLimiter *ActionLimiter
	watcher       *Watcher
	routesOnce    sync.Once
	settingsMu    sync.RWMutex
	opened        bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Log = l
		}
	}
}

// New creates an App with the given configuration. Call Open before use.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Credentials = NewCredentialStore(a.Log.Named("keyring"))
	a.actionLimiter = NewActionLimiter(3, time.Minute)
	return a
}

// Open initializes the post store, cache, library and directory watcher.
func (a *App) Open() error {
	if a.opened {
		return nil
	}
	store, err := NewStore(a.Config.PostsDir, a.Log.Named("store"))
	if err != nil {
		return fmt.Errorf("blogster: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	lib, err := OpenLibrary(a.Config.LibraryPath)
	if err != nil {
		return fmt.Errorf("blogster: init library: %w", err)
	}
	a.Library = lib

	w, err := WatchPosts(a.Store.Dir(), a.Cache, a.Log.Named("watch"))
	if err != nil {
		// The editor still works without it; external edits show up after the TTL.
		a.Log.Warnw("posts directory watcher disabled", "err", err)
	} else {
		a.watcher = w
	}
	a.opened = true
	a.Log.Debugw("opened", "posts_dir", a.Config.PostsDir, "library", a.Config.LibraryPath)
	return nil
}

// Start opens the app if needed, installs middleware and routes, and serves
// the web editor until the server is shut down.
func (a *App) Start() error {
	if err := a.Open(); err != nil {
		return err
	}
	a.Handler()
	a.Log.Infow("web editor listening", "addr", "http://"+a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the web server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Handler installs middleware and routes once and returns the HTTP handler.
func (a *App) Handler() http.Handler {
	a.routesOnce.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
	})
	return a.Echo
}

// Close releases the watcher and the library database.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
		a.watcher = nil
	}
	if a.Library != nil {
		errs = append(errs, a.Library.Close())
		a.Library = nil
	}
	a.opened = false
	return errors.Join(errs...)
}

// Settings returns a snapshot of the current configuration.
func (a *App) Settings() Config {
	a.settingsMu.RLock()
	defer a.settingsMu.RUnlock()
	return a.Config
}

// UpdateSettings applies fn to a copy of the configuration, writes it to
// config.yaml and only then makes it current. An error from fn or from
// writing leaves the configuration unchanged.
func (a *App) UpdateSettings(fn func(*Config) error) error {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()

	cfg := a.Config
	cfg.Relays.CustomRelays = append([]string(nil), a.Config.Relays.CustomRelays...)
	if err := fn(&cfg); err != nil {
		return err
	}
	if err := SaveConfig(cfg); err != nil {
		return err
	}
	a.Config = cfg
	a.Log.Infow("saved settings", "file", cfg.ConfigFile())
	return nil
}

// Publisher returns a Nostr client signing with the stored credentials.
func (a *App) Publisher() (*publisher.Client, error) {
	creds, err := a.Credentials.Require()
	if err != nil {
		return nil, err
	}
	return a.publisherFor(creds)
}

func (a *App) publisherFor(creds Credentials) (*publisher.Client, error) {
	keys, err := publisher.ParseKeys(creds.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("stored credentials: %w", err)
	}
	return publisher.New(keys,
		publisher.WithRelayTimeout(a.Settings().ConnectTimeout),
		publisher.WithLogger(a.Log.Named("nostr")),
	), nil
}

// Uploader returns a Blossom client for the configured server, signing
// authorizations with the stored credentials.
func (a *App) Uploader() (*blossom.Client, error) {
	pub, err := a.Publisher()
	if err != nil {
		return nil, err
	}
	cfg := a.Settings()
	return blossom.New(cfg.Blossom.ServerURL, pub,
		blossom.WithTimeout(cfg.UploadTimeout),
		blossom.WithLogger(a.Log.Named("blossom")),
	), nil
}
