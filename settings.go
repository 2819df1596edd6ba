package blogster

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogster/views"
)

const settingsURL = "/settings/"

func (a *App) handleSettings(c echo.Context) error {
	cfg := a.Settings()
	s := views.Settings{
		UseDefaults:   cfg.Relays.UseDefaultRelays,
		UseCustom:     cfg.Relays.UseCustomRelays,
		Defaults:      DefaultRelays,
		Custom:        cfg.Relays.CustomRelays,
		Active:        cfg.Relays.Active(),
		BlossomServer: cfg.Blossom.ServerURL,
		MaxImageWidth: cfg.Blossom.MaxImageWidth,
	}
	creds, err := a.Credentials.Load()
	if err != nil {
		addFlash(c, flashError, "Could not read the keyring: "+err.Error())
	} else if creds != nil {
		s.HasKeys = true
		s.PublicKey = creds.PublicKey
		s.Npub = creds.Npub()
		s.DisplayName = creds.DisplayName
		s.About = creds.About
		s.Picture = creds.Picture
		s.NIP05 = creds.NIP05
	}
	return Render(c, views.SettingsPage(a.page(c, "Settings"), s))
}

// updateAndRedirect applies fn to the settings and reports the outcome.
func (a *App) updateAndRedirect(c echo.Context, ok string, fn func(*Config) error) error {
	if err := a.UpdateSettings(fn); err != nil {
		return redirectWith(c, settingsURL, flashError, err.Error())
	}
	return redirectWith(c, settingsURL, flashInfo, ok)
}

func (a *App) handleRelayToggles(c echo.Context) error {
	useDefaults := c.FormValue("use_defaults") != ""
	useCustom := c.FormValue("use_custom") != ""
	return a.updateAndRedirect(c, "Relay selection saved.", func(cfg *Config) error {
		cfg.Relays.UseDefaultRelays = useDefaults
		cfg.Relays.UseCustomRelays = useCustom
		return nil
	})
}

func (a *App) handleRelayAdd(c echo.Context) error {
	relayURL := c.FormValue("url")
	return a.updateAndRedirect(c, "Relay added.", func(cfg *Config) error {
		return cfg.Relays.Add(relayURL)
	})
}

func (a *App) handleRelayRemove(c echo.Context) error {
	relayURL := c.FormValue("url")
	return a.updateAndRedirect(c, "Relay removed.", func(cfg *Config) error {
		if !cfg.Relays.Remove(relayURL) {
			return errors.New("relay not found")
		}
		return nil
	})
}

func (a *App) handleBlossom(c echo.Context) error {
	server := c.FormValue("server_url")
	width := 0
	if v := strings.TrimSpace(c.FormValue("max_image_width")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return redirectWith(c, settingsURL, flashError, "Max image width must be zero or a positive number.")
		}
		width = n
	}
	return a.updateAndRedirect(c, "Blossom settings saved.", func(cfg *Config) error {
		return cfg.SetBlossom(server, width)
	})
}

func (a *App) handleKeysGenerate(c echo.Context) error {
	creds, err := a.GenerateKeys()
	if err != nil {
		return redirectWith(c, settingsURL, flashError, "Could not generate keys: "+err.Error())
	}
	return redirectWith(c, settingsURL, flashInfo, "Generated new keys for "+creds.Npub()+". Back up your private key with `blogster keys show --private`.")
}

func (a *App) handleKeysImport(c echo.Context) error {
	creds, err := a.ImportKeys(c.FormValue("private_key"))
	if err != nil {
		return redirectWith(c, settingsURL, flashError, "Could not import key: "+err.Error())
	}
	return redirectWith(c, settingsURL, flashInfo, "Imported keys for "+creds.Npub()+".")
}

func (a *App) handleKeysDelete(c echo.Context) error {
	if err := a.DeleteKeys(); err != nil {
		return redirectWith(c, settingsURL, flashError, "Could not delete keys: "+err.Error())
	}
	return redirectWith(c, settingsURL, flashInfo, "Keys removed from the keyring.")
}

func (a *App) handleProfile(c echo.Context) error {
	accepted, err := a.UpdateProfile(c.Request().Context(), Credentials{
		DisplayName: c.FormValue("display_name"),
		About:       c.FormValue("about"),
		Picture:     c.FormValue("picture"),
		NIP05:       c.FormValue("nip05"),
	})
	if errors.Is(err, ErrNoCredentials) {
		return redirectWith(c, settingsURL, flashError, "Add or generate Nostr keys first.")
	}
	if errors.Is(err, ErrInvalidImageURL) {
		return redirectWith(c, settingsURL, flashError, "Picture must be an http:// or https:// URL.")
	}
	if err != nil {
		return redirectWith(c, settingsURL, flashError, "Profile saved locally but publishing failed: "+err.Error())
	}
	return redirectWith(c, settingsURL, flashInfo, "Profile published to "+strconv.Itoa(len(accepted))+" relays.")
}
