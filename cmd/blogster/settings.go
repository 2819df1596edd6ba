package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eringen/blogster"
)

func newRelaysCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relays",
		Short: "Manage the relays posts are published to",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List default, custom and active relays",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(flags, func(a *blogster.App) error {
					printRelays(cmd, a.Settings().Relays)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <url>",
			Short: "Add a custom relay (ws:// or wss://)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return updateSettings(cmd, flags, "Relay added.", func(cfg *blogster.Config) error {
					return cfg.Relays.Add(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "remove <url>",
			Short: "Remove a custom relay",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return updateSettings(cmd, flags, "Relay removed.", func(cfg *blogster.Config) error {
					if !cfg.Relays.Remove(strings.TrimSpace(args[0])) {
						return errors.New("relay not found")
					}
					return nil
				})
			},
		},
		newRelayToggleCmd(flags, "defaults", "Enable or disable the built-in default relays", func(r *blogster.RelaySettings, on bool) {
			r.UseDefaultRelays = on
		}),
		newRelayToggleCmd(flags, "custom", "Enable or disable the custom relays", func(r *blogster.RelaySettings, on bool) {
			r.UseCustomRelays = on
		}),
	)
	return cmd
}

func newRelayToggleCmd(flags *globalFlags, use, short string, set func(*blogster.RelaySettings, bool)) *cobra.Command {
	return &cobra.Command{
		Use:       use + " on|off",
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return updateSettings(cmd, flags, "Relay settings saved.", func(cfg *blogster.Config) error {
				set(&cfg.Relays, on)
				return nil
			})
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func printRelays(cmd *cobra.Command, r blogster.RelaySettings) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Default relays (%s):\n", enabled(r.UseDefaultRelays))
	for _, u := range blogster.DefaultRelays {
		fmt.Fprintf(w, "  %s\n", u)
	}
	fmt.Fprintf(w, "Custom relays (%s):\n", enabled(r.UseCustomRelays))
	for _, u := range r.CustomRelays {
		fmt.Fprintf(w, "  %s\n", u)
	}
	fmt.Fprintln(w, "Active:")
	for _, u := range r.Active() {
		fmt.Fprintf(w, "  %s\n", u)
	}
	w.Flush()
}

func enabled(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// updateSettings applies fn to the configuration, persists it and prints msg.
func updateSettings(cmd *cobra.Command, flags *globalFlags, msg string, fn func(*blogster.Config) error) error {
	return withApp(flags, func(a *blogster.App) error {
		if err := a.UpdateSettings(fn); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	})
}

func newBlossomCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blossom",
		Short: "Manage the Blossom media server used for image uploads",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the Blossom settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(flags, func(a *blogster.App) error {
					b := a.Settings().Blossom
					width := "original"
					if b.MaxImageWidth > 0 {
						width = strconv.Itoa(b.MaxImageWidth) + "px"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "server:          %s\nmax image width: %s\n", b.ServerURL, width)
					return nil
				})
			},
		},
		newBlossomSetCmd(flags),
	)
	return cmd
}

func newBlossomSetCmd(flags *globalFlags) *cobra.Command {
	var maxWidth int
	cmd := &cobra.Command{
		Use:   "set <server-url>",
		Short: "Set the Blossom server and image width limit",
		Long: `Set the Blossom server. Images wider than --max-width are scaled down
before upload; 0 keeps the original size.

Example:
  blogster blossom set https://blossom.primal.net --max-width 1600`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateSettings(cmd, flags, "Blossom settings saved.", func(cfg *blogster.Config) error {
				width := cfg.Blossom.MaxImageWidth
				if cmd.Flags().Changed("max-width") {
					width = maxWidth
				}
				return cfg.SetBlossom(args[0], width)
			})
		},
	}
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "Scale images down to this width in pixels (0 keeps the original)")
	return cmd
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var (
		uploads bool
		forget  string
	)
	cmd := &cobra.Command{
		Use:   "history [<id>]",
		Short: "Show publish results, optionally for one post",
		Long: `Show relay results of past publishes, newest first. With --uploads the
images uploaded to Blossom are listed instead. --forget drops one upload
from the local list by its sha256; the blob stays on the server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				if forget != "" {
					if err := a.Library.DeleteUpload(forget); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Forgot upload %s\n", forget)
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				defer w.Flush()
				if uploads {
					list, err := a.Library.ListUploads()
					if err != nil {
						return err
					}
					fmt.Fprintln(w, "UPLOADED\tNAME\tSIZE\tSHA256\tURL")
					for _, u := range list {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.UploadedAt, u.Name, blogster.HumanSize(u.Size), u.SHA256, u.URL)
					}
					return nil
				}
				postID := ""
				if len(args) == 1 {
					postID = args[0]
				}
				records, err := a.Library.ListPublishes(postID)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "PUBLISHED\tPOST\tEVENT\tRELAY\tRESULT")
				for _, r := range records {
					result := "ok"
					if !r.OK {
						result = r.Error
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.PublishedAt, r.PostID, shortID(r.EventID), r.Relay, result)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&uploads, "uploads", false, "List uploaded images instead")
	cmd.Flags().StringVar(&forget, "forget", "", "Remove the upload with this sha256 from the list")
	return cmd
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := blogster.LoadConfig(flags.configDir)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, kv := range cfg.Attributes() {
				fmt.Fprintf(w, "%s\t%s\n", kv[0], kv[1])
			}
			return w.Flush()
		},
	})
	return cmd
}
