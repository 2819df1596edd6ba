package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/blogster"
)

func newKeysCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the Nostr identity stored in the OS keyring",
	}
	cmd.AddCommand(
		newKeysGenerateCmd(flags),
		newKeysImportCmd(flags),
		newKeysShowCmd(flags),
		newKeysDeleteCmd(flags),
	)
	return cmd
}

func newKeysGenerateCmd(flags *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new key pair",
		Long: `Generate a new key pair and store it in the OS keyring. Profile fields
already stored are kept. Replacing an existing key needs --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				if err := checkReplace(a, force); err != nil {
					return err
				}
				creds, err := a.GenerateKeys()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\nBack up your private key with 'blogster keys show --private'.\n", creds.Npub())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing key")
	return cmd
}

func newKeysImportCmd(flags *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import [nsec-or-hex]",
		Short: "Import an existing private key",
		Long: `Import an nsec or 64-character hex private key. Without an argument the
key is read from the first line of stdin, which keeps it out of shell
history.

Example:
  blogster keys import < key.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var priv string
			if len(args) == 1 {
				priv = args[0]
			} else {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				priv = line
			}
			if !blogster.ValidatePrivateKey(strings.TrimSpace(priv)) {
				return errors.New("invalid private key: expected nsec or 64 hex characters")
			}
			return withApp(flags, func(a *blogster.App) error {
				if err := checkReplace(a, force); err != nil {
					return err
				}
				creds, err := a.ImportKeys(priv)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", creds.Npub())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing key")
	return cmd
}

func checkReplace(a *blogster.App, force bool) error {
	if force {
		return nil
	}
	existing, err := a.Credentials.Load()
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("a key is already stored (%s); use --force to replace it", existing.Npub())
	}
	return nil
}

func readLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no private key given")
	}
	return strings.TrimSpace(sc.Text()), nil
}

func newKeysShowCmd(flags *globalFlags) *cobra.Command {
	var private bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored public key and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				creds, err := a.Credentials.Require()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "npub:         %s\n", creds.Npub())
				fmt.Fprintf(out, "pubkey:       %s\n", creds.PublicKey)
				if private {
					fmt.Fprintf(out, "private key:  %s\n", creds.PrivateKey)
				}
				fmt.Fprintf(out, "display name: %s\n", creds.DisplayName)
				fmt.Fprintf(out, "about:        %s\n", creds.About)
				fmt.Fprintf(out, "picture:      %s\n", creds.Picture)
				fmt.Fprintf(out, "nip05:        %s\n", creds.NIP05)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&private, "private", false, "Also print the private key")
	return cmd
}

func newKeysDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored identity from the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				if err := a.DeleteKeys(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted keys.")
				return nil
			})
		},
	}
}

func newProfileCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the Nostr profile (kind 0 metadata)",
	}
	cmd.AddCommand(newProfileSetCmd(flags))
	return cmd
}

func newProfileSetCmd(flags *globalFlags) *cobra.Command {
	var name, about, picture, nip05 string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the profile and publish it to the active relays",
		Long: `Update the stored profile and publish it as kind 0 metadata. Fields not
given keep their stored value.

Example:
  blogster profile set --name "Ada" --about "Writes about relays"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				creds, err := a.Credentials.Require()
				if err != nil {
					return err
				}
				f := cmd.Flags()
				if f.Changed("name") {
					creds.DisplayName = name
				}
				if f.Changed("about") {
					creds.About = about
				}
				if f.Changed("picture") {
					creds.Picture = picture
				}
				if f.Changed("nip05") {
					creds.NIP05 = nip05
				}
				accepted, err := a.UpdateProfile(cmd.Context(), creds)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Profile published to %s\n", strings.Join(accepted, ", "))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&about, "about", "", "About text")
	cmd.Flags().StringVar(&picture, "picture", "", "Picture URL")
	cmd.Flags().StringVar(&nip05, "nip05", "", "NIP-05 identifier")
	return cmd
}
