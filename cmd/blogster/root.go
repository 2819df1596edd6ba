package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/blogster"
	"github.com/eringen/blogster/logger"
)

type globalFlags struct {
	configDir string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "blogster",
		Short: "Write Markdown posts and publish them to Nostr",
		Long: `blogster keeps Markdown blog posts with YAML frontmatter on disk and
publishes them to Nostr relays as long-form (NIP-23) events. Images are
uploaded to a Blossom media server. Keys are stored in the OS keyring.

Run 'blogster serve' for the web editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "Configuration directory (default: <user config dir>/blogster)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn, or log_level from config for serve)")

	root.AddCommand(
		newServeCmd(flags),
		newNewCmd(flags),
		newListCmd(flags),
		newShowCmd(flags),
		newEditCmd(flags),
		newDeleteCmd(flags),
		newImportCmd(flags),
		newExportCmd(flags),
		newPublishCmd(flags),
		newUploadCmd(flags),
		newKeysCmd(flags),
		newProfileCmd(flags),
		newRelaysCmd(flags),
		newBlossomCmd(flags),
		newHistoryCmd(flags),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}

// openApp loads the configuration and opens the App. Callers must Close it.
func openApp(flags *globalFlags, defaultLevel string) (*blogster.App, error) {
	cfg, err := blogster.LoadConfig(flags.configDir)
	if err != nil {
		return nil, err
	}
	level := flags.logLevel
	if level == "" {
		level = defaultLevel
	}
	if level == "" {
		level = cfg.LogLevel
	}
	a := blogster.New(cfg, blogster.WithLogger(logger.New(level)))
	if err := a.Open(); err != nil {
		return nil, err
	}
	return a, nil
}

// withApp runs fn against an opened App at warn level and closes it after.
func withApp(flags *globalFlags, fn func(a *blogster.App) error) error {
	a, err := openApp(flags, logger.WarnLevel)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
