// Package cli implements stockctl, the command-line client of the stock manager.
package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/fekuna/stockmanager/config"
	"github.com/spf13/cobra"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	ValidFormats  = []string{FormatText, FormatJSON}
	ValidStorages = []string{"file", "redis", "memory"}
)

// RootOptions holds the global flags. Defaults come from the environment config.
type RootOptions struct {
	Format      string
	Verbose     bool
	BaseURL     string
	Timeout     time.Duration
	Storage     string
	FallbackDir string
	FallbackKey string
	Locale      string
	LocaleFiles []string
	Debounce    time.Duration
	Redis       config.RedisConfig
}

func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{Redis: cfg.Redis}

	cmd := &cobra.Command{
		Use:   "stockctl",
		Short: "Manage stock items from the command line",
		Long: `stockctl talks to the stock manager API. When the API is unreachable, items are
kept in a local fallback store and listed from there until the API answers again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !slices.Contains(ValidStorages, opts.Storage) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid storage %q: must be one of %v", opts.Storage, ValidStorages))
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Format, "format", FormatText, "output format (json|text)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	pf.StringVar(&opts.BaseURL, "api", cfg.Client.APIBaseURL, "item API base URL")
	pf.DurationVar(&opts.Timeout, "timeout", cfg.Client.Timeout, "per-request timeout, 0 for none")
	pf.StringVar(&opts.Storage, "storage", cfg.Client.FallbackStorage, "fallback storage (file|redis|memory)")
	pf.StringVar(&opts.FallbackDir, "dir", cfg.Client.FallbackDir, "directory of the file fallback storage")
	pf.StringVar(&opts.FallbackKey, "key", cfg.Client.FallbackKey, "fallback storage key")
	pf.StringVar(&opts.Locale, "locale", cfg.Client.Locale, "language of notices")
	pf.StringSliceVar(&opts.LocaleFiles, "locale-file", cfg.Client.LocaleFiles, "extra message files")
	pf.DurationVar(&opts.Debounce, "debounce", cfg.Client.RefreshDebounce, "window in which refresh signals after an own write are ignored")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}
