package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/api"
	"github.com/roach88/rxtrace/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DBPath  string

	// Config is loaded once before any subcommand runs. Flags that were set
	// explicitly take precedence over it.
	Config config.Config

	// Logger writes to the command's stderr at Config.LogLevel, or Debug
	// with --verbose.
	Logger *slog.Logger

	// TraceIDs generates the trace_id of each ledger command. Defaults to
	// api.UUIDv7Generator.
	TraceIDs api.RequestIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rxtrace CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rxtrace",
		Short: "rxtrace - pharmaceutical supply-chain ledger",
		Long: `A durable ledger for pharmaceutical supply chains.

Users, pharmaceutical batches, supply-chain events and participant rewards
are stored in a single SQLite file and can be managed from the command line
or served over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load configuration", err)
			}
			opts.Config = cfg
			if !cmd.Flags().Changed("db") {
				opts.DBPath = cfg.DBPath
			}

			level := cfg.LogLevel
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", config.DefaultDB, "path to SQLite database (env "+config.EnvDB+")")

	// Add subcommands
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewPharmaCommand(opts))
	cmd.AddCommand(NewEventCommand(opts))
	cmd.AddCommand(NewRewardCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
