package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/api"
	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/store"
)

// ledgerFunc runs one ledger operation and returns what should be printed.
type ledgerFunc func(ctx context.Context, svc *ledger.Service) (any, error)

// deletion is printed after a successful delete.
type deletion struct {
	Entity  string `json:"entity"`
	ID      uint64 `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (d deletion) String() string {
	return fmt.Sprintf("deleted %s %d", d.Entity, d.ID)
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *RootOptions) traceID() string {
	if o.TraceIDs == nil {
		return api.UUIDv7Generator{}.Generate()
	}
	return o.TraceIDs.Generate()
}

// runLedger opens the database at opts.DBPath, runs fn once and prints its
// result. Ledger rejections exit with ExitFailure; an unusable database
// exits with ExitCommandError.
//
// Each run gets a fresh trace id, attached to the JSON envelope and to every
// log line of the run.
func runLedger(cmd *cobra.Command, opts *RootOptions, fn ledgerFunc) error {
	out := opts.formatter(cmd)
	out.TraceID = opts.traceID()
	logger := opts.logger().With("trace_id", out.TraceID)
	ctx := cmd.Context()

	out.VerboseLog("%s [trace %s] using %s", cmd.CommandPath(), out.TraceID, opts.DBPath)
	logger.Debug("opening database", "path", opts.DBPath)
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	svc, err := ledger.New(ctx, st, ledger.Options{Logger: logger})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}

	data, err := fn(ctx, svc)
	if err != nil {
		out.VerboseLog("%s [trace %s] failed: %v", cmd.CommandPath(), out.TraceID, err)
		return out.LedgerError(err)
	}
	return out.Success(data)
}

// parseID parses a positional record identifier. Zero is accepted: no record
// ever holds it, so the ledger answers NOT_FOUND.
func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q: must be an unsigned integer", arg))
	}
	return id, nil
}

// idCommand builds a subcommand taking a single <id> argument.
func idCommand(opts *RootOptions, use, short string, fn func(ctx context.Context, svc *ledger.Service, id uint64) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runLedger(cmd, opts, func(ctx context.Context, svc *ledger.Service) (any, error) {
				return fn(ctx, svc, id)
			})
		},
	}
}

// deleteCommand builds "<entity> delete <id>".
func deleteCommand(opts *RootOptions, entity string, del func(ctx context.Context, svc *ledger.Service, id uint64) error) *cobra.Command {
	return idCommand(opts, "delete", "Delete a "+entity, func(ctx context.Context, svc *ledger.Service, id uint64) (any, error) {
		if err := del(ctx, svc, id); err != nil {
			return nil, err
		}
		return deletion{Entity: entity, ID: id, Deleted: true}, nil
	})
}

// listCommand builds "<entity> list".
func listCommand(opts *RootOptions, short string, fn ledgerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedger(cmd, opts, fn)
		},
	}
}
