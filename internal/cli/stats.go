package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/ledger"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts and the last allocated id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedger(cmd, opts, func(ctx context.Context, svc *ledger.Service) (any, error) {
				return svc.Stats(ctx)
			})
		},
	}
}
