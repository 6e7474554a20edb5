package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
)

// NewPharmaCommand creates the pharma command group.
func NewPharmaCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pharma",
		Short: "Manage pharmaceutical batches",
		Long: `Manage pharmaceutical batches.

The owner passed to create must be an existing Admin user. Expiry dates are
nanoseconds since the Unix epoch and are recorded as given.

Examples:
  rxtrace pharma create --owner 1 --name Aspirin --manufacturer Acme --batch B1 --expiry 1900000000000000000
  rxtrace pharma history 2`,
	}

	cmd.AddCommand(newPharmaCreateCommand(opts))
	cmd.AddCommand(deleteCommand(opts, "pharmaceutical", func(ctx context.Context, svc *ledger.Service, id uint64) error {
		return svc.DeletePharmaceutical(ctx, id)
	}))
	cmd.AddCommand(idCommand(opts, "get", "Show a pharmaceutical", func(ctx context.Context, svc *ledger.Service, id uint64) (any, error) {
		return svc.GetPharmaceutical(ctx, id)
	}))
	cmd.AddCommand(listCommand(opts, "List all pharmaceuticals", func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.ListPharmaceuticals(ctx)
	}))
	cmd.AddCommand(idCommand(opts, "history", "List the supply-chain events of a pharmaceutical", func(ctx context.Context, svc *ledger.Service, id uint64) (any, error) {
		return svc.PharmaceuticalHistory(ctx, id)
	}))

	return cmd
}

func newPharmaCreateCommand(opts *RootOptions) *cobra.Command {
	var p model.PharmaceuticalPayload

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a pharmaceutical batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedger(cmd, opts, func(ctx context.Context, svc *ledger.Service) (any, error) {
				return svc.CreatePharmaceutical(ctx, p)
			})
		},
	}

	cmd.Flags().Uint64Var(&p.UserID, "owner", 0, "id of the Admin user registering the batch")
	cmd.Flags().StringVar(&p.Name, "name", "", "product name")
	cmd.Flags().StringVar(&p.Manufacturer, "manufacturer", "", "manufacturer")
	cmd.Flags().StringVar(&p.BatchNumber, "batch", "", "batch number")
	cmd.Flags().Uint64Var(&p.ExpiryDate, "expiry", 0, "expiry date (ns since epoch)")

	return cmd
}
