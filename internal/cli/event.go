package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
)

// NewEventCommand creates the event command group.
func NewEventCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record supply-chain events",
		Long: `Record supply-chain events.

Creating an event also awards the participant 10 points; the reward is a
separate record with the next identifier. Deleting the event keeps the reward.

Examples:
  rxtrace event create --pharma 2 --type transportation --location "Dock 4" --participant bob
  rxtrace event list --format json`,
	}

	cmd.AddCommand(newEventCreateCommand(opts))
	cmd.AddCommand(deleteCommand(opts, "supply_chain_event", func(ctx context.Context, svc *ledger.Service, id uint64) error {
		return svc.DeleteEvent(ctx, id)
	}))
	cmd.AddCommand(idCommand(opts, "get", "Show a supply-chain event", func(ctx context.Context, svc *ledger.Service, id uint64) (any, error) {
		return svc.GetEvent(ctx, id)
	}))
	cmd.AddCommand(listCommand(opts, "List all supply-chain events", func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.ListEvents(ctx)
	}))

	return cmd
}

func newEventCreateCommand(opts *RootOptions) *cobra.Command {
	var p model.EventPayload
	var eventType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a supply-chain event and reward its participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.EventType = model.EventType(eventType)
			return runLedger(cmd, opts, func(ctx context.Context, svc *ledger.Service) (any, error) {
				return svc.CreateEvent(ctx, p)
			})
		},
	}

	cmd.Flags().Uint64Var(&p.PharmaceuticalID, "pharma", 0, "pharmaceutical id")
	cmd.Flags().StringVar(&eventType, "type", "", "event type (Production|Packaging|Storage|Transportation|Delivery, default Production)")
	cmd.Flags().StringVar(&p.Location, "location", "", "where the event happened")
	cmd.Flags().StringVar(&p.Participant, "participant", "", "who performed it")

	return cmd
}
