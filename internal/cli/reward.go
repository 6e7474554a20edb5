package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
)

// NewRewardCommand creates the reward command group.
func NewRewardCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Manage participant rewards",
	}

	cmd.AddCommand(newRewardCreateCommand(opts))
	cmd.AddCommand(deleteCommand(opts, "reward", func(ctx context.Context, svc *ledger.Service, id uint64) error {
		return svc.DeleteReward(ctx, id)
	}))
	cmd.AddCommand(idCommand(opts, "get", "Show a reward", func(ctx context.Context, svc *ledger.Service, id uint64) (any, error) {
		return svc.GetReward(ctx, id)
	}))
	cmd.AddCommand(listCommand(opts, "List all rewards", func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.ListRewards(ctx)
	}))

	return cmd
}

func newRewardCreateCommand(opts *RootOptions) *cobra.Command {
	var p model.RewardPayload
	var rewardType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Grant points to a participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.RewardType = model.RewardType(rewardType)
			return runLedger(cmd, opts, func(ctx context.Context, svc *ledger.Service) (any, error) {
				return svc.CreateReward(ctx, p)
			})
		},
	}

	cmd.Flags().StringVar(&p.Participant, "participant", "", "who receives the points")
	cmd.Flags().Uint32Var(&p.Points, "points", 0, "number of points")
	cmd.Flags().StringVar(&rewardType, "type", "", "reward type (SupplyChainEvent|Other, default SupplyChainEvent)")

	return cmd
}
