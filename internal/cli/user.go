package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
)

// NewUserCommand creates the user command group.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long: `Manage ledger users.

Roles are Admin, Manufacturer, Distributor and Viewer (case-insensitive).
Only Admins may register pharmaceuticals.

Examples:
  rxtrace user create --username alice --role admin
  rxtrace user set-role 1 --role viewer
  rxtrace user list --role admin --format json`,
	}

	cmd.AddCommand(newUserCreateCommand(opts))
	cmd.AddCommand(newUserSetRoleCommand(opts))
	cmd.AddCommand(deleteCommand(opts, "user", func(ctx context.Context, svc *ledger.Service, id uint64) error {
		return svc.DeleteUser(ctx, id)
	}))
	cmd.AddCommand(idCommand(opts, "get", "Show a user", func(ctx context.Context, svc *ledger.Service, id uint64) (any, error) {
		return svc.GetUser(ctx, id)
	}))
	cmd.AddCommand(newUserListCommand(opts))

	return cmd
}

func newUserCreateCommand(opts *RootOptions) *cobra.Command {
	var p model.UserPayload
	var role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Role = model.Role(role)
			return runLedger(cmd, opts, func(ctx context.Context, svc *ledger.Service) (any, error) {
				return svc.CreateUser(ctx, p)
			})
		},
	}

	cmd.Flags().StringVar(&p.Username, "username", "", "user name")
	cmd.Flags().StringVar(&role, "role", "", "role (Admin|Manufacturer|Distributor|Viewer)")

	return cmd
}

func newUserSetRoleCommand(opts *RootOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "set-role <id>",
		Short: "Replace a user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runLedger(cmd, opts, func(ctx context.Context, svc *ledger.Service) (any, error) {
				return svc.UpdateUserRole(ctx, id, model.Role(role))
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "new role (Admin|Manufacturer|Distributor|Viewer)")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newUserListCommand(opts *RootOptions) *cobra.Command {
	var role string

	cmd := listCommand(opts, "List users with a role", func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.UsersByRole(ctx, model.Role(role))
	})
	cmd.Flags().StringVar(&role, "role", "", "role to filter by")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
