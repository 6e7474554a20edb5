package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
)

// operation runs one ledger call with decoded args.
type operation func(ctx context.Context, svc *ledger.Service, args map[string]any) (any, error)

type idArgs struct {
	ID uint64 `json:"id"`
}

type roleArgs struct {
	Role model.Role `json:"role"`
}

type updateRoleArgs struct {
	ID   uint64     `json:"id"`
	Role model.Role `json:"role"`
}

// operations maps scenario op names to ledger calls.
var operations = map[string]operation{
	"create_user": withArgs(func(ctx context.Context, svc *ledger.Service, p model.UserPayload) (any, error) {
		return svc.CreateUser(ctx, p)
	}),
	"update_user_role": withArgs(func(ctx context.Context, svc *ledger.Service, a updateRoleArgs) (any, error) {
		return svc.UpdateUserRole(ctx, a.ID, a.Role)
	}),
	"delete_user": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return nil, svc.DeleteUser(ctx, a.ID)
	}),
	"get_user": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return svc.GetUser(ctx, a.ID)
	}),
	"users_by_role": withArgs(func(ctx context.Context, svc *ledger.Service, a roleArgs) (any, error) {
		return svc.UsersByRole(ctx, a.Role)
	}),

	"create_pharmaceutical": withArgs(func(ctx context.Context, svc *ledger.Service, p model.PharmaceuticalPayload) (any, error) {
		return svc.CreatePharmaceutical(ctx, p)
	}),
	"delete_pharmaceutical": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return nil, svc.DeletePharmaceutical(ctx, a.ID)
	}),
	"get_pharmaceutical": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return svc.GetPharmaceutical(ctx, a.ID)
	}),
	"list_pharmaceuticals": noArgs(func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.ListPharmaceuticals(ctx)
	}),
	"pharmaceutical_history": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return svc.PharmaceuticalHistory(ctx, a.ID)
	}),

	"create_event": withArgs(func(ctx context.Context, svc *ledger.Service, p model.EventPayload) (any, error) {
		return svc.CreateEvent(ctx, p)
	}),
	"delete_event": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return nil, svc.DeleteEvent(ctx, a.ID)
	}),
	"get_event": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return svc.GetEvent(ctx, a.ID)
	}),
	"list_events": noArgs(func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.ListEvents(ctx)
	}),

	"create_reward": withArgs(func(ctx context.Context, svc *ledger.Service, p model.RewardPayload) (any, error) {
		return svc.CreateReward(ctx, p)
	}),
	"delete_reward": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return nil, svc.DeleteReward(ctx, a.ID)
	}),
	"get_reward": withArgs(func(ctx context.Context, svc *ledger.Service, a idArgs) (any, error) {
		return svc.GetReward(ctx, a.ID)
	}),
	"list_rewards": noArgs(func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.ListRewards(ctx)
	}),

	"stats": noArgs(func(ctx context.Context, svc *ledger.Service) (any, error) {
		return svc.Stats(ctx)
	}),
}

// withArgs adapts a typed call by decoding the YAML args into A.
func withArgs[A any](fn func(ctx context.Context, svc *ledger.Service, args A) (any, error)) operation {
	return func(ctx context.Context, svc *ledger.Service, raw map[string]any) (any, error) {
		var args A
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return fn(ctx, svc, args)
	}
}

func noArgs(fn func(ctx context.Context, svc *ledger.Service) (any, error)) operation {
	return func(ctx context.Context, svc *ledger.Service, raw map[string]any) (any, error) {
		if len(raw) > 0 {
			return nil, &argsError{fmt.Errorf("takes no args")}
		}
		return fn(ctx, svc)
	}
}

// argsError marks a malformed step rather than a ledger failure.
type argsError struct{ err error }

func (e *argsError) Error() string { return "invalid args: " + e.err.Error() }
func (e *argsError) Unwrap() error { return e.err }

// decodeArgs converts YAML-parsed args into a typed payload through JSON,
// rejecting unknown fields.
func decodeArgs(raw map[string]any, v any) error {
	if raw == nil {
		raw = map[string]any{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return &argsError{err}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &argsError{err}
	}
	return nil
}
