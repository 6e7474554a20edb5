package ledger

import (
	"context"
	"time"

	"github.com/roach88/rxtrace/internal/store"
)

// Stats summarizes the ledger's contents.
type Stats struct {
	Users             int    `json:"users"`
	Pharmaceuticals   int    `json:"pharmaceuticals"`
	SupplyChainEvents int    `json:"supply_chain_events"`
	Rewards           int    `json:"rewards"`
	LastID            uint64 `json:"last_id"`
}

// Stats counts the records in each collection and reports the last allocated
// identifier, all from one consistent snapshot. Unlike the list operations it
// never fails on an empty ledger.
func (s *Service) Stats(ctx context.Context) (stats Stats, err error) {
	defer s.track("stats", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.view(ctx, "stats", func(tx *store.Tx) error {
		var err error
		if stats.Users, err = s.users.Len(tx); err != nil {
			return err
		}
		if stats.Pharmaceuticals, err = s.pharmas.Len(tx); err != nil {
			return err
		}
		if stats.SupplyChainEvents, err = s.events.Len(tx); err != nil {
			return err
		}
		if stats.Rewards, err = s.rewards.Len(tx); err != nil {
			return err
		}
		stats.LastID, err = s.ids.Peek(tx)
		return err
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}
