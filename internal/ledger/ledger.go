// Package ledger implements the pharmaceutical supply-chain operations.
//
// A Service owns the identifier allocator and the four entity collections
// (users, pharmaceuticals, supply-chain events, rewards), each in its own
// store segment:
//
//	0 counter | 1 users | 2 pharmaceuticals | 3 supply_chain_events | 4 rewards
//
// Every operation validates its payload before touching the store, then runs
// all of its reads and writes in one store transaction while holding the
// service lock. Either the full effect of an operation is applied, including
// the event+reward pair written by CreateEvent, or none of it is.
//
// References between entities are checked once, at creation. Deletes never
// cascade, so a pharmaceutical may outlive its owner and events may outlive
// their pharmaceutical.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/rxtrace/internal/collection"
	"github.com/roach88/rxtrace/internal/ident"
	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
)

// Segment ids. These are part of the on-disk layout and must not change.
const (
	SegmentCounter         store.SegmentID = 0
	SegmentUsers           store.SegmentID = 1
	SegmentPharmaceuticals store.SegmentID = 2
	SegmentEvents          store.SegmentID = 3
	SegmentRewards         store.SegmentID = 4
)

// EventRewardPoints is the fixed award for logging a supply-chain event.
const EventRewardPoints uint32 = 10

// Clock supplies the time stamped on supply-chain events.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Service. The zero value is usable.
type Options struct {
	// Clock stamps event dates. Defaults to the system clock.
	Clock Clock

	// Logger receives debug logs for every mutation. Defaults to discard.
	Logger *slog.Logger

	// Registerer receives ledger metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

// Service runs the domain operations against one store.
//
// Thread-safety: all methods are safe for concurrent use. Mutations are
// serialized by a single lock that also covers identifier allocation.
type Service struct {
	mu sync.RWMutex

	store   *store.Store
	ids     *ident.Allocator
	users   *collection.Collection[model.User, *model.User]
	pharmas *collection.Collection[model.Pharmaceutical, *model.Pharmaceutical]
	events  *collection.Collection[model.SupplyChainEvent, *model.SupplyChainEvent]
	rewards *collection.Collection[model.Reward, *model.Reward]

	clock   Clock
	logger  *slog.Logger
	metrics *ledgerMetrics
}

// New opens the ledger's segments in st and returns a Service.
// Safe to call on a store that already holds ledger data.
func New(ctx context.Context, st *store.Store, opts Options) (*Service, error) {
	open := func(id store.SegmentID, name string) (*store.Segment, error) {
		seg, err := st.OpenSegment(ctx, id, name)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		return seg, nil
	}

	counterSeg, err := open(SegmentCounter, "counter")
	if err != nil {
		return nil, err
	}
	usersSeg, err := open(SegmentUsers, "users")
	if err != nil {
		return nil, err
	}
	pharmaSeg, err := open(SegmentPharmaceuticals, "pharmaceuticals")
	if err != nil {
		return nil, err
	}
	eventsSeg, err := open(SegmentEvents, "supply_chain_events")
	if err != nil {
		return nil, err
	}
	rewardsSeg, err := open(SegmentRewards, "rewards")
	if err != nil {
		return nil, err
	}

	m, err := newLedgerMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("open ledger: register metrics: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		store:   st,
		ids:     ident.New(st, counterSeg),
		users:   collection.New[model.User]("users", usersSeg),
		pharmas: collection.New[model.Pharmaceutical]("pharmaceuticals", pharmaSeg),
		events:  collection.New[model.SupplyChainEvent]("supply_chain_events", eventsSeg),
		rewards: collection.New[model.Reward]("rewards", rewardsSeg),
		clock:   clock,
		logger:  logger,
		metrics: m,
	}, nil
}

// LastID returns the most recently allocated identifier (0 if none).
func (s *Service) LastID(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ids.Current(ctx)
}

// update runs fn in a write transaction. The caller must hold s.mu.
func (s *Service) update(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	if err := s.store.Update(ctx, fn); err != nil {
		return storageError(op, err)
	}
	return nil
}

// view runs fn in a read transaction. The caller must hold s.mu.
func (s *Service) view(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	if err := s.store.View(ctx, fn); err != nil {
		return storageError(op, err)
	}
	return nil
}

// track records the outcome of op. Use as: defer s.track(op, time.Now(), &err).
func (s *Service) track(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	s.metrics.observe(op, err, time.Since(start))
	if err != nil {
		s.logger.Debug("operation failed", "op", op, "error", err)
	}
}

// now returns the clock reading as u64 nanoseconds, clamped at zero.
func (s *Service) now() uint64 {
	ns := s.clock.Now().UnixNano()
	if ns < 0 {
		return 0
	}
	return uint64(ns)
}

// nonEmptyList converts an empty result into a NOT_FOUND error.
func nonEmptyList[T any](items []T, entity, msg string) ([]T, error) {
	if len(items) == 0 {
		return nil, notFound(entity, 0, msg)
	}
	return items, nil
}
