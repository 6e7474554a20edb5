// Package ident allocates entity identifiers from one persistent counter.
//
// Every entity kind draws from the same counter, so identifiers are unique
// across all collections jointly, not per collection. The counter lives in
// its own store segment and is never rewound: a deleted identifier is never
// handed out again.
package ident

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/roach88/rxtrace/internal/store"
)

// counterKey is the single key used inside the counter segment.
const counterKey uint64 = 0

// ErrExhausted is returned when the counter has reached math.MaxUint64.
var ErrExhausted = errors.New("identifier space exhausted")

// Allocator hands out strictly increasing identifiers.
//
// The first identifier is 1. Each call to Next returns the previous value + 1
// and writes it back in the same transaction, so the new value is durable as
// soon as the transaction commits.
type Allocator struct {
	store   *store.Store
	segment *store.Segment
}

// New creates an allocator over the given counter segment.
func New(st *store.Store, segment *store.Segment) *Allocator {
	return &Allocator{store: st, segment: segment}
}

// Next increments the counter inside tx and returns the new value.
// The value is only persisted if tx commits.
func (a *Allocator) Next(tx *store.Tx) (uint64, error) {
	current, err := a.Peek(tx)
	if err != nil {
		return 0, err
	}
	if current == math.MaxUint64 {
		return 0, ErrExhausted
	}

	next := current + 1
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], next)
	if err := tx.Put(a.segment, counterKey, buf[:]); err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return next, nil
}

// NextID allocates one identifier in its own transaction.
// A successful return means the new counter value has been committed.
func (a *Allocator) NextID(ctx context.Context) (uint64, error) {
	var id uint64
	err := a.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		id, err = a.Next(tx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Current returns the last allocated identifier without incrementing.
// Returns 0 if nothing has been allocated yet.
func (a *Allocator) Current(ctx context.Context) (uint64, error) {
	var current uint64
	err := a.store.View(ctx, func(tx *store.Tx) error {
		var err error
		current, err = a.Peek(tx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return current, nil
}

// Peek returns the last allocated identifier as seen by tx.
func (a *Allocator) Peek(tx *store.Tx) (uint64, error) {
	raw, ok, err := tx.Get(a.segment, counterKey)
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	if !ok {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("read counter: malformed value of %d bytes", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
