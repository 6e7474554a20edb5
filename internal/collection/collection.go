// Package collection provides ordered maps from u64 identifiers to records,
// each backed by one store segment.
package collection

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
)

// ErrNotFound is returned by Get when the identifier is absent.
var ErrNotFound = errors.New("not found")

// recordPtr constrains P to a pointer to T that can decode itself.
type recordPtr[T any] interface {
	*T
	model.Record
	encoding.BinaryUnmarshaler
}

// Collection is an ordered map from identifier to record T.
// All access happens inside a store transaction.
type Collection[T any, P recordPtr[T]] struct {
	name    string
	segment *store.Segment
}

// New binds a collection to segment.
func New[T any, P recordPtr[T]](name string, segment *store.Segment) *Collection[T, P] {
	return &Collection[T, P]{name: name, segment: segment}
}

// Name returns the collection name.
func (c *Collection[T, P]) Name() string { return c.name }

// Insert stores rec under id, replacing any existing record.
// Fails with model.ErrRecordTooLarge if the encoding exceeds the record's MaxSize.
func (c *Collection[T, P]) Insert(tx *store.Tx, id uint64, rec T) error {
	data, err := P(&rec).MarshalBinary()
	if err != nil {
		return fmt.Errorf("insert %s %d: %w", c.name, id, err)
	}
	if err := tx.Put(c.segment, id, data); err != nil {
		return fmt.Errorf("insert %s %d: %w", c.name, id, err)
	}
	return nil
}

// Get returns the record stored under id, or ErrNotFound.
func (c *Collection[T, P]) Get(tx *store.Tx, id uint64) (T, error) {
	var rec T
	data, ok, err := tx.Get(c.segment, id)
	if err != nil {
		return rec, fmt.Errorf("get %s %d: %w", c.name, id, err)
	}
	if !ok {
		return rec, ErrNotFound
	}
	if err := P(&rec).UnmarshalBinary(data); err != nil {
		return rec, fmt.Errorf("get %s %d: %w", c.name, id, err)
	}
	return rec, nil
}

// Exists reports whether id is present without decoding the record.
func (c *Collection[T, P]) Exists(tx *store.Tx, id uint64) (bool, error) {
	_, ok, err := tx.Get(c.segment, id)
	if err != nil {
		return false, fmt.Errorf("exists %s %d: %w", c.name, id, err)
	}
	return ok, nil
}

// Remove deletes id and reports whether it was present.
func (c *Collection[T, P]) Remove(tx *store.Tx, id uint64) (bool, error) {
	removed, err := tx.Delete(c.segment, id)
	if err != nil {
		return false, fmt.Errorf("remove %s %d: %w", c.name, id, err)
	}
	return removed, nil
}

// Scan calls fn for each record in ascending identifier order.
func (c *Collection[T, P]) Scan(tx *store.Tx, fn func(id uint64, rec T) error) error {
	return tx.Scan(c.segment, func(id uint64, data []byte) error {
		var rec T
		if err := P(&rec).UnmarshalBinary(data); err != nil {
			return fmt.Errorf("scan %s %d: %w", c.name, id, err)
		}
		return fn(id, rec)
	})
}

// Filter returns the records for which keep returns true, in identifier order.
// A nil keep returns every record. The result is never nil.
func (c *Collection[T, P]) Filter(tx *store.Tx, keep func(T) bool) ([]T, error) {
	out := []T{}
	err := c.Scan(tx, func(_ uint64, rec T) error {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// All returns every record in identifier order.
func (c *Collection[T, P]) All(tx *store.Tx) ([]T, error) {
	return c.Filter(tx, nil)
}

// Len returns the number of records.
func (c *Collection[T, P]) Len(tx *store.Tx) (int, error) {
	return tx.Count(c.segment)
}
