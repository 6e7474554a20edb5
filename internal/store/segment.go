package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
)

// SegmentID addresses a segment. Ids are stable across restarts.
type SegmentID uint8

// Segment is a handle to one independently addressed region of the store.
// Handles are obtained from Store.OpenSegment and used with a Tx.
type Segment struct {
	id    SegmentID
	name  string
	store *Store
}

// ID returns the segment id.
func (g *Segment) ID() SegmentID { return g.id }

// Name returns the name the segment was registered under.
func (g *Segment) Name() string { return g.name }

// ErrReadOnly is returned when a write is attempted inside View.
var ErrReadOnly = errors.New("write in read-only transaction")

// Tx is a transaction scope over the store's segments.
// A Tx is only valid inside the Update or View callback that created it.
type Tx struct {
	ctx      context.Context
	tx       *sql.Tx
	store    *Store
	writable bool
}

// Context returns the context the transaction was started with.
func (t *Tx) Context() context.Context { return t.ctx }

// Get returns the value stored under key, and whether it exists.
func (t *Tx) Get(seg *Segment, key uint64) ([]byte, bool, error) {
	if err := t.check(seg, false); err != nil {
		return nil, false, err
	}

	var value []byte
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT value FROM entries
		WHERE segment_id = ? AND key = ?
	`, int64(seg.id), encodeKey(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%d: %w", seg.name, key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any existing value.
func (t *Tx) Put(seg *Segment, key uint64, value []byte) error {
	if err := t.check(seg, true); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO entries (segment_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(segment_id, key) DO UPDATE SET value = excluded.value
	`, int64(seg.id), encodeKey(key), value)
	if err != nil {
		return fmt.Errorf("put %s/%d: %w", seg.name, key, err)
	}
	return nil
}

// Delete removes key and reports whether it was present.
func (t *Tx) Delete(seg *Segment, key uint64) (bool, error) {
	if err := t.check(seg, true); err != nil {
		return false, err
	}

	result, err := t.tx.ExecContext(t.ctx, `
		DELETE FROM entries
		WHERE segment_id = ? AND key = ?
	`, int64(seg.id), encodeKey(key))
	if err != nil {
		return false, fmt.Errorf("delete %s/%d: %w", seg.name, key, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s/%d: rows affected: %w", seg.name, key, err)
	}
	return n > 0, nil
}

// Scan calls fn for every entry of seg in ascending key order.
// Returning an error from fn stops the scan and returns that error.
func (t *Tx) Scan(seg *Segment, fn func(key uint64, value []byte) error) error {
	if err := t.check(seg, false); err != nil {
		return err
	}

	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT key, value FROM entries
		WHERE segment_id = ?
		ORDER BY key ASC
	`, int64(seg.id))
	if err != nil {
		return fmt.Errorf("scan %s: %w", seg.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rawKey []byte
			value  []byte
		)
		if err := rows.Scan(&rawKey, &value); err != nil {
			return fmt.Errorf("scan %s: %w", seg.name, err)
		}
		key, err := decodeKey(rawKey)
		if err != nil {
			return fmt.Errorf("scan %s: %w", seg.name, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", seg.name, err)
	}
	return nil
}

// Count returns the number of entries in seg.
func (t *Tx) Count(seg *Segment) (int, error) {
	if err := t.check(seg, false); err != nil {
		return 0, err
	}

	var n int
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT COUNT(*) FROM entries WHERE segment_id = ?
	`, int64(seg.id)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", seg.name, err)
	}
	return n, nil
}

func (t *Tx) check(seg *Segment, write bool) error {
	if seg == nil {
		return errors.New("nil segment")
	}
	if seg.store != t.store {
		return fmt.Errorf("segment %q belongs to another store", seg.name)
	}
	if write && !t.writable {
		return ErrReadOnly
	}
	return nil
}

// encodeKey returns key as 8 big-endian bytes.
func encodeKey(key uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	return buf[:]
}

func decodeKey(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, fmt.Errorf("malformed key of %d bytes", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
