// Package store provides SQLite-backed durable storage split into segments.
//
// A segment is an independently addressed region of the store identified by a
// small integer. Each segment holds an ordered set of (u64 key, bytes value)
// entries and never overlaps another segment. The store performs no
// interpretation of the bytes it holds; record encoding belongs to callers.
//
// # Layout
//
//   - segments: one row per opened segment (id, name)
//   - entries:  (segment_id, key, value), keyed by segment and key
//
// Keys are stored as 8-byte big-endian blobs so that SQLite's memcmp ordering
// matches unsigned numeric ordering over the whole u64 range. Scans are always
// ORDER BY key ASC.
//
// # Transactions
//
// All reads and writes go through a Tx obtained from Store.Update or
// Store.View. Update commits when its callback returns nil and rolls back
// otherwise, so multi-entry changes are all-or-nothing on disk.
//
// # Database Configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=FULL: a committed transaction survives a crash
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: entries must belong to an opened segment
package store
