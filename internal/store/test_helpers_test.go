package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// openTestSegment opens a segment or fails the test.
func openTestSegment(t *testing.T, s *Store, id SegmentID, name string) *Segment {
	t.Helper()
	seg, err := s.OpenSegment(context.Background(), id, name)
	if err != nil {
		t.Fatalf("OpenSegment(%d, %q) failed: %v", id, name, err)
	}
	return seg
}

// mustPut writes a single entry in its own transaction.
func mustPut(t *testing.T, s *Store, seg *Segment, key uint64, value string) {
	t.Helper()
	err := s.Update(context.Background(), func(tx *Tx) error {
		return tx.Put(seg, key, []byte(value))
	})
	if err != nil {
		t.Fatalf("Put(%d) failed: %v", key, err)
	}
}
