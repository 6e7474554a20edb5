package store

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestTx_PutGet(t *testing.T) {
	s := createTestStore(t)
	seg := openTestSegment(t, s, 1, "users")

	mustPut(t, s, seg, 7, "seven")

	err := s.View(context.Background(), func(tx *Tx) error {
		value, ok, err := tx.Get(seg, 7)
		if err != nil {
			return err
		}
		if !ok {
			t.Fatal("Get(7) not found")
		}
		if string(value) != "seven" {
			t.Errorf("Get(7) = %q, want %q", value, "seven")
		}

		_, ok, err = tx.Get(seg, 8)
		if err != nil {
			return err
		}
		if ok {
			t.Error("Get(8) found a key that was never written")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func TestTx_PutOverwrites(t *testing.T) {
	s := createTestStore(t)
	seg := openTestSegment(t, s, 1, "users")

	mustPut(t, s, seg, 1, "old")
	mustPut(t, s, seg, 1, "new")

	err := s.View(context.Background(), func(tx *Tx) error {
		value, _, err := tx.Get(seg, 1)
		if err != nil {
			return err
		}
		if string(value) != "new" {
			t.Errorf("Get(1) = %q, want %q", value, "new")
		}
		n, err := tx.Count(seg)
		if err != nil {
			return err
		}
		if n != 1 {
			t.Errorf("Count() = %d, want 1", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func TestTx_Delete(t *testing.T) {
	s := createTestStore(t)
	seg := openTestSegment(t, s, 1, "users")
	mustPut(t, s, seg, 1, "x")

	err := s.Update(context.Background(), func(tx *Tx) error {
		removed, err := tx.Delete(seg, 1)
		if err != nil {
			return err
		}
		if !removed {
			t.Error("Delete(1) = false, want true")
		}

		removed, err = tx.Delete(seg, 1)
		if err != nil {
			return err
		}
		if removed {
			t.Error("second Delete(1) = true, want false")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
}

func TestTx_ScanAscendingUnsigned(t *testing.T) {
	s := createTestStore(t)
	seg := openTestSegment(t, s, 1, "users")

	// Keys above MaxInt64 must sort after small keys.
	keys := []uint64{math.MaxUint64, 300, 1, math.MaxInt64 + 1, 2}
	for _, k := range keys {
		mustPut(t, s, seg, k, "v")
	}

	var got []uint64
	err := s.View(context.Background(), func(tx *Tx) error {
		return tx.Scan(seg, func(key uint64, _ []byte) error {
			got = append(got, key)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	want := []uint64{1, 2, 300, math.MaxInt64 + 1, math.MaxUint64}
	if len(got) != len(want) {
		t.Fatalf("Scan() returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTx_ScanStopsOnError(t *testing.T) {
	s := createTestStore(t)
	seg := openTestSegment(t, s, 1, "users")
	mustPut(t, s, seg, 1, "a")
	mustPut(t, s, seg, 2, "b")

	stop := errors.New("stop")
	calls := 0
	err := s.View(context.Background(), func(tx *Tx) error {
		return tx.Scan(seg, func(uint64, []byte) error {
			calls++
			return stop
		})
	})
	if !errors.Is(err, stop) {
		t.Errorf("Scan() error = %v, want stop", err)
	}
	if calls != 1 {
		t.Errorf("callback called %d times, want 1", calls)
	}
}

func TestSegments_DoNotOverlap(t *testing.T) {
	s := createTestStore(t)
	users := openTestSegment(t, s, 1, "users")
	rewards := openTestSegment(t, s, 4, "rewards")

	mustPut(t, s, users, 1, "user")
	mustPut(t, s, rewards, 1, "reward")

	err := s.View(context.Background(), func(tx *Tx) error {
		u, _, err := tx.Get(users, 1)
		if err != nil {
			return err
		}
		r, _, err := tx.Get(rewards, 1)
		if err != nil {
			return err
		}
		if string(u) != "user" || string(r) != "reward" {
			t.Errorf("segments overlap: users=%q rewards=%q", u, r)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	s := createTestStore(t)
	seg := openTestSegment(t, s, 1, "users")

	boom := errors.New("boom")
	err := s.Update(context.Background(), func(tx *Tx) error {
		if err := tx.Put(seg, 1, []byte("a")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	err = s.View(context.Background(), func(tx *Tx) error {
		_, ok, err := tx.Get(seg, 1)
		if err != nil {
			return err
		}
		if ok {
			t.Error("write from rolled-back transaction is visible")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func TestView_RejectsWrites(t *testing.T) {
	s := createTestStore(t)
	seg := openTestSegment(t, s, 1, "users")

	err := s.View(context.Background(), func(tx *Tx) error {
		return tx.Put(seg, 1, []byte("a"))
	})
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("Put in View: got %v, want ErrReadOnly", err)
	}
}

func TestTx_ForeignSegment(t *testing.T) {
	s1 := createTestStore(t)
	s2 := createTestStore(t)
	seg := openTestSegment(t, s2, 1, "users")

	err := s1.Update(context.Background(), func(tx *Tx) error {
		return tx.Put(seg, 1, []byte("a"))
	})
	if err == nil {
		t.Error("expected error using a segment from another store")
	}
}
