package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepClock_DefaultStart(t *testing.T) {
	clock := NewStepClock(0, 0)
	assert.Equal(t, DefaultClockStart, clock.Peek().UnixNano())
	assert.Equal(t, DefaultClockStart, clock.Now().UnixNano())
}

func TestStepClock_AdvancesEachReading(t *testing.T) {
	clock := NewStepClock(1000, time.Second)

	assert.Equal(t, int64(1000), clock.Now().UnixNano())
	assert.Equal(t, int64(1000)+int64(time.Second), clock.Now().UnixNano())
	assert.Equal(t, int64(1000)+2*int64(time.Second), clock.Now().UnixNano())
}

func TestStepClock_PeekDoesNotAdvance(t *testing.T) {
	clock := NewStepClock(1000, time.Millisecond)

	assert.Equal(t, clock.Peek(), clock.Peek())
	assert.Equal(t, clock.Peek(), clock.Now())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(5000, time.Second)

	first := clock.Now()
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, first, clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(1, time.Nanosecond)
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	var mu sync.Mutex
	seen := make(map[int64]bool)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				ns := clock.Now().UnixNano()
				mu.Lock()
				seen[ns] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Every reading is unique
	require.Len(t, seen, numGoroutines*callsPerGoroutine)
	assert.Equal(t, int64(1+numGoroutines*callsPerGoroutine), clock.Peek().UnixNano())
}

func TestSequentialIDGenerator(t *testing.T) {
	gen := NewSequentialIDGenerator("req")
	assert.Equal(t, "req-000001", gen.Generate())
	assert.Equal(t, "req-000002", gen.Generate())

	def := NewSequentialIDGenerator("")
	assert.Equal(t, "test-request-000001", def.Generate())
}
