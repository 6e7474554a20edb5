package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator generates predictable request identifiers.
//
// This enables deterministic HTTP tests: the Nth request handled by a server
// using this generator always carries the same X-Request-ID.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator producing prefix-000001,
// prefix-000002, ... If prefix is empty, "test-request" is used.
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "test-request"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next identifier.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%06d", g.prefix, g.n)
}
