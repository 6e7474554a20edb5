package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Step: 1, Op: "create_user", Status: StatusOK},
		{Step: 2, Op: "create_pharmaceutical", Status: StatusError, Code: "UNAUTHORIZED"},
		{Step: 3, Op: "create_pharmaceutical", Status: StatusOK},
		{Step: 4, Op: "get_user", Status: StatusError, Code: "NOT_FOUND"},
	}
}

func TestAssertTraceContains(t *testing.T) {
	tests := []struct {
		name    string
		a       Assertion
		wantErr bool
	}{
		{"op only", Assertion{Op: "get_user"}, false},
		{"status filter", Assertion{Op: "create_pharmaceutical", Status: StatusOK}, false},
		{"code filter", Assertion{Op: "create_pharmaceutical", Code: "UNAUTHORIZED"}, false},
		{"missing op", Assertion{Op: "delete_user"}, true},
		{"wrong code", Assertion{Op: "get_user", Code: "INVALID_INPUT"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.a.Type = AssertTraceContains
			err := assertTraceContains(sampleTrace(), tt.a)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ae *AssertionError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, AssertTraceContains, ae.Type)
			assert.Contains(t, ae.Expected, tt.a.Op)
			assert.Equal(t, "not found in trace", ae.Actual)
		})
	}
}

func TestAssertTraceOrder(t *testing.T) {
	err := assertTraceOrder(sampleTrace(), Assertion{Ops: []string{"create_user", "get_user"}})
	assert.NoError(t, err)

	err = assertTraceOrder(sampleTrace(), Assertion{Ops: []string{"get_user", "create_user"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get_user (step 4) should be before create_user (step 1)")

	err = assertTraceOrder(sampleTrace(), Assertion{Ops: []string{"create_user", "stats"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing op: stats")
}

func TestAssertTraceOrder_UsesFirstOccurrence(t *testing.T) {
	trace := []TraceEvent{
		{Step: 1, Op: "list_events"},
		{Step: 2, Op: "create_event"},
		{Step: 3, Op: "list_events"},
	}
	assert.NoError(t, assertTraceOrder(trace, Assertion{Ops: []string{"list_events", "create_event"}}))
	assert.Error(t, assertTraceOrder(trace, Assertion{Ops: []string{"create_event", "list_events"}}))
}

func TestAssertTraceCount(t *testing.T) {
	tests := []struct {
		name    string
		a       Assertion
		wantErr bool
	}{
		{"all outcomes", Assertion{Op: "create_pharmaceutical", Count: intp(2)}, false},
		{"ok only", Assertion{Op: "create_pharmaceutical", Status: StatusOK, Count: intp(1)}, false},
		{"zero", Assertion{Op: "delete_user", Count: intp(0)}, false},
		{"mismatch", Assertion{Op: "create_user", Count: intp(2)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertTraceCount(sampleTrace(), tt.a)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "1 occurrences")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "2 occurrences of create_user",
		Actual:   "1 occurrences",
		Trace:    sampleTrace()[:2],
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_count")
	assert.Contains(t, msg, "Expected: 2 occurrences of create_user")
	assert.Contains(t, msg, "Actual: 1 occurrences")
	assert.Contains(t, msg, "Full trace:")
	assert.Contains(t, msg, "[2] create_pharmaceutical map[] -> error UNAUTHORIZED")
}

// seededLedger returns a ledger holding user 1 (Admin), pharmaceutical 2,
// event 3 and its reward 4.
func seededLedger(t *testing.T) *AssertionContext {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := ledger.New(ctx, st, ledger.Options{})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, model.UserPayload{Username: "alice", Role: model.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.CreatePharmaceutical(ctx, model.PharmaceuticalPayload{
		UserID: 1, Name: "Aspirin", Manufacturer: "Acme", BatchNumber: "B1", ExpiryDate: 999,
	})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, model.EventPayload{PharmaceuticalID: 2, Location: "dock", Participant: "bob"})
	require.NoError(t, err)

	return &AssertionContext{Service: svc, Ctx: ctx}
}

func TestAssertFinalState(t *testing.T) {
	actx := seededLedger(t)

	tests := []struct {
		name    string
		a       Assertion
		wantErr string
	}{
		{"count", Assertion{Collection: "rewards", Count: intp(1)}, ""},
		{"users count", Assertion{Collection: "users", Count: intp(1)}, ""},
		{"count mismatch", Assertion{Collection: "supply_chain_events", Count: intp(2)}, "1 records"},
		{"exists", Assertion{Collection: "pharmaceuticals", ID: 2}, ""},
		{"fields match", Assertion{Collection: "rewards", ID: 4, Expect: map[string]any{"points": 10, "participant": "bob"}}, ""},
		{"enum field", Assertion{Collection: "supply_chain_events", ID: 3, Expect: map[string]any{"event_type": "Production"}}, ""},
		{"field mismatch", Assertion{Collection: "users", ID: 1, Expect: map[string]any{"role": "Viewer"}}, `field "role" = Admin, want Viewer`},
		{"unknown field", Assertion{Collection: "users", ID: 1, Expect: map[string]any{"email": "x"}}, `field "email" not present`},
		{"absent", Assertion{Collection: "users", ID: 9, Absent: true}, ""},
		{"absent but present", Assertion{Collection: "users", ID: 1, Absent: true}, "record exists"},
		{"missing", Assertion{Collection: "rewards", ID: 3}, "record not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.a.Type = AssertFinalState
			err := assertFinalState(actx.Ctx, actx.Service, tt.a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEvaluateAssertions(t *testing.T) {
	actx := seededLedger(t)
	result := &Result{Trace: sampleTrace()}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Op: "create_user"},
		{Type: AssertTraceCount, Op: "get_user", Count: intp(5)},
		{Type: AssertTraceCount, Op: "get_user"},
		{Type: AssertFinalState, Collection: "users", ID: 1},
		{Type: "bogus"},
	}, actx)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "5 occurrences of get_user")
	assert.Contains(t, errs[1], "assertion[2]: trace_count requires count")
	assert.Contains(t, errs[2], `assertion[4]: unknown assertion type "bogus"`)
}

func TestEvaluateAssertions_FinalStateNeedsLedger(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertFinalState, Collection: "users", Count: intp(0)},
	}, nil)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "requires ledger context")
}

func TestMatchFields_NumbersCompareAcrossTypes(t *testing.T) {
	record := model.Pharmaceutical{ID: 2, ExpiryDate: 1_800_000_000_000_000_000}

	assert.NoError(t, matchFields(record, map[string]any{"expiry_date": 1_800_000_000_000_000_000}))
	assert.NoError(t, matchFields(record, map[string]any{"id": uint64(2)}))
	assert.Error(t, matchFields(record, map[string]any{"id": "2"}))
}
