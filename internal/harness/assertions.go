package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/rxtrace/internal/ledger"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s", ev.Step, ev.Op, ev.Args, ev.Status)
			if ev.Code != "" {
				fmt.Fprintf(&buf, " %s", ev.Code)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// matchesFilter reports whether ev satisfies the assertion's status/code filter.
func matchesFilter(ev TraceEvent, a Assertion) bool {
	if a.Status != "" && ev.Status != a.Status {
		return false
	}
	if a.Code != "" && ev.Code != a.Code {
		return false
	}
	return true
}

// assertTraceContains checks that some step ran op with the given outcome.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Op == a.Op && matchesFilter(ev, a) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s%s", a.Op, describeFilter(a)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops first appear in the specified order.
// Ops don't need to be consecutive (intervening steps are allowed).
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for _, ev := range trace {
		if _, seen := positions[ev.Op]; !seen {
			positions[ev.Op] = ev.Step
		}
	}

	for _, op := range a.Ops {
		if _, ok := positions[op]; !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (step %d) should be before %s (step %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks that op (with the given outcome) appears exactly
// Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Op == a.Op && matchesFilter(ev, a) {
			count++
		}
	}

	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s%s", *a.Count, a.Op, describeFilter(a)),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

func describeFilter(a Assertion) string {
	var parts []string
	if a.Status != "" {
		parts = append(parts, "status="+a.Status)
	}
	if a.Code != "" {
		parts = append(parts, "code="+a.Code)
	}
	if len(parts) == 0 {
		return ""
	}
	return " with " + strings.Join(parts, " ")
}

// assertFinalState checks one record, or the size of a collection, after all
// steps have run.
func assertFinalState(ctx context.Context, svc *ledger.Service, a Assertion) error {
	if a.ID == 0 {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return fmt.Errorf("final_state: %w", err)
		}
		got := map[string]int{
			"users":               stats.Users,
			"pharmaceuticals":     stats.Pharmaceuticals,
			"supply_chain_events": stats.SupplyChainEvents,
			"rewards":             stats.Rewards,
		}[a.Collection]
		if got != *a.Count {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%d records in %s", *a.Count, a.Collection),
				Actual:   fmt.Sprintf("%d records", got),
			}
		}
		return nil
	}

	record, err := lookup(ctx, svc, a.Collection, a.ID)
	switch {
	case ledger.IsNotFound(err):
		if a.Absent {
			return nil
		}
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("record %d in %s", a.ID, a.Collection),
			Actual:   "record not found",
		}
	case err != nil:
		return fmt.Errorf("final_state: %w", err)
	case a.Absent:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("no record %d in %s", a.ID, a.Collection),
			Actual:   "record exists",
		}
	}

	if len(a.Expect) == 0 {
		return nil
	}
	if err := matchFields(record, a.Expect); err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("record %d in %s to match %v", a.ID, a.Collection, a.Expect),
			Actual:   err.Error(),
		}
	}
	return nil
}

func lookup(ctx context.Context, svc *ledger.Service, collection string, id uint64) (any, error) {
	switch collection {
	case "users":
		return svc.GetUser(ctx, id)
	case "pharmaceuticals":
		return svc.GetPharmaceutical(ctx, id)
	case "supply_chain_events":
		return svc.GetEvent(ctx, id)
	case "rewards":
		return svc.GetReward(ctx, id)
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
}

// matchResult applies an expect.result clause to a step result: a single
// record must match, and every element of a list must match.
func matchResult(result any, expected map[string]any) error {
	if n, ok := resultCount(result); ok {
		items := reflect.ValueOf(result)
		for i := 0; i < n; i++ {
			if err := matchFields(items.Index(i).Interface(), expected); err != nil {
				return fmt.Errorf("result[%d]: %w", i, err)
			}
		}
		return nil
	}
	return matchFields(result, expected)
}

// matchFields checks that record's JSON form contains every expected field
// (subset match). Both sides go through JSON so YAML ints and uint64 fields
// compare as the same number.
func matchFields(record any, expected map[string]any) error {
	actual, err := toJSONMap(record)
	if err != nil {
		return err
	}
	want, err := toJSONMap(expected)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, ok := actual[k]
		if !ok {
			return fmt.Errorf("field %q not present", k)
		}
		if !reflect.DeepEqual(got, want[k]) {
			return fmt.Errorf("field %q = %v, want %v", k, got, want[k])
		}
	}
	return nil
}

func toJSONMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("result is not an object: %w", err)
	}
	return m, nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Service *ledger.Service
	Ctx     context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides ledger access for final_state assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			if assertion.Count == nil {
				err = fmt.Errorf("assertion[%d]: trace_count requires count", i)
			} else {
				err = assertTraceCount(result.Trace, assertion)
			}
		case AssertFinalState:
			switch {
			case actx == nil || actx.Service == nil:
				err = fmt.Errorf("assertion[%d]: final_state requires ledger context", i)
			case assertion.ID == 0 && assertion.Count == nil:
				err = fmt.Errorf("assertion[%d]: final_state requires id or count", i)
			default:
				err = assertFinalState(actx.Ctx, actx.Service, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}
