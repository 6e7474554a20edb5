package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
	"github.com/roach88/rxtrace/internal/store"
	"github.com/roach88/rxtrace/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs steps against one ledger with a deterministic clock.
type Harness struct {
	svc    *ledger.Service
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and ledger
// 2. Execute steps in order, validating expect clauses
// 3. Evaluate assertions against the trace and final ledger contents
// 4. Return result with pass/fail, trace, and errors
//
// A returned error means the scenario could not be executed (bad args or a
// storage failure), not that an expectation failed.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewStepClock(scenario.Clock, time.Second)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	svc, err := ledger.New(ctx, st, ledger.Options{Clock: clock, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	h := &Harness{svc: svc, logger: logger}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{Service: svc, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeSteps runs every step, records it in the trace and checks its
// expect clause.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		n := i + 1
		op, ok := operations[step.Op]
		if !ok {
			return fmt.Errorf("step %d: unknown op %q", n, step.Op)
		}

		value, err := op(ctx, h.svc, step.Args)

		var ae *argsError
		if errors.As(err, &ae) {
			return fmt.Errorf("step %d (%s): %w", n, step.Op, err)
		}

		ev := TraceEvent{Step: n, Op: step.Op, Args: step.Args}
		switch {
		case err == nil:
			ev.Status = StatusOK
			ev.Result = value
		case ledger.CodeOf(err) != "":
			var le *ledger.Error
			errors.As(err, &le)
			ev.Status = StatusError
			ev.Code = string(le.Code)
			ev.Message = le.Message
		default:
			return fmt.Errorf("step %d (%s): %w", n, step.Op, err)
		}
		result.AddTrace(ev)

		for _, msg := range checkExpect(ev, step.Expect) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", n, step.Op, msg))
		}

		h.logger.Info("step completed",
			"step", n,
			"op", step.Op,
			"status", ev.Status,
			"code", ev.Code,
		)
	}
	return nil
}

// checkExpect compares a step outcome with its expect clause. A nil clause
// requires success.
func checkExpect(ev TraceEvent, exp *Expect) []string {
	wantStatus := StatusOK
	if exp != nil {
		switch {
		case exp.Status != "":
			wantStatus = exp.Status
		case exp.Code != "":
			wantStatus = StatusError
		}
	}

	if ev.Status != wantStatus {
		if ev.Status == StatusError {
			return []string{fmt.Sprintf("expected status %s, got %s (%s: %s)", wantStatus, ev.Status, ev.Code, ev.Message)}
		}
		return []string{fmt.Sprintf("expected status %s, got %s", wantStatus, ev.Status)}
	}
	if exp == nil {
		return nil
	}

	var errs []string
	if exp.Code != "" && exp.Code != ev.Code {
		errs = append(errs, fmt.Sprintf("expected code %s, got %s", exp.Code, ev.Code))
	}
	if ev.Status != StatusOK {
		return errs
	}

	if exp.ID != nil {
		id, ok := resultID(ev.Result)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("expected id %d, but result %T has no id", *exp.ID, ev.Result))
		case id != *exp.ID:
			errs = append(errs, fmt.Sprintf("expected id %d, got %d", *exp.ID, id))
		}
	}

	if exp.Count != nil {
		n, ok := resultCount(ev.Result)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("expected count %d, but result %T is not a list", *exp.Count, ev.Result))
		case n != *exp.Count:
			errs = append(errs, fmt.Sprintf("expected count %d, got %d", *exp.Count, n))
		}
	}

	if len(exp.Result) > 0 {
		if err := matchResult(ev.Result, exp.Result); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// resultID extracts the identifier of a single returned record.
func resultID(v any) (uint64, bool) {
	switch r := v.(type) {
	case model.User:
		return r.ID, true
	case model.Pharmaceutical:
		return r.ID, true
	case model.SupplyChainEvent:
		return r.ID, true
	case model.Reward:
		return r.ID, true
	default:
		return 0, false
	}
}

// resultCount returns the length of a returned list.
func resultCount(v any) (int, bool) {
	switch r := v.(type) {
	case []model.User:
		return len(r), true
	case []model.Pharmaceutical:
		return len(r), true
	case []model.SupplyChainEvent:
		return len(r), true
	case []model.Reward:
		return len(r), true
	default:
		return 0, false
	}
}
