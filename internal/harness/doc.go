// Package harness runs ledger scenarios as executable contract tests.
//
// A scenario is a YAML file listing ledger operations in order, the outcome
// each one should have, and assertions about the resulting trace and the
// final ledger contents. Every run produces a trace that can be compared
// byte-for-byte against a golden file.
//
// # Scenario Format
//
//	name: supply_chain_basics
//	description: "An admin catalogs a batch and a carrier logs an event"
//	clock: 1700000000000000000   # optional, first event timestamp (ns)
//	steps:
//	  - op: create_user
//	    args: { username: alice, role: Admin }
//	    expect: { status: ok, id: 1 }
//	  - op: get_pharmaceutical
//	    args: { id: 9 }
//	    expect: { status: error, code: NOT_FOUND }
//	  - op: list_rewards
//	    expect: { count: 1, result: { participant: bob } }
//	assertions:
//	  - type: trace_order
//	    ops: [create_user, create_pharmaceutical]
//	  - type: final_state
//	    collection: rewards
//	    count: 1
//
// Ops are the snake_case names of the ledger operations (create_user,
// update_user_role, ..., pharmaceutical_history, get_reward, stats). A step
// without an expect clause must succeed.
//
// # Assertion Types
//
//   - trace_contains: an op appears in the trace, optionally with a status/code
//   - trace_order: ops first appear in the given order
//   - trace_count: an op (optionally filtered by status) appears exactly N times
//   - final_state: a record exists, is absent, or matches fields; or a
//     collection holds exactly N records
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory store. Event dates come from a
// testutil.StepClock that starts at the scenario clock (default
// testutil.DefaultClockStart) and advances one second per reading, so the
// same scenario always produces the same trace.
package harness
