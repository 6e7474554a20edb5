package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a ledger test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Clock is the first timestamp (ns since epoch) stamped on an event.
	// Zero uses testutil.DefaultClockStart.
	Clock int64 `yaml:"clock,omitempty"`

	// Steps are executed in order against one ledger.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and ledger contents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step invokes one ledger operation.
type Step struct {
	// Op is the operation name (e.g., "create_event").
	Op string `yaml:"op"`

	// Args are the operation arguments. Field names match the JSON payloads.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect specifies the expected outcome. Nil means the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Status is "ok" or "error". Defaults to "ok" unless Code is set.
	Status string `yaml:"status,omitempty"`

	// Code is the expected ledger error code (e.g., "NOT_FOUND").
	Code string `yaml:"code,omitempty"`

	// ID is the expected identifier of the returned record.
	ID *uint64 `yaml:"id,omitempty"`

	// Count is the expected length of a returned list.
	Count *int `yaml:"count,omitempty"`

	// Result contains expected field values of the returned record, or of
	// every record of a returned list. Subset match.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the trace or the final ledger contents.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	// Op is the operation name (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Status and Code filter matching trace steps (trace_contains, trace_count).
	Status string `yaml:"status,omitempty"`
	Code   string `yaml:"code,omitempty"`

	// Ops is the expected order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number of matches (trace_count) or records
	// (final_state without id).
	Count *int `yaml:"count,omitempty"`

	// Collection is users, pharmaceuticals, supply_chain_events or rewards
	// (final_state).
	Collection string `yaml:"collection,omitempty"`

	// ID selects one record (final_state).
	ID uint64 `yaml:"id,omitempty"`

	// Absent asserts the record with ID does not exist (final_state).
	Absent bool `yaml:"absent,omitempty"`

	// Expect contains expected field values of the record (final_state).
	// Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// Step status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Collections lists the names accepted by final_state assertions.
var Collections = []string{"users", "pharmaceuticals", "supply_chain_events", "rewards"}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Clock < 0 {
		return fmt.Errorf("clock must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if _, ok := operations[step.Op]; !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Expect != nil {
			if err := validateExpect(step.Expect); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(e *Expect) error {
	switch e.Status {
	case "", StatusOK, StatusError:
	default:
		return fmt.Errorf("status must be %q or %q, got %q", StatusOK, StatusError, e.Status)
	}
	if e.Code != "" && e.Status == StatusOK {
		return fmt.Errorf("code requires status %q", StatusError)
	}
	if e.Count != nil && *e.Count < 0 {
		return fmt.Errorf("count must be non-negative")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for trace_count", index)
		}
	case AssertFinalState:
		if !isCollection(a.Collection) {
			return fmt.Errorf("assertions[%d]: collection must be one of %v", index, Collections)
		}
		if a.ID == 0 && a.Count == nil {
			return fmt.Errorf("assertions[%d]: final_state requires id or count", index)
		}
		if a.ID == 0 && (a.Absent || len(a.Expect) > 0) {
			return fmt.Errorf("assertions[%d]: absent and expect require id", index)
		}
		if a.Absent && len(a.Expect) > 0 {
			return fmt.Errorf("assertions[%d]: absent and expect are mutually exclusive", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func isCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
