package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, file)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestMarshalTrace_Deterministic(t *testing.T) {
	scenario := &Scenario{
		Name:        "determinism",
		Description: "Same scenario, same bytes",
		Steps: []Step{
			{Op: "create_user", Args: map[string]any{"username": "alice", "role": "Admin"}},
			{Op: "create_pharmaceutical", Args: map[string]any{
				"user_id": 1, "name": "Aspirin", "manufacturer": "Acme", "batch_number": "B1", "expiry_date": 999,
			}},
			{Op: "create_event", Args: map[string]any{"pharmaceutical_id": 2, "location": "dock", "participant": "bob"}},
		},
	}

	var outputs [][]byte
	for i := 0; i < 3; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		data, err := MarshalTrace(scenario.Name, result)
		require.NoError(t, err)
		outputs = append(outputs, data)
	}

	assert.Equal(t, string(outputs[0]), string(outputs[1]))
	assert.Equal(t, string(outputs[1]), string(outputs[2]))
}

func TestMarshalTrace_NoHTMLEscaping(t *testing.T) {
	result := NewResult()
	result.AddTrace(TraceEvent{Step: 1, Op: "create_user", Status: StatusOK, Args: map[string]any{"username": "a<b>&c"}})

	data, err := MarshalTrace("escaping", result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"username": "a<b>&c"`)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}
