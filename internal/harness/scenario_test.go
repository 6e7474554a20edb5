package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: valid
description: "A valid scenario"
clock: 42
steps:
  - op: create_user
    args: { username: alice, role: Admin }
    expect: { status: ok, id: 1 }
  - op: list_rewards
    expect: { code: NOT_FOUND }
assertions:
  - type: trace_count
    op: create_user
    count: 1
  - type: final_state
    collection: users
    id: 1
    expect: { username: alice }
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "valid", s.Name)
	assert.Equal(t, int64(42), s.Clock)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "create_user", s.Steps[0].Op)
	assert.Equal(t, "alice", s.Steps[0].Args["username"])
	require.NotNil(t, s.Steps[0].Expect.ID)
	assert.Equal(t, uint64(1), *s.Steps[0].Expect.ID)
	assert.Nil(t, s.Steps[1].Args)
	assert.Equal(t, "NOT_FOUND", s.Steps[1].Expect.Code)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, 1, *s.Assertions[0].Count)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "d"
step:
  - op: stats
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{op: stats}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps: [{op: stats}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\n",
			wantErr: "steps list is required",
		},
		{
			name:    "negative clock",
			yaml:    "name: n\ndescription: d\nclock: -1\nsteps: [{op: stats}]\n",
			wantErr: "clock must be non-negative",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nsteps: [{op: create_widget}]\n",
			wantErr: `unknown op "create_widget"`,
		},
		{
			name:    "bad status",
			yaml:    "name: n\ndescription: d\nsteps: [{op: stats, expect: {status: maybe}}]\n",
			wantErr: "status must be",
		},
		{
			name:    "code with ok status",
			yaml:    "name: n\ndescription: d\nsteps: [{op: stats, expect: {status: ok, code: NOT_FOUND}}]\n",
			wantErr: "code requires status",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nsteps: [{op: stats}]\nassertions: [{type: vibes}]\n",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "trace_count without count",
			yaml:    "name: n\ndescription: d\nsteps: [{op: stats}]\nassertions: [{type: trace_count, op: stats}]\n",
			wantErr: "non-negative count is required",
		},
		{
			name:    "final_state bad collection",
			yaml:    "name: n\ndescription: d\nsteps: [{op: stats}]\nassertions: [{type: final_state, collection: widgets, count: 0}]\n",
			wantErr: "collection must be one of",
		},
		{
			name:    "final_state without id or count",
			yaml:    "name: n\ndescription: d\nsteps: [{op: stats}]\nassertions: [{type: final_state, collection: users}]\n",
			wantErr: "requires id or count",
		},
		{
			name:    "absent with expect",
			yaml:    "name: n\ndescription: d\nsteps: [{op: stats}]\nassertions: [{type: final_state, collection: users, id: 1, absent: true, expect: {role: Admin}}]\n",
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)

	for _, file := range files {
		_, err := LoadScenario(file)
		assert.NoError(t, err, file)
	}
}
