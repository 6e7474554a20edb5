package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(model.User{ID: 1, Username: "alice", Role: model.RoleAdmin})
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"ok","data":{"id":1,"username":"alice","role":"Admin"}}`, buf.String())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error("NOT_FOUND", "user not found", map[string]any{"entity": "user", "id": 7})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "user not found", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
	assert.Nil(t, resp.Data)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("UNAUTHORIZED", "only admins can create pharmaceuticals", "ignored"))
	assert.Equal(t, "Error [UNAUTHORIZED]: only admins can create pharmaceuticals\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("NOT_FOUND", "reward not found", map[string]any{"entity": "reward"}))
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]")
	assert.Contains(t, buf.String(), "Details: map[entity:reward]")
}

func TestOutputFormatter_TextRecords(t *testing.T) {
	tests := []struct {
		name string
		data any
		want []string
	}{
		{
			name: "user",
			data: model.User{ID: 1, Username: "alice", Role: model.RoleAdmin},
			want: []string{"ID  USERNAME  ROLE", "1   alice     Admin"},
		},
		{
			name: "events",
			data: []model.SupplyChainEvent{{ID: 3, PharmaceuticalID: 2, EventType: model.EventDelivery, Location: "dock", Date: 5, Participant: "bob"}},
			want: []string{"PHARMACEUTICAL", "Delivery", "dock", "bob"},
		},
		{
			name: "reward",
			data: model.Reward{ID: 4, Participant: "bob", Points: 10, RewardType: model.RewardSupplyChainEvent},
			want: []string{"POINTS", "SupplyChainEvent"},
		},
		{
			name: "pharmaceutical",
			data: model.Pharmaceutical{ID: 2, UserID: 1, Name: "Aspirin", Manufacturer: "Acme", BatchNumber: "B1", ExpiryDate: 99},
			want: []string{"MANUFACTURER", "Aspirin", "Acme", "B1", "99"},
		},
		{
			name: "stats",
			data: ledger.Stats{Users: 1, Rewards: 2, LastID: 4},
			want: []string{"users:", "rewards:", "last_id:", "4"},
		},
		{
			name: "deletion",
			data: deletion{Entity: "user", ID: 3, Deleted: true},
			want: []string{"deleted user 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf}

			require.NoError(t, formatter.Success(tt.data))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestOutputFormatter_LedgerError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	lerr := &ledger.Error{Code: ledger.ErrCodeNotFound, Message: "user not found", Entity: "user", ID: 7}
	err := formatter.LedgerError(fmt.Errorf("wrapped: %w", lerr))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, lerr)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, map[string]any{"entity": "user", "id": float64(7)}, resp.Error.Details)
}

func TestOutputFormatter_LedgerErrorInternal(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.LedgerError(errors.New("disk on fire"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "Error [INTERNAL]: disk on fire\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("opening %s", "rxtrace.db")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Equal(t, "opening rxtrace.db\n", errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "bad flag"))))

	wrapped := WrapExitError(ExitFailure, "operation failed", errors.New("cause"))
	assert.Equal(t, "operation failed: cause", wrapped.Error())
}
