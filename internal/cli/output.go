package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (ledger rejected the request, scenarios failed, etc.)
	ExitCommandError = 2 // Command error (bad flags, unreadable database, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	TraceID   string // copied into every JSON envelope when set
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // correlates the output with log lines
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "NOT_FOUND", "E_TEST_FAILED", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			TraceID: f.TraceID,
		})
	}

	// Human-readable text output
	return renderText(f.Writer, data)
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			TraceID: f.TraceID,
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// LedgerError reports err and returns the ExitError the command should
// return. Ledger rejections keep their code; anything else is reported as
// INTERNAL.
func (f *OutputFormatter) LedgerError(err error) error {
	var le *ledger.Error
	if !errors.As(err, &le) {
		if outErr := f.Error("INTERNAL", err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "operation failed", err)
	}

	var details map[string]any
	if le.Entity != "" {
		details = map[string]any{"entity": le.Entity}
		if le.ID != 0 {
			details["id"] = le.ID
		}
	}
	if outErr := f.Error(string(le.Code), le.Message, details); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitFailure, string(le.Code), err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// renderText prints ledger records as aligned columns, one record per row.
func renderText(w io.Writer, data any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	switch v := data.(type) {
	case model.User:
		return renderText(w, []model.User{v})
	case []model.User:
		fmt.Fprintln(tw, "ID\tUSERNAME\tROLE")
		for _, u := range v {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.Role)
		}
	case model.Pharmaceutical:
		return renderText(w, []model.Pharmaceutical{v})
	case []model.Pharmaceutical:
		fmt.Fprintln(tw, "ID\tOWNER\tNAME\tMANUFACTURER\tBATCH\tEXPIRY")
		for _, p := range v {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%d\n", p.ID, p.UserID, p.Name, p.Manufacturer, p.BatchNumber, p.ExpiryDate)
		}
	case model.SupplyChainEvent:
		return renderText(w, []model.SupplyChainEvent{v})
	case []model.SupplyChainEvent:
		fmt.Fprintln(tw, "ID\tPHARMACEUTICAL\tTYPE\tLOCATION\tDATE\tPARTICIPANT")
		for _, e := range v {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%s\n", e.ID, e.PharmaceuticalID, e.EventType, e.Location, e.Date, e.Participant)
		}
	case model.Reward:
		return renderText(w, []model.Reward{v})
	case []model.Reward:
		fmt.Fprintln(tw, "ID\tPARTICIPANT\tPOINTS\tTYPE")
		for _, r := range v {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.ID, r.Participant, r.Points, r.RewardType)
		}
	case ledger.Stats:
		fmt.Fprintf(tw, "users:\t%d\n", v.Users)
		fmt.Fprintf(tw, "pharmaceuticals:\t%d\n", v.Pharmaceuticals)
		fmt.Fprintf(tw, "supply_chain_events:\t%d\n", v.SupplyChainEvents)
		fmt.Fprintf(tw, "rewards:\t%d\n", v.Rewards)
		fmt.Fprintf(tw, "last_id:\t%d\n", v.LastID)
	default:
		fmt.Fprintln(tw, data)
	}

	return tw.Flush()
}
