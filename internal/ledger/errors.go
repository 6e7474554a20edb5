package ledger

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/rxtrace/internal/model"
)

// Error is a domain failure reported to callers.
//
// Callers distinguish failures by Code:
//   - INVALID_INPUT: missing or empty field, zero quantity, unknown enum,
//     oversized record, or a reference to a missing pharmaceutical
//   - NOT_FOUND: lookup by id failed, or a list/filter matched nothing
//   - UNAUTHORIZED: the acting user lacks the required role
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description of the failed precondition.
	Message string

	// Entity names the collection involved, if any.
	Entity string

	// ID is the identifier involved, if any.
	ID uint64

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates the payload failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeNotFound indicates no matching record exists.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnauthorized indicates the actor lacks the required role.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entity != "" && e.ID != 0 {
		return fmt.Sprintf("%s: %s (%s=%d)", e.Code, e.Message, e.Entity, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of a ledger error, or "" for any other error.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsInvalidInput returns true if err is an INVALID_INPUT ledger error.
func IsInvalidInput(err error) bool { return CodeOf(err) == ErrCodeInvalidInput }

// IsNotFound returns true if err is a NOT_FOUND ledger error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsUnauthorized returns true if err is an UNAUTHORIZED ledger error.
func IsUnauthorized(err error) bool { return CodeOf(err) == ErrCodeUnauthorized }

func invalidInput(msg string) *Error {
	return &Error{Code: ErrCodeInvalidInput, Message: msg}
}

// validText reports whether every field is well-formed UTF-8. Stored records
// are JSON, which would otherwise replace invalid bytes with U+FFFD.
func validText(fields ...string) bool {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return false
		}
	}
	return true
}

func notFound(entity string, id uint64, msg string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: msg, Entity: entity, ID: id}
}

func unauthorized(msg string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Message: msg}
}

// storageError classifies a failure returned from inside a store transaction.
// Ledger errors pass through and records too large to write become
// INVALID_INPUT. Anything else, including stored records that fail to decode
// (model.ErrCorruptRecord), is an infrastructure failure wrapped with the
// operation name.
func storageError(op string, err error) error {
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	if errors.Is(err, model.ErrRecordTooLarge) {
		return &Error{Code: ErrCodeInvalidInput, Message: "record exceeds maximum size", Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
