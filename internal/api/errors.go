package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roach88/rxtrace/internal/ledger"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const codeInternal = "INTERNAL"

// statusFor maps a ledger error code to an HTTP status.
func statusFor(code ledger.ErrorCode) int {
	switch code {
	case ledger.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ledger.ErrCodeUnauthorized:
		return http.StatusForbidden
	case ledger.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// codeForStatus names framework-level failures (bad JSON, unknown route) in
// the same vocabulary as ledger errors.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(ledger.ErrCodeInvalidInput)
	case http.StatusNotFound:
		return string(ledger.ErrCodeNotFound)
	case http.StatusInternalServerError:
		return codeInternal
	default:
		return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// handleError is the echo HTTPErrorHandler.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := ErrorBody{Error: ErrorDetail{Code: codeInternal, Message: "internal error"}}

	var le *ledger.Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &le):
		status = statusFor(le.Code)
		body.Error = ErrorDetail{Code: string(le.Code), Message: le.Message}
	case errors.As(err, &he):
		status = he.Code
		msg := http.StatusText(status)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		body.Error = ErrorDetail{Code: codeForStatus(status), Message: strings.ToLower(msg)}
	default:
		s.logger.Error("request failed",
			"path", c.Request().URL.Path,
			"request_id", requestIDOf(c),
			"error", err,
		)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		s.logger.Error("write error response", "error", werr)
	}
}

func invalidRequest(msg string) error {
	return &ledger.Error{Code: ledger.ErrCodeInvalidInput, Message: msg}
}
