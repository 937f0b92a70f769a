package udemy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type ErrorCode string

const (
	ErrorAuthRejected        ErrorCode = "auth_rejected"
	ErrorUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrorMalformedResponse   ErrorCode = "malformed_response"
)

// Error is returned by every Client call that fails.
type Error struct {
	Code       ErrorCode
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return "udemy request failed"
	}
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("udemy %s failed (code=%s status=%d): %s: %v", e.Op, e.Code, e.StatusCode, e.Message, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("udemy %s failed (code=%s status=%d): %s", e.Op, e.Code, e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("udemy %s failed (code=%s status=%d): %v", e.Op, e.Code, e.StatusCode, e.Cause)
	default:
		return fmt.Sprintf("udemy %s failed (code=%s status=%d)", e.Op, e.Code, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *Error) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// CodeOf extracts the error code from err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Code
	}
	return ""
}

func IsAuthRejected(err error) bool { return CodeOf(err) == ErrorAuthRejected }

func statusError(op string, status int, body []byte) *Error {
	code := ErrorUpstreamUnavailable
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		code = ErrorAuthRejected
	}
	return &Error{
		Code:       code,
		Op:         op,
		StatusCode: status,
		Message:    fmt.Sprintf("http status=%d body=%q", status, truncateBody(body)),
	}
}

func transportError(op string, err error) *Error {
	msg := "request failed"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		msg = "request timed out"
	}
	return &Error{Code: ErrorUpstreamUnavailable, Op: op, Message: msg, Cause: err}
}

func decodeError(op string, err error) *Error {
	return &Error{Code: ErrorMalformedResponse, Op: op, Message: "decode response failed", Cause: err}
}

const maxErrorBodyBytes = 512

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}
