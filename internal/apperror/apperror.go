// Package apperror holds the typed failures raised by the service layer and
// the access guard. Every failure carries a Kind, an HTTP status and one or
// more client-facing messages; the HTTP error handler is the only place that
// turns them into a response.
package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation      Kind = "ValidationError"
	KindUnauthorized    Kind = "Unauthorized"
	KindNotFound        Kind = "NotFound"
	KindConflict        Kind = "Conflict"
	KindAlreadyVerified Kind = "AlreadyVerified"
	KindOtpExpired      Kind = "OtpExpired"
	KindOtpMismatch     Kind = "OtpMismatch"
	KindNoOtpPending    Kind = "NoOtpPending"
	KindInternal        Kind = "Internal"
)

// Error is a typed failure. Err, when set, is the underlying cause and is
// never shown to clients.
type Error struct {
	Kind     Kind
	Status   int
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + strings.Join(e.Messages, "; ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns a single string when there is one message and the whole
// list otherwise.
func (e *Error) Message() any {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return append([]string(nil), e.Messages...)
}

func newError(kind Kind, status int, msgs ...string) *Error {
	return &Error{Kind: kind, Status: status, Messages: msgs}
}

func Validation(msgs ...string) *Error {
	if len(msgs) == 0 {
		msgs = []string{"Validation failed"}
	}
	return newError(KindValidation, http.StatusBadRequest, msgs...)
}

func Unauthorized(msg string) *Error {
	return newError(KindUnauthorized, http.StatusUnauthorized, msg)
}

func NotFound(msg string) *Error {
	return newError(KindNotFound, http.StatusNotFound, msg)
}

func Conflict(msg string) *Error {
	return newError(KindConflict, http.StatusConflict, msg)
}

func AlreadyVerified() *Error {
	return newError(KindAlreadyVerified, http.StatusBadRequest, "Account is already verified")
}

func OtpExpired() *Error {
	return newError(KindOtpExpired, http.StatusBadRequest, "OTP has expired")
}

func OtpMismatch() *Error {
	return newError(KindOtpMismatch, http.StatusBadRequest, "Invalid OTP")
}

func NoOtpPending() *Error {
	return newError(KindNoOtpPending, http.StatusBadRequest, "No OTP found. Please request a new one")
}

// Internal wraps an unexpected failure; clients only ever see a generic message.
func Internal(err error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, "Internal server error")
	e.Err = err
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
