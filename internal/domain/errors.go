package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is a language-neutral classification of a failure. Callers map
// codes to user-facing messages; the engine never formats text for users.
type ErrorCode string

const (
	CodeInvalidInput        ErrorCode = "invalid_input"
	CodeConfiguration       ErrorCode = "configuration_error"
	CodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrInvalidInput        = &Error{Code: CodeInvalidInput}
	ErrConfiguration       = &Error{Code: CodeConfiguration}
	ErrUpstreamUnavailable = &Error{Code: CodeUpstreamUnavailable}
)

// Error is the typed failure returned by validation, configuration loading
// and the remote client.
type Error struct {
	Code   ErrorCode
	Op     string // operation that failed, e.g. "validate_request"
	Field  string // offending field, if any
	Reason string // token such as "negative" or "out_of_range"
	Cause  error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += " " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on code so wrapped errors compare equal to the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewInvalidInput builds an InvalidInput error for a request field.
func NewInvalidInput(op, field, reason string) error {
	return &Error{Code: CodeInvalidInput, Op: op, Field: field, Reason: reason}
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(op, field, reason string, cause error) error {
	return &Error{Code: CodeConfiguration, Op: op, Field: field, Reason: reason, Cause: cause}
}

// NewUpstreamUnavailable builds an UpstreamUnavailable error.
func NewUpstreamUnavailable(op, reason string, cause error) error {
	return &Error{Code: CodeUpstreamUnavailable, Op: op, Reason: reason, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// bracketField names a bracket in configuration errors.
func bracketField(i int) string {
	return fmt.Sprintf("brackets[%d]", i)
}
