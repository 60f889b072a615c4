// Package errors defines the coded errors returned by forcelayout.
//
// Graph mutations fail with INVALID_ARGUMENT (a missing or foreign endpoint
// passed to AddEdge) or NOT_FOUND (a handle that is no longer a member).
// Configuration, file and wire problems carry their own codes so that the
// CLI can pick an exit status and the HTTP server a response status from
// [GetCode] alone.
//
// Only the outermost coded error in a chain counts. config.Validate wraps
// the INVALID_ARGUMENT produced by [ValidateNonNegative] in INVALID_CONFIG,
// and callers see INVALID_CONFIG:
//
//	err := cfg.Validate()
//	errors.Is(err, errors.ErrCodeInvalidConfig)   // true
//	errors.Is(err, errors.ErrCodeInvalidArgument) // false
package errors

import (
	"errors"
	"fmt"
)

// Code is the machine-readable kind of an [Error].
type Code string

const (
	// Rejected input.
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Missing vertices, edges and files.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a [Code] with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code whose cause is cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost returns the first *Error in err's chain, or nil.
func outermost(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	if e := outermost(err); e != nil {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without its
// code or cause. Uncoded errors are returned as err.Error().
func UserMessage(err error) string {
	if e := outermost(err); e != nil {
		return e.Message
	}
	return err.Error()
}
