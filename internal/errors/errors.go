// Package errors defines the coded error type used across socmon.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// CodeUnavailable marks a sensor whose backing file is missing,
	// unreadable, stuck, or unparsable.
	CodeUnavailable Code = "UNAVAILABLE"
	// CodeTerminal marks a failure to set up, drive, or tear down the
	// interactive display.
	CodeTerminal Code = "TERMINAL"
	// CodeConfig marks invalid flags, environment, or config file content.
	CodeConfig Code = "CONFIG"
)

// Error carries a code, a human-readable message, and the underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether any error in err's chain is an *Error with code.
func IsCode(err error, code Code) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}
