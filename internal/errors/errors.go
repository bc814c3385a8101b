package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrUsage      = "USAGE"
	ErrConfig     = "CONFIG"
	ErrPassphrase = "PASSPHRASE"
	ErrKeygen     = "KEYGEN"
	ErrAgent      = "AGENT"
	ErrSSHConfig  = "SSHCONFIG"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Summary returns a single-line form of the error, suitable for warning lines
// in the middle of a batch.
func (e *Error) Summary() string {
	if e.Cause == nil {
		return e.Message
	}
	cause := e.Cause.Error()
	var inner *Error
	if errors.As(e.Cause, &inner) {
		cause = inner.Summary()
	}
	cause = strings.TrimSpace(cause)
	if cause == "" {
		return e.Message
	}
	return e.Message + ": " + cause
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var kbErr *Error
	if errors.As(err, &kbErr) {
		return kbErr.Code == code
	}
	return false
}

// Summarize returns a one-line description of any error.
func Summarize(err error) string {
	if err == nil {
		return ""
	}
	var kbErr *Error
	if errors.As(err, &kbErr) {
		return kbErr.Summary()
	}
	return strings.TrimSpace(err.Error())
}

// ExitError requests a specific process exit code without printing anything
// further; the caller has already written whatever the user needs to see.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts the exit code from an ExitError anywhere in the chain.
func GetExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
