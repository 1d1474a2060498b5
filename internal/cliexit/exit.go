// Package cliexit provides the typed exit-code error the CLI uses to map
// fatal failures to process exit codes, plus a small verbosity-gated logger.
package cliexit

import "fmt"

// Error is returned by fatal code paths. cmd.Execute unwraps it with
// errors.As and exits with Code instead of the generic fallback of 1.
type Error struct {
	Code    int
	Message string
}

// Error implements the error interface, returning the raw message with no
// decoration so it can be printed directly to stderr.
func (e *Error) Error() string {
	return e.Message
}

// Errorf builds an *Error with the default fatal exit code.
func Errorf(format string, args ...any) *Error {
	return &Error{Code: 1, Message: fmt.Sprintf(format, args...)}
}
