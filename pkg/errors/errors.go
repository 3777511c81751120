// Package errors augments the standard errors
// provided by fmt (https://golang.org/src/fmt/errors.go)
// with a Wrap() method to wrap errors without resorting
// to fmt.Errorf("%w", err), plus the sentinel errors
// distinguishing zbak's failure classes.
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// Sentinels for the zbak error taxonomy. Commands match on these to decide
// whether usage text accompanies the message (configuration errors) or not
// (policy and command failures).
var (
	// ErrUnknownClass is a policy error: the retention class named on the
	// command line is not configured. Reported without usage text.
	ErrUnknownClass = New("unknown retention class")

	// ErrUnknownSource is a configuration error: a sync selection names a
	// source that is not configured.
	ErrUnknownSource = New("unknown source")

	// ErrUnknownSyncer is a configuration error: a source refers to a
	// syncer type that is not configured.
	ErrUnknownSyncer = New("unknown syncer type")

	// ErrBadToken is a configuration error: a command template contains an
	// unrecognized placeholder.
	ErrBadToken = New("unknown template token")

	// ErrLockHeld reports that another live zbak process holds the lock.
	ErrLockHeld = New("lock held by a running process")
)

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Newf builds an Error from a format string.
func Newf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Error augments the standard error interface with a Wrap method.
//
// The main difference with github.com/pkg/errors is that we are wrapping
// errors from errors, not from text.
type Error struct {
	msg string
	err error
}

// Error message
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err}
}

// WrapMessage wraps a nested error with some additional context.
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	return &Error{msg: e.msg, err: Newf(format, args...)}
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	other, ok := target.(*Error)
	return ok && e.msg == other.msg
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
