// Package coded defines the typed error values used across the bot in
// place of raw errors. Each subsystem registers a small closed set of
// coded variants at init; a shared counter hands out negative codes that
// are unique for the process lifetime but carry no meaning beyond
// identity (they are not persisted and not stable across builds).
//
// Two shapes cross the dispatch boundary:
//   - *Error: structured, subsystem-tagged, logged in full and replaced
//     by a generic message before reaching the user;
//   - *UserFacing: a message meant to be shown verbatim to the requester.
package coded

import (
	"errors"
	"fmt"
	"sync/atomic"

	"huntbot/internal/log"
	"huntbot/internal/result"
)

// Code identifies one error kind within the process.
type Code int

var counter atomic.Int64

// NextCode reserves the next code. Call at package init when declaring a
// subsystem's error kinds.
func NextCode() Code {
	return Code(counter.Add(-1))
}

// Generic kinds shared by every subsystem.
var (
	// CodeFatal marks invariant violations; the current operation aborts.
	CodeFatal = NextCode()
	// CodeUnexpected marks errors that should not happen but are survivable.
	CodeUnexpected = NextCode()
	// CodeUnknown marks panics carrying a non-error value.
	CodeUnknown = NextCode()
	// CodeOthers marks errors raised by third-party code and not handled.
	CodeOthers = NextCode()
)

// Error is a coded, subsystem-tagged error value.
type Error struct {
	Code    Code
	Kind    string
	Message string
}

// New returns a coded error for the given subsystem kind.
func New(kind string, code Code, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind string, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s(%d): %s", e.Kind, e.Code, e.Message)
}

// Is matches two coded errors by code, so errors.Is works across
// wrapping without comparing messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HasCode reports whether err is (or wraps) a coded error with code.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// FromPanic converts a recovered panic value into a coded error,
// logging the original in full.
func FromPanic(v any) *Error {
	if err, ok := v.(error); ok {
		log.Error("recovered error", "error", err)
		return New("others", CodeOthers, err.Error())
	}
	log.Error("recovered non-error panic", "value", v)
	return New("others", CodeUnknown, fmt.Sprint(v))
}

// Unexpected logs the details and returns an opaque unexpected error.
// The details never reach the user.
func Unexpected(args ...any) *Error {
	log.Error("unexpected error", args...)
	return New("others", CodeUnexpected, "Unexpected error.")
}

// Try runs a Result-returning step and converts any panic escaping it
// into an Err, so nothing above this boundary needs to recover.
func Try[T any](fn func() result.Result[T]) (res result.Result[T]) {
	defer func() {
		if v := recover(); v != nil {
			res = result.Err[T](FromPanic(v))
		}
	}()
	return fn()
}

// UserFacing carries a message shown verbatim to the end user.
type UserFacing struct {
	Message string
}

func (e *UserFacing) Error() string { return e.Message }

// Say aborts the current command with a reply the user should see.
func Say(message string) *UserFacing {
	return &UserFacing{Message: message}
}

// Sayf is Say with a formatted message.
func Sayf(format string, args ...any) *UserFacing {
	return &UserFacing{Message: fmt.Sprintf(format, args...)}
}

// AsUserFacing extracts a user-facing error from err, if it is one.
func AsUserFacing(err error) (*UserFacing, bool) {
	var uf *UserFacing
	ok := errors.As(err, &uf)
	return uf, ok
}
