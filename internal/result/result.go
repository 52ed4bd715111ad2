// Package result provides a two-variant success/failure container used as
// the return type at every fallible boundary in place of sentinel errors
// threaded through multi-step pipelines.
//
// A Result is either Ok (carrying a value) or Err (carrying an error).
// Exactly one variant is populated. All combinators are total; the only
// escape hatch is Unwrap, which panics on an Err and is reserved for call
// sites that have already proven success.
package result

import "fmt"

// Result holds either a value of type T or an error, never both.
// The zero value is an Ok carrying T's zero value; construct through Ok
// and Err instead of relying on that.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a success Result carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err returns a failure Result carrying err. err must be non-nil.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result: Err called with nil error")
	}
	return Result[T]{err: err}
}

// IsOk reports whether r is the success variant.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether r is the failure variant.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Unwrap returns the contained value, or panics if r is an Err.
// Reserve it for call sites guarded by IsOk.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(fmt.Sprintf("result: Unwrap on Err: %v", r.err))
	}
	return r.value
}

// UnwrapOr returns the contained value, or fallback if r is an Err.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// UnwrapOrElse returns the contained value, or computes one from the error.
func (r Result[T]) UnwrapOrElse(fn func(error) T) T {
	if r.err != nil {
		return fn(r.err)
	}
	return r.value
}

// Err returns the contained error, or nil if r is an Ok.
func (r Result[T]) Err() error { return r.err }

// Get splits r into Go's conventional (value, error) pair.
func (r Result[T]) Get() (T, error) { return r.value, r.err }

// MapErr transforms the failure variant, leaving an Ok untouched.
func (r Result[T]) MapErr(fn func(error) error) Result[T] {
	if r.err != nil {
		return Err[T](fn(r.err))
	}
	return r
}

// OrElse chains a recovery step, short-circuiting on Ok.
func (r Result[T]) OrElse(fn func(error) Result[T]) Result[T] {
	if r.err != nil {
		return fn(r.err)
	}
	return r
}

// Map transforms the success value, leaving an Err untouched.
// Package-level because methods cannot introduce type parameters.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}

// AndThen chains a further fallible step, short-circuiting on Err.
func AndThen[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return fn(r.value)
}

// From lifts Go's conventional (value, error) pair into a Result.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}
