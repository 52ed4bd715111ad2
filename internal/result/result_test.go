package result

import (
	"errors"
	"strconv"
	"testing"
)

var errBoom = errors.New("boom")

func TestFunctorLaws(t *testing.T) {
	t.Parallel()

	double := func(n int) int { return n * 2 }

	ok := Map(Ok(21), double)
	if !ok.IsOk() || ok.Unwrap() != 42 {
		t.Fatalf("Ok(21).Map(double) = %#v, want Ok(42)", ok)
	}

	er := Map(Err[int](errBoom), double)
	if !er.IsErr() || !errors.Is(er.Err(), errBoom) {
		t.Fatalf("Err.Map must keep the error, got %#v", er)
	}
}

func TestAndThenShortCircuits(t *testing.T) {
	t.Parallel()

	parse := func(s string) Result[int] { return From(strconv.Atoi(s)) }

	if got := AndThen(Ok("17"), parse); got.Unwrap() != 17 {
		t.Fatalf("AndThen ok chain = %v, want 17", got)
	}

	calls := 0
	counted := func(s string) Result[int] { calls++; return parse(s) }
	got := AndThen(Err[string](errBoom), counted)
	if calls != 0 {
		t.Fatal("AndThen invoked fn on Err")
	}
	if !errors.Is(got.Err(), errBoom) {
		t.Fatalf("AndThen must propagate the error, got %v", got.Err())
	}
}

func TestUnwrapPanicsOnErr(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("Unwrap on Err did not panic")
		}
	}()
	Err[int](errBoom).Unwrap()
}

func TestUnwrapOrElse(t *testing.T) {
	t.Parallel()

	if v := Ok(5).UnwrapOrElse(func(error) int { return -1 }); v != 5 {
		t.Fatalf("UnwrapOrElse on Ok = %d, want 5", v)
	}
	if v := Err[int](errBoom).UnwrapOrElse(func(error) int { return -1 }); v != -1 {
		t.Fatalf("UnwrapOrElse on Err = %d, want -1", v)
	}
}

func TestMapErrAndOrElse(t *testing.T) {
	t.Parallel()

	wrapped := Err[int](errBoom).MapErr(func(e error) error {
		return errors.Join(errors.New("ctx"), e)
	})
	if !errors.Is(wrapped.Err(), errBoom) {
		t.Fatal("MapErr lost the original error")
	}

	recovered := Err[int](errBoom).OrElse(func(error) Result[int] { return Ok(9) })
	if recovered.Unwrap() != 9 {
		t.Fatalf("OrElse recovery = %v, want Ok(9)", recovered)
	}

	untouched := Ok(3).OrElse(func(error) Result[int] { return Ok(9) })
	if untouched.Unwrap() != 3 {
		t.Fatal("OrElse ran the recovery on Ok")
	}
}

func TestErrWithNilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("Err(nil) did not panic")
		}
	}()
	_ = Err[int](nil)
}
