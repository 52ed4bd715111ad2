package coded

import (
	"errors"
	"fmt"
	"testing"

	"huntbot/internal/result"
)

func TestNextCodeNegativeAndUnique(t *testing.T) {
	t.Parallel()

	seen := map[Code]bool{
		CodeFatal:      true,
		CodeUnexpected: true,
		CodeUnknown:    true,
		CodeOthers:     true,
	}
	for i := 0; i < 100; i++ {
		c := NextCode()
		if c >= 0 {
			t.Fatalf("NextCode() = %d, want negative", c)
		}
		if seen[c] {
			t.Fatalf("NextCode() reused %d", c)
		}
		seen[c] = true
	}
}

func TestErrorMatching(t *testing.T) {
	t.Parallel()

	code := NextCode()
	e := New("settings", code, "the table is corrupted")
	wrapped := fmt.Errorf("loading guild: %w", e)

	if !HasCode(wrapped, code) {
		t.Fatal("HasCode failed through wrapping")
	}
	if HasCode(wrapped, CodeOthers) {
		t.Fatal("HasCode matched the wrong code")
	}
	if !errors.Is(wrapped, New("settings", code, "different message")) {
		t.Fatal("errors.Is must match by code, not message")
	}
}

func TestTryConvertsPanics(t *testing.T) {
	t.Parallel()

	res := Try(func() result.Result[int] {
		panic(errors.New("driver exploded"))
	})
	if !res.IsErr() {
		t.Fatal("Try must return Err on panic")
	}
	if !HasCode(res.Err(), CodeOthers) {
		t.Fatalf("panic with error must become CodeOthers, got %v", res.Err())
	}

	res = Try(func() result.Result[int] {
		panic("not an error")
	})
	if !HasCode(res.Err(), CodeUnknown) {
		t.Fatalf("panic with non-error must become CodeUnknown, got %v", res.Err())
	}

	res = Try(func() result.Result[int] { return result.Ok(7) })
	if res.Unwrap() != 7 {
		t.Fatal("Try must pass Ok through")
	}
}

func TestUserFacing(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("handling /new: %w", Sayf("Please use `/new <url>` first."))
	uf, ok := AsUserFacing(err)
	if !ok {
		t.Fatal("AsUserFacing failed through wrapping")
	}
	if uf.Message != "Please use `/new <url>` first." {
		t.Fatalf("unexpected message %q", uf.Message)
	}

	if _, ok := AsUserFacing(errors.New("plain")); ok {
		t.Fatal("plain error must not be user-facing")
	}
}
