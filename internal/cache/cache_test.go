package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"huntbot/internal/result"
)

func TestGetOrSetDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	c := New[string]()
	calls := 0
	factory := func() result.Result[string] {
		calls++
		if calls == 1 {
			return result.Err[string](errors.New("remote down"))
		}
		return result.Ok("folder-1")
	}

	first := c.GetOrSet("chan", factory)
	if !first.IsErr() {
		t.Fatal("first call must surface the failure")
	}
	if _, ok := c.Get("chan"); ok {
		t.Fatal("failure must not populate the cache")
	}

	second := c.GetOrSet("chan", factory)
	if second.Unwrap() != "folder-1" {
		t.Fatalf("second call = %v, want folder-1", second)
	}
	if calls != 2 {
		t.Fatalf("factory calls = %d, want 2", calls)
	}

	third := c.GetOrSet("chan", factory)
	if third.Unwrap() != "folder-1" || calls != 2 {
		t.Fatal("hit must not re-invoke the factory")
	}
}

func TestConcurrentMissesShareOneFlight(t *testing.T) {
	t.Parallel()

	c := New[int]()
	var invocations atomic.Int32
	factory := func() result.Result[int] {
		invocations.Add(1)
		time.Sleep(20 * time.Millisecond)
		return result.Ok(42)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res := c.GetOrSet("k", factory); res.Unwrap() != 42 {
				t.Errorf("GetOrSet = %v, want 42", res)
			}
		}()
	}
	wg.Wait()

	if n := invocations.Load(); n != 1 {
		t.Fatalf("factory ran %d times, want 1 shared flight", n)
	}
}

func TestSetAndReset(t *testing.T) {
	t.Parallel()

	c := New[string]()
	if _, replaced := c.Set("k", "a"); replaced {
		t.Fatal("Set on empty key reported a replacement")
	}
	old, replaced := c.Set("k", "b")
	if !replaced || old != "a" {
		t.Fatalf("Set returned (%q, %v), want (a, true)", old, replaced)
	}

	v, ok := c.Reset("k")
	if !ok || v != "b" {
		t.Fatalf("Reset returned (%q, %v), want (b, true)", v, ok)
	}
	if _, ok := c.Reset("k"); ok {
		t.Fatal("Reset on missing key reported a removal")
	}

	// After invalidation the factory runs again.
	res := c.GetOrSet("k", func() result.Result[string] { return result.Ok("c") })
	if res.Unwrap() != "c" {
		t.Fatalf("GetOrSet after Reset = %v, want c", res)
	}
}
