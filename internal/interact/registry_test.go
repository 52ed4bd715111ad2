package interact

import (
	"context"
	"testing"
	"time"

	"huntbot/internal/coded"
	"huntbot/internal/gateway"
)

func nopHandler(context.Context, *gateway.Interaction) error { return nil }

func TestIDsUniqueAcrossNamespaces(t *testing.T) {
	t.Parallel()

	r := NewRegistry(0)
	seen := make(map[string]bool, 10000)
	for i := 0; i < 5000; i++ {
		b := r.Button(nopHandler)
		m := r.Modal(nopHandler)
		if seen[b] || seen[m] || b == m {
			t.Fatalf("duplicate id after %d registrations", i)
		}
		seen[b] = true
		seen[m] = true
	}
	if r.Len() != 10000 {
		t.Fatalf("Len() = %d, want 10000", r.Len())
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := NewRegistry(0)
	called := false
	id := r.Button(func(context.Context, *gateway.Interaction) error {
		called = true
		return nil
	})

	res := r.ResolveButton(id)
	if res.IsErr() {
		t.Fatalf("ResolveButton: %v", res.Err())
	}
	if err := res.Unwrap()(context.Background(), nil); err != nil || !called {
		t.Fatal("resolved handler did not run")
	}

	// A button id must not resolve as a modal.
	if res := r.ResolveModal(id); !res.IsErr() {
		t.Fatal("button id resolved in modal namespace")
	}

	miss := r.ResolveButton("no-such-id")
	if !coded.HasCode(miss.Err(), ErrMissingHandler) {
		t.Fatalf("miss error = %v, want ErrMissingHandler", miss.Err())
	}
}

func TestResolveDoesNotConsume(t *testing.T) {
	t.Parallel()

	// The registry does not enforce single use; a handle stays valid
	// until swept.
	r := NewRegistry(0)
	id := r.Modal(nopHandler)
	for i := 0; i < 3; i++ {
		if res := r.ResolveModal(id); res.IsErr() {
			t.Fatalf("resolve %d: %v", i, res.Err())
		}
	}
}

func TestSweepEvictsOnlyExpired(t *testing.T) {
	t.Parallel()

	r := NewRegistry(time.Hour)
	base := time.Unix(1_700_000_000, 0)
	r.now = func() time.Time { return base }
	old := r.Button(nopHandler)

	r.now = func() time.Time { return base.Add(30 * time.Minute) }
	fresh := r.Modal(nopHandler)

	r.now = func() time.Time { return base.Add(61 * time.Minute) }
	if n := r.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if res := r.ResolveButton(old); !res.IsErr() {
		t.Fatal("expired handler still resolvable")
	}
	if res := r.ResolveModal(fresh); res.IsErr() {
		t.Fatal("fresh handler was evicted")
	}
}
