// Package interact holds the process-wide table of ephemeral interaction
// handlers. The chat protocol is stateless request/response: the only way
// to correlate a later button click or modal submission back to
// server-side logic is the opaque component id generated here when the
// component is rendered.
//
// Button and modal handlers live in separate namespaces, but the platform
// delivers both through one component-id space, so a fresh id must be
// absent from both tables before use.
package interact

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"huntbot/internal/coded"
	"huntbot/internal/gateway"
	"huntbot/internal/log"
	"huntbot/internal/result"
)

// ErrMissingHandler is returned when an inbound component id resolves to
// nothing, typically after a restart or a TTL eviction. Recoverable: the
// dispatcher logs it and tells the user the control expired.
var ErrMissingHandler = coded.NextCode()

const errKind = "interact"

// DefaultTTL bounds how long an unused handler stays registered. The
// source of this design never evicted and leaked until process restart;
// a TTL closes that while keeping day-old forms clickable.
const DefaultTTL = 24 * time.Hour

const sweepInterval = 10 * time.Minute

type entry struct {
	fn      gateway.Handler
	addedAt time.Time
}

// Registry maps generated component ids to one-shot handlers.
type Registry struct {
	mu      sync.Mutex
	buttons map[string]entry
	modals  map[string]entry
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		buttons: make(map[string]entry),
		modals:  make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  log.WithComponent("interact"),
	}
}

// newID generates an id absent from both namespaces, re-drawing on
// collision.
func (r *Registry) newID() string {
	for {
		id := uuid.NewString()
		if _, ok := r.buttons[id]; ok {
			continue
		}
		if _, ok := r.modals[id]; ok {
			continue
		}
		return id
	}
}

// Button registers fn and returns its component id.
func (r *Registry) Button(fn gateway.Handler) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	r.buttons[id] = entry{fn: fn, addedAt: r.now()}
	return id
}

// Modal registers fn and returns its component id.
func (r *Registry) Modal(fn gateway.Handler) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	r.modals[id] = entry{fn: fn, addedAt: r.now()}
	return id
}

// ResolveButton looks up the handler registered under id.
func (r *Registry) ResolveButton(id string) result.Result[gateway.Handler] {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.buttons[id]
	if !ok {
		return result.Err[gateway.Handler](
			coded.Newf(errKind, ErrMissingHandler, "button handler %q does not exist", id))
	}
	return result.Ok(e.fn)
}

// ResolveModal looks up the handler registered under id.
func (r *Registry) ResolveModal(id string) result.Result[gateway.Handler] {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.modals[id]
	if !ok {
		return result.Err[gateway.Handler](
			coded.Newf(errKind, ErrMissingHandler, "modal handler %q does not exist", id))
	}
	return result.Ok(e.fn)
}

// Len returns the number of live handlers across both namespaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buttons) + len(r.modals)
}

// Sweep evicts handlers older than the TTL and returns how many were
// removed. Stale handles resolve as missing afterwards.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, e := range r.buttons {
		if e.addedAt.Before(cutoff) {
			delete(r.buttons, id)
			evicted++
		}
	}
	for id, e := range r.modals {
		if e.addedAt.Before(cutoff) {
			delete(r.modals, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps periodically until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	r.logger.Info("handler sweep started", "ttl", r.ttl.String())
	defer r.logger.Info("handler sweep stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("evicted stale handlers", "count", n)
			}
		}
	}
}
