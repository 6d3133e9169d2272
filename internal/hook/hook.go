// Package hook implements the observer chain wrapping the event store:
// debug logging, verbose tracing, and auto-commit side effects.
package hook

import (
	"context"
	"log"

	"github.com/rxkernel/rx/internal/event"
	"github.com/rxkernel/rx/internal/statestore"
)

// Hook observes committed events. A hook's error is logged but never
// aborts or unwinds the append — the event is considered committed the
// moment the base store acknowledges it.
type Hook interface {
	OnEvent(ctx context.Context, ev event.Event) error
}

// ChainedStore wraps a base statestore.Store, running each registered
// hook (in registration order) after every successful append.
type ChainedStore struct {
	base  statestore.Store
	hooks []Hook
}

// NewChainedStore returns a store that delegates Load unchanged and
// runs hooks after each successful Append.
func NewChainedStore(base statestore.Store, hooks ...Hook) *ChainedStore {
	return &ChainedStore{base: base, hooks: hooks}
}

// Load passes through to the base store unchanged.
func (c *ChainedStore) Load(ctx context.Context) ([]event.Event, error) {
	return c.base.Load(ctx)
}

// Append delegates to the base store first; only once that succeeds are
// hooks invoked, and a hook failure is logged and swallowed rather than
// propagated — hooks are observers, not gatekeepers.
func (c *ChainedStore) Append(ctx context.Context, ev event.Event) error {
	if err := c.base.Append(ctx, ev); err != nil {
		return err
	}
	for _, h := range c.hooks {
		if err := h.OnEvent(ctx, ev); err != nil {
			log.Printf("[Hook] hook failed on event %s (kind=%s): %v", ev.ID, ev.Kind, err)
		}
	}
	return nil
}
