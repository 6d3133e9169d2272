// Package statestore provides the append-only event log backing a goal,
// in both in-memory (JSONL-mirrored) and durable (SQL) forms.
package statestore

import (
	"context"

	"github.com/rxkernel/rx/internal/event"
)

// Store is the append-only log contract. append is totally ordered
// w.r.t. load: a Load invoked after a successful Append must observe
// that event.
type Store interface {
	Load(ctx context.Context) ([]event.Event, error)
	Append(ctx context.Context, ev event.Event) error
}

// GoalSummary is one row of ListGoals: a goal id paired with the
// timestamp of its earliest event.
type GoalSummary struct {
	GoalID    string
	StartedAt string
}

// GoalLister is implemented by stores that can enumerate every goal
// they have ever recorded, not just the one they are bound to.
type GoalLister interface {
	ListGoals(ctx context.Context) ([]GoalSummary, error)
}
