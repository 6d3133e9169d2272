// Package mock provides a scripted model.Model for offline runs and
// tests, used whenever OPENAI_API_KEY is empty or missing.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rxkernel/rx/internal/event"
	"github.com/rxkernel/rx/internal/hook"
	"github.com/rxkernel/rx/internal/model"
	"github.com/rxkernel/rx/internal/tool"
)

// Model returns actions from a fixed Script in order; once the script
// is exhausted it returns a done tool call so a goal driven by it
// always terminates rather than looping forever.
type Model struct {
	mu     sync.Mutex
	Script []model.Action
	next   int

	// CommitMessageFunc, if set, overrides CommitMessage's default.
	CommitMessageFunc func(diff string) (string, error)
}

// New builds a Model that plays script in order.
func New(script ...model.Action) *Model {
	return &Model{Script: script}
}

// NewDone builds a Model that immediately calls "done" with reason,
// the minimal script for a smoke-test or no-API-key run.
func NewDone(reason string) *Model {
	args, _ := json.Marshal(map[string]string{"reason": reason})
	return New(model.Action{Kind: event.ActionToolCall, ID: "mock-0", Name: "done", Arguments: args})
}

func (m *Model) NextAction(ctx context.Context, history []event.Event, tools []tool.Descriptor) (model.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.next < len(m.Script) {
		a := m.Script[m.next]
		m.next++
		return a, nil
	}

	args, _ := json.Marshal(map[string]string{"reason": "mock script exhausted"})
	return model.Action{Kind: event.ActionToolCall, ID: fmt.Sprintf("mock-%d", m.next), Name: "done", Arguments: args}, nil
}

// CommitMessage defers to CommitMessageFunc if set, otherwise derives a
// message from diff the same way an offline auto-commit run would, via
// hook.HeuristicGenerator — no model call, so it works with no API key.
func (m *Model) CommitMessage(ctx context.Context, diff string) (string, error) {
	if m.CommitMessageFunc != nil {
		return m.CommitMessageFunc(diff)
	}
	return hook.HeuristicGenerator{}.CommitMessage(ctx, diff)
}
