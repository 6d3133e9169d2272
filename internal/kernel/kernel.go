// Package kernel implements the perceive-decide-act iteration loop
// (§4.7): load history, dispatch the model, append the resulting
// action, execute a tool call if any, append its output, and check for
// termination. It is built on the teacher's generic core.Node/Flow
// engine as a single node that loops on itself until Running gives way
// to TerminatedByDone, TerminatedByCap, or Failed.
package kernel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/core"
	"github.com/rxkernel/rx/internal/event"
	"github.com/rxkernel/rx/internal/model"
	"github.com/rxkernel/rx/internal/statestore"
	"github.com/rxkernel/rx/internal/tool"
)

// AppendGoal records the initial goal event for a fresh run. Resuming
// an existing goal skips this — its log already carries one.
func AppendGoal(ctx context.Context, store statestore.Store, text string) error {
	ev, err := event.New(event.KindGoal, event.GoalPayload{Text: text})
	if err != nil {
		return fmt.Errorf("kernel: build goal event: %w", err)
	}
	if err := store.Append(ctx, ev); err != nil {
		return fmt.Errorf("kernel: append goal event: %w", err)
	}
	return nil
}

// Config wires a Kernel to its goal and collaborators.
type Config struct {
	GoalID        string
	MaxIterations int
	Store         statestore.Store
	Model         model.Model
	Registry      *tool.Registry
}

// Kernel drives one goal's iteration loop to termination.
type Kernel struct {
	cfg Config
}

// New builds a Kernel from cfg.
func New(cfg Config) *Kernel {
	return &Kernel{cfg: cfg}
}

// Result is the outcome of a completed Run.
type Result struct {
	Iterations int
	Reason     event.TerminationReason
}

// Run executes the iteration loop to completion: Running until a
// termination event is appended (done or max_iterations) or an
// uncaught error surfaces from event append or model dispatch, in
// which case a best-effort termination{reason:"error"} event is
// appended and the error is returned to the caller (never swallowed).
func (k *Kernel) Run(ctx context.Context) (Result, error) {
	state := &KernelState{
		GoalID:        k.cfg.GoalID,
		MaxIterations: k.cfg.MaxIterations,
		Store:         k.cfg.Store,
		Model:         k.cfg.Model,
		Registry:      k.cfg.Registry,
	}

	node := core.NewNode[KernelState, StepPrep, StepResult](stepNode{}, 0)
	node.AddSuccessor(node, core.ActionContinue)
	flow := core.NewFlow[KernelState](node)

	flowAction := flow.Run(ctx, state)

	if state.Err != nil {
		details, _ := json.Marshal(state.Err.Error())
		ev, evErr := event.New(event.KindTermination, event.TerminationPayload{
			Reason: event.ReasonError, Details: details,
		})
		if evErr == nil {
			_ = k.cfg.Store.Append(ctx, ev) // best effort: the store may itself be the failure
		}
		return Result{Iterations: state.Iteration, Reason: event.ReasonError}, fmt.Errorf("kernel: %w", state.Err)
	}

	if flowAction == core.ActionFailure {
		return Result{Iterations: state.Iteration}, fmt.Errorf("kernel: control-flow failure")
	}

	return Result{Iterations: state.Iteration, Reason: state.TerminationReason}, nil
}
