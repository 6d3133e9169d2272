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

// KernelState is the shared state threaded through the self-looping
// stepNode by core.Flow.
type KernelState struct {
	GoalID        string
	MaxIterations int
	Iteration     int

	Store    statestore.Store
	Model    model.Model
	Registry *tool.Registry

	Done              bool
	Err               error
	TerminationReason event.TerminationReason
}

// StepPrep is the single work item Prep hands to Exec each iteration —
// everything Exec needs, since Exec (unlike Prep/Post) has no access to
// *KernelState.
type StepPrep struct {
	CapReached bool
	Store      statestore.Store
	Model      model.Model
	Registry   *tool.Registry
}

// StepResult is what one iteration of Exec accomplished.
type StepResult struct {
	Terminated bool
	Reason     event.TerminationReason
	Err        error
}

// stepNode implements core.BaseNode[KernelState, StepPrep, StepResult].
// A single instance is reused across every iteration by looping its
// core.Node wrapper on ActionContinue.
type stepNode struct{}

func (stepNode) Prep(state *KernelState) []StepPrep {
	if state.Done {
		return nil
	}
	return []StepPrep{{
		CapReached: state.Iteration >= state.MaxIterations,
		Store:      state.Store,
		Model:      state.Model,
		Registry:   state.Registry,
	}}
}

func (stepNode) Exec(ctx context.Context, p StepPrep) (StepResult, error) {
	if p.CapReached {
		ev, err := event.New(event.KindTermination, event.TerminationPayload{Reason: event.ReasonMaxIterations})
		if err != nil {
			return StepResult{}, fmt.Errorf("kernel: build termination event: %w", err)
		}
		if err := p.Store.Append(ctx, ev); err != nil {
			return StepResult{}, fmt.Errorf("kernel: append termination event: %w", err)
		}
		return StepResult{Terminated: true, Reason: event.ReasonMaxIterations}, nil
	}

	history, err := p.Store.Load(ctx)
	if err != nil {
		return StepResult{}, fmt.Errorf("kernel: load history: %w", err)
	}

	action, err := p.Model.NextAction(ctx, history, p.Registry.Descriptors())
	if err != nil {
		return StepResult{}, fmt.Errorf("kernel: next action: %w", err)
	}

	actionEvent, err := event.New(event.KindAction, action.Payload())
	if err != nil {
		return StepResult{}, fmt.Errorf("kernel: build action event: %w", err)
	}
	if err := p.Store.Append(ctx, actionEvent); err != nil {
		return StepResult{}, fmt.Errorf("kernel: append action event: %w", err)
	}

	if action.Kind != event.ActionToolCall {
		return StepResult{}, nil
	}

	output := dispatchTool(ctx, p.Registry, action.Name, action.Arguments)

	toolOutputEvent, err := event.New(event.KindToolOutput, event.ToolCallOutputPayload{
		ToolCallID: action.ID, Name: action.Name, Output: output,
	})
	if err != nil {
		return StepResult{}, fmt.Errorf("kernel: build tool_output event: %w", err)
	}
	if err := p.Store.Append(ctx, toolOutputEvent); err != nil {
		return StepResult{}, fmt.Errorf("kernel: append tool_output event: %w", err)
	}

	if action.Name != "done" {
		return StepResult{}, nil
	}

	termEvent, err := event.New(event.KindTermination, event.TerminationPayload{
		Reason: event.ReasonDone, Details: output,
	})
	if err != nil {
		return StepResult{}, fmt.Errorf("kernel: build termination event: %w", err)
	}
	if err := p.Store.Append(ctx, termEvent); err != nil {
		return StepResult{}, fmt.Errorf("kernel: append termination event: %w", err)
	}

	return StepResult{Terminated: true, Reason: event.ReasonDone}, nil
}

// dispatchTool executes name against registry, catching both a missing
// tool and an execution error into the {error:...} shape tool_output
// events always carry on failure — tool errors never propagate as Go
// errors past this point.
func dispatchTool(ctx context.Context, registry *tool.Registry, name string, arguments json.RawMessage) json.RawMessage {
	t, ok := registry.Get(name)
	if !ok {
		return tool.ErrorResult(fmt.Sprintf("Tool %s not found", name))
	}
	out, err := t.Execute(ctx, arguments)
	if err != nil {
		return tool.ErrorResult(err.Error())
	}
	return out
}

func (stepNode) ExecFallback(err error) StepResult {
	return StepResult{Terminated: true, Reason: event.ReasonError, Err: err}
}

func (stepNode) Post(state *KernelState, prepRes []StepPrep, execResults ...StepResult) core.Action {
	if len(prepRes) == 0 {
		return core.ActionEnd
	}

	result := execResults[0]
	if !prepRes[0].CapReached {
		state.Iteration++
	}

	if result.Err != nil {
		state.Err = result.Err
		state.Done = true
		state.TerminationReason = event.ReasonError
		return core.ActionEnd
	}
	if result.Terminated {
		state.Done = true
		state.TerminationReason = result.Reason
		return core.ActionEnd
	}
	return core.ActionContinue
}
