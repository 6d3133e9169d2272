package kernel

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rxkernel/rx/internal/event"
	"github.com/rxkernel/rx/internal/model"
	"github.com/rxkernel/rx/internal/model/mock"
	"github.com/rxkernel/rx/internal/statestore"
	"github.com/rxkernel/rx/internal/tool"
	"github.com/rxkernel/rx/internal/tool/builtin"
)

func newRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	r := tool.NewRegistry()
	r.Register(builtin.DoneTool{})
	r.Register(builtin.WhichCommandTool{})
	return r
}

func TestKernelTerminatesOnDone(t *testing.T) {
	dir := t.TempDir()
	store, err := statestore.NewMemoryStore(dir, "goal-1")
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	defer store.Close()

	if err := AppendGoal(context.Background(), store, "say hello then stop"); err != nil {
		t.Fatalf("AppendGoal: %v", err)
	}

	doneArgs, _ := json.Marshal(map[string]string{"reason": "said hello"})
	m := mock.New(
		model.Action{Kind: event.ActionMessage, Text: "hello"},
		model.Action{Kind: event.ActionToolCall, ID: "c1", Name: "done", Arguments: doneArgs},
	)

	k := New(Config{GoalID: "goal-1", MaxIterations: 10, Store: store, Model: m, Registry: newRegistry(t)})
	result, err := k.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reason != event.ReasonDone {
		t.Fatalf("Reason = %q, want done", result.Reason)
	}
	if result.Iterations != 2 {
		t.Fatalf("Iterations = %d, want 2", result.Iterations)
	}

	history, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var kinds []event.Kind
	for _, ev := range history {
		kinds = append(kinds, ev.Kind)
	}
	want := []event.Kind{
		event.KindGoal, event.KindAction, event.KindAction, event.KindToolOutput, event.KindTermination,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events %v, want %d %v", len(kinds), kinds, len(want), want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event[%d].Kind = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestKernelMaxIterationsCap(t *testing.T) {
	dir := t.TempDir()
	store, err := statestore.NewMemoryStore(dir, "goal-2")
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	defer store.Close()

	if err := AppendGoal(context.Background(), store, "never finishes"); err != nil {
		t.Fatalf("AppendGoal: %v", err)
	}

	m := mock.New(
		model.Action{Kind: event.ActionMessage, Text: "thinking"},
		model.Action{Kind: event.ActionMessage, Text: "thinking"},
	)

	k := New(Config{GoalID: "goal-2", MaxIterations: 2, Store: store, Model: m, Registry: newRegistry(t)})
	result, err := k.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reason != event.ReasonMaxIterations {
		t.Fatalf("Reason = %q, want max_iterations", result.Reason)
	}

	history, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var actionCount, toolOutputCount int
	for _, ev := range history {
		switch ev.Kind {
		case event.KindAction:
			actionCount++
		case event.KindToolOutput:
			toolOutputCount++
		}
	}
	if actionCount != 2 {
		t.Errorf("actionCount = %d, want 2", actionCount)
	}
	if toolOutputCount != 0 {
		t.Errorf("toolOutputCount = %d, want 0", toolOutputCount)
	}
	if history[len(history)-1].Kind != event.KindTermination {
		t.Errorf("last event kind = %q, want termination", history[len(history)-1].Kind)
	}
}

func TestKernelToolNotFoundProducesErrorOutput(t *testing.T) {
	dir := t.TempDir()
	store, err := statestore.NewMemoryStore(dir, "goal-3")
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	defer store.Close()

	if err := AppendGoal(context.Background(), store, "use a tool that doesn't exist"); err != nil {
		t.Fatalf("AppendGoal: %v", err)
	}

	missingArgs, _ := json.Marshal(map[string]string{})
	doneArgs, _ := json.Marshal(map[string]string{"reason": "done"})
	m := mock.New(
		model.Action{Kind: event.ActionToolCall, ID: "c1", Name: "no_such_tool", Arguments: missingArgs},
		model.Action{Kind: event.ActionToolCall, ID: "c2", Name: "done", Arguments: doneArgs},
	)

	k := New(Config{GoalID: "goal-3", MaxIterations: 10, Store: store, Model: m, Registry: newRegistry(t)})
	if _, err := k.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	history, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var sawErrorOutput bool
	for _, ev := range history {
		if ev.Kind != event.KindToolOutput {
			continue
		}
		var p event.ToolCallOutputPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			t.Fatalf("unmarshal tool_output: %v", err)
		}
		if p.ToolCallID == "c1" {
			var out map[string]string
			if err := json.Unmarshal(p.Output, &out); err != nil {
				t.Fatalf("unmarshal output: %v", err)
			}
			if out["error"] == "" {
				t.Errorf("expected error field in output, got %v", out)
			}
			sawErrorOutput = true
		}
	}
	if !sawErrorOutput {
		t.Fatal("expected a tool_output event for the missing tool call")
	}
}

func TestKernelResumeAfterCrashContinuesHistory(t *testing.T) {
	dir := t.TempDir()

	store1, err := statestore.NewMemoryStore(dir, "goal-4")
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	if err := AppendGoal(context.Background(), store1, "resume me"); err != nil {
		t.Fatalf("AppendGoal: %v", err)
	}
	// Simulate a crash mid-run: one action event landed but the process
	// died before the matching tool_output was appended.
	midRunEvent, err := event.New(event.KindAction, event.ActionPayload{Kind: event.ActionMessage, Text: "first step"})
	if err != nil {
		t.Fatalf("event.New: %v", err)
	}
	if err := store1.Append(context.Background(), midRunEvent); err != nil {
		t.Fatalf("Append: %v", err)
	}
	store1.Close() // no graceful shutdown beyond closing the fd

	store2, err := statestore.LoadJSONL(dir, "goal-4")
	if err != nil {
		t.Fatalf("LoadJSONL: %v", err)
	}
	defer store2.Close()

	preCrashHistory, err := store2.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(preCrashHistory) != 2 {
		t.Fatalf("got %d events after reload, want 2 (goal, action): %+v", len(preCrashHistory), preCrashHistory)
	}

	doneArgs, _ := json.Marshal(map[string]string{"reason": "resumed and finished"})
	m2 := mock.New(model.Action{Kind: event.ActionToolCall, ID: "c1", Name: "done", Arguments: doneArgs})
	k2 := New(Config{GoalID: "goal-4", MaxIterations: 5, Store: store2, Model: m2, Registry: newRegistry(t)})
	result, err := k2.Run(context.Background())
	if err != nil {
		t.Fatalf("Run 2: %v", err)
	}
	if result.Reason != event.ReasonDone {
		t.Fatalf("Reason = %q, want done", result.Reason)
	}

	history, err := store2.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// goal, pre-crash action, post-resume action(done call), tool_output, termination
	if len(history) != 5 {
		t.Fatalf("got %d events, want 5: %+v", len(history), history)
	}
	if history[1].Kind != event.KindAction || history[2].Kind != event.KindAction {
		t.Fatalf("expected the pre-crash action to survive reload at index 1: %+v", history)
	}
}
