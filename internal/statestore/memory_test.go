package statestore

import (
	"context"
	"testing"

	"github.com/rxkernel/rx/internal/event"
)

func TestMemoryStoreAppendThenLoadObservesEvent(t *testing.T) {
	dir := t.TempDir()
	s, err := NewMemoryStore(dir, "20260730-000000-test-goal")
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	ev, _ := event.New(event.KindGoal, event.GoalPayload{Text: "write hello"})
	if err := s.Append(ctx, ev); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Load returned %d events, want 1", len(got))
	}
	if got[0].Kind != event.KindGoal {
		t.Errorf("Kind = %q, want %q", got[0].Kind, event.KindGoal)
	}
}

func TestLoadJSONLResumesAfterCrash(t *testing.T) {
	dir := t.TempDir()
	goalID := "20260730-000000-resume-goal"
	ctx := context.Background()

	s, err := NewMemoryStore(dir, goalID)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	goalEv, _ := event.New(event.KindGoal, event.GoalPayload{Text: "write hello"})
	actionEv, _ := event.New(event.KindAction, map[string]string{"text": "thinking"})
	toolOutEv, _ := event.New(event.KindToolOutput, event.ToolCallOutputPayload{ToolCallID: "1", Name: "write_file"})
	for _, e := range []event.Event{goalEv, actionEv, toolOutEv} {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	s.Close() // simulate abrupt termination: no further writes

	resumed, err := LoadJSONL(dir, goalID)
	if err != nil {
		t.Fatalf("LoadJSONL: %v", err)
	}
	defer resumed.Close()

	got, err := resumed.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Load returned %d events, want 3", len(got))
	}
	wantKinds := []event.Kind{event.KindGoal, event.KindAction, event.KindToolOutput}
	for i, k := range wantKinds {
		if got[i].Kind != k {
			t.Errorf("event[%d].Kind = %q, want %q", i, got[i].Kind, k)
		}
	}
}
