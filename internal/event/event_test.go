package event

import (
	"encoding/json"
	"testing"
)

func TestNewSetsKindAndPayload(t *testing.T) {
	ev, err := New(KindGoal, GoalPayload{Text: "write hello"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ev.Kind != KindGoal {
		t.Errorf("Kind = %q, want %q", ev.Kind, KindGoal)
	}
	if ev.ID == "" {
		t.Error("ID is empty")
	}
	var payload GoalPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Text != "write hello" {
		t.Errorf("payload.Text = %q, want %q", payload.Text, "write hello")
	}
}

func TestNewSetsActionToolCallPayload(t *testing.T) {
	ev, err := New(KindAction, ActionPayload{
		Kind: ActionToolCall, ID: "call-1", Name: "read_file", Arguments: json.RawMessage(`{"path":"a.txt"}`),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var payload ActionPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Kind != ActionToolCall || payload.Name != "read_file" || payload.ID != "call-1" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
