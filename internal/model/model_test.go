package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rxkernel/rx/internal/event"
	"github.com/rxkernel/rx/internal/llm"
)

func mustEvent(t *testing.T, kind event.Kind, v any) event.Event {
	t.Helper()
	ev, err := event.New(kind, v)
	if err != nil {
		t.Fatalf("event.New: %v", err)
	}
	return ev
}

func TestBuildMessagesOrdersGoalActionToolOutput(t *testing.T) {
	history := []event.Event{
		mustEvent(t, event.KindGoal, event.GoalPayload{Text: "fix the bug"}),
		mustEvent(t, event.KindAction, event.ActionPayload{
			Kind: event.ActionToolCall, ID: "call-1", Name: "read_file", Arguments: json.RawMessage(`{"path":"a.txt"}`),
		}),
		mustEvent(t, event.KindToolOutput, event.ToolCallOutputPayload{
			ToolCallID: "call-1", Name: "read_file", Output: json.RawMessage(`{"content":"hi"}`),
		}),
		mustEvent(t, event.KindAction, event.ActionPayload{Kind: event.ActionMessage, Text: "looks good"}),
	}

	messages, err := BuildMessages(history)
	if err != nil {
		t.Fatalf("BuildMessages: %v", err)
	}
	if len(messages) != 5 { // system + 4 events
		t.Fatalf("got %d messages, want 5", len(messages))
	}
	if messages[0].Role != llm.RoleSystem {
		t.Errorf("messages[0].Role = %q, want system", messages[0].Role)
	}
	if messages[1].Role != llm.RoleUser || messages[1].Content != "fix the bug" {
		t.Errorf("messages[1] = %+v", messages[1])
	}
	if messages[2].Role != llm.RoleAssistant || !strings.Contains(messages[2].Content, "tool_call id=call-1") {
		t.Errorf("messages[2] = %+v", messages[2])
	}
	if messages[3].Role != llm.RoleUser || !strings.Contains(messages[3].Content, "tool_output tool_call_id=call-1") {
		t.Errorf("messages[3] = %+v", messages[3])
	}
	if messages[4].Role != llm.RoleAssistant || messages[4].Content != "looks good" {
		t.Errorf("messages[4] = %+v", messages[4])
	}
}

func TestDecodeActionPrefersToolCall(t *testing.T) {
	msg := llm.Message{
		Content:   "ignored",
		ToolCalls: []llm.ToolCall{{ID: "c1", Name: "done", Arguments: json.RawMessage(`{}`)}},
	}
	a := DecodeAction(msg)
	if a.Kind != event.ActionToolCall || a.Name != "done" || a.ID != "c1" {
		t.Errorf("got %+v", a)
	}
}

func TestDecodeActionFallsBackToMessage(t *testing.T) {
	a := DecodeAction(llm.Message{Content: "just talking"})
	if a.Kind != event.ActionMessage || a.Text != "just talking" {
		t.Errorf("got %+v", a)
	}
}
