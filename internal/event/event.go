// Package event defines the immutable journaled record that is the sole
// source of truth for a goal's progress.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind tags an Event's role in the log.
type Kind string

const (
	KindGoal        Kind = "goal"
	KindAction      Kind = "action"
	KindToolOutput  Kind = "tool_output"
	KindTermination Kind = "termination"
)

// Event is an immutable record appended to a goal's log.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
}

// New builds an Event with a fresh id and the current UTC timestamp.
// payload is marshalled from v.
func New(kind Kind, v any) (Event, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("event: marshal payload: %w", err)
	}
	return Event{
		ID:        NewID(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Payload:   raw,
	}, nil
}

// NewID returns an opaque string unique within a goal and monotone-ish
// across events: a hex UnixNano prefix (time order) followed by a short
// uuid suffix (uniqueness when several events land in the same
// nanosecond, which the Go scheduler can produce under test).
func NewID() string {
	return fmt.Sprintf("%016x-%s", time.Now().UTC().UnixNano(), uuid.NewString()[:8])
}

// GoalPayload is the payload of a kind=goal event.
type GoalPayload struct {
	Text string `json:"text"`
}

// ActionKind tags an ActionPayload's variant.
type ActionKind string

const (
	ActionMessage  ActionKind = "message"
	ActionToolCall ActionKind = "tool_call"
)

// ActionPayload is the payload of a kind=action event: the model's next
// move, either a chat message or a typed tool invocation. Exactly one of
// Text or (ID, Name, Arguments) is meaningful, selected by Kind.
type ActionPayload struct {
	Kind      ActionKind      `json:"kind"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolCallOutputPayload is the payload of a kind=tool_output event.
type ToolCallOutputPayload struct {
	ToolCallID string          `json:"tool_call_id"`
	Name       string          `json:"name"`
	Output     json.RawMessage `json:"output"`
}

// TerminationReason is the reason a goal's loop stopped.
type TerminationReason string

const (
	ReasonDone          TerminationReason = "done"
	ReasonMaxIterations TerminationReason = "max_iterations"
	ReasonError         TerminationReason = "error"
)

// TerminationPayload is the payload of a kind=termination event.
type TerminationPayload struct {
	Reason  TerminationReason `json:"reason"`
	Details json.RawMessage   `json:"details,omitempty"`
}
