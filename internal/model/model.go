// Package model defines the dispatch boundary between the kernel and
// whatever language model drives a goal: building provider input from
// the event log, decoding its response into a typed Action, and
// summarizing a diff into a commit message.
package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/event"
	"github.com/rxkernel/rx/internal/llm"
	"github.com/rxkernel/rx/internal/tool"
)

// Action is the model's next move: either a chat message or a tool
// invocation. Exactly one of Text or (ID, Name, Arguments) applies,
// selected by Kind.
type Action struct {
	Kind      event.ActionKind
	Text      string
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Payload converts Action to its event-log representation.
func (a Action) Payload() event.ActionPayload {
	return event.ActionPayload{
		Kind: a.Kind, Text: a.Text, ID: a.ID, Name: a.Name, Arguments: a.Arguments,
	}
}

// Model dispatches the next action for a goal and, separately,
// summarizes a working-tree diff into a commit message for the
// auto-commit hook.
type Model interface {
	// NextAction builds provider input from history and the registry's
	// tool descriptors, then decodes the response into an Action.
	NextAction(ctx context.Context, history []event.Event, tools []tool.Descriptor) (Action, error)

	// CommitMessage summarizes diff into a one-line commit message.
	CommitMessage(ctx context.Context, diff string) (string, error)
}

const systemPrompt = `You are rx, an autonomous agent working toward a single goal.
Use the available tools to make progress. Call the "done" tool once the
goal is satisfied, passing a brief reason.`

const commitMessageSystemPrompt = `Summarize the following diff as a single-line, imperative-mood commit
message. Respond with only that line, no quotes, no trailing period.`

// BuildMessages constructs the ordered provider input for history: a
// leading system message, then one message per event — goal becomes a
// user message, action/Message an assistant message, action/ToolCall an
// assistant message describing the call, and tool_output a user message
// describing the result. This literal-description format (rather than
// native tool-call roles) is applied consistently so every provider
// message is a plain (role, content) pair.
func BuildMessages(history []event.Event) ([]llm.Message, error) {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}

	for _, ev := range history {
		switch ev.Kind {
		case event.KindGoal:
			var p event.GoalPayload
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				return nil, fmt.Errorf("model: decode goal payload: %w", err)
			}
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: p.Text})

		case event.KindAction:
			var p event.ActionPayload
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				return nil, fmt.Errorf("model: decode action payload: %w", err)
			}
			switch p.Kind {
			case event.ActionMessage:
				messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: p.Text})
			case event.ActionToolCall:
				content := fmt.Sprintf("tool_call id=%s, name=%s, arguments=%s", p.ID, p.Name, string(p.Arguments))
				messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: content})
			}

		case event.KindToolOutput:
			var p event.ToolCallOutputPayload
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				return nil, fmt.Errorf("model: decode tool_output payload: %w", err)
			}
			content := fmt.Sprintf("tool_output tool_call_id=%s, output=%s", p.ToolCallID, string(p.Output))
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: content})

		case event.KindTermination:
			// Terminal; never appears mid-history for a running goal.
		}
	}

	return messages, nil
}

// ToolDefinitions converts registry descriptors into the provider's
// Function Calling schema.
func ToolDefinitions(descs []tool.Descriptor) []llm.ToolDefinition {
	out := make([]llm.ToolDefinition, len(descs))
	for i, d := range descs {
		out[i] = llm.ToolDefinition{Name: d.Name, Description: d.Description, Parameters: d.Parameters}
	}
	return out
}

// DecodeAction scans an LLM response for a tool call; if none is
// present, the response is treated as a plain message.
func DecodeAction(msg llm.Message) Action {
	if len(msg.ToolCalls) > 0 {
		tc := msg.ToolCalls[0]
		return Action{Kind: event.ActionToolCall, ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments}
	}
	return Action{Kind: event.ActionMessage, Text: msg.Content}
}
