package llm

import (
	"encoding/json"
)

// Message represents a chat message for LLM communication.
type Message struct {
	Role             string     `json:"role"`                        // "user", "assistant", "system", "tool"
	Content          string     `json:"content"`                     // The message text
	ReasoningContent string     `json:"reasoning_content,omitempty"` // Native thinking output (e.g. DeepSeek-R1)
	ToolCallID       string     `json:"tool_call_id,omitempty"`      // Set on role="tool" messages
	Name             string     `json:"name,omitempty"`              // Tool name, set on role="tool" messages
	ToolCalls        []ToolCall `json:"tool_calls,omitempty"`        // Set on assistant messages requesting calls
}

// ToolCall is one function call an assistant message requested.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition describes a callable tool for Function Calling.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)
