// Package tool defines the tool contract and registry that the
// iteration kernel dispatches ToolCall actions through.
package tool

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Tool is the unified interface for all tools: native built-ins, and
// adapted MCP tools (internal/mcp) alike.
type Tool interface {
	// Name is the identifier a model uses to invoke the tool.
	Name() string

	// Description is a natural-language description for prompt injection.
	Description() string

	// Parameters is a JSON Schema describing Execute's expected args.
	Parameters() json.RawMessage

	// Execute runs the tool against JSON-encoded arguments and returns a
	// JSON-encoded result. A non-nil error indicates an infrastructure
	// failure (the tool could not run at all); documented tool-level
	// failures (precondition mismatch, already_exists, ...) are reported
	// inside the returned JSON, not as an error.
	Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// Initializer is implemented by tools that hold resources needing setup
// before first use (e.g. MCP client connections). Native tools need not
// implement it.
type Initializer interface {
	Init(ctx context.Context) error
}

// Closer is implemented by tools that hold resources needing release at
// shutdown.
type Closer interface {
	Close() error
}

// Schema reflects a Go struct describing a tool's arguments into a JSON
// Schema suitable for Parameters(). v should be a pointer to a zero
// value of the args struct, e.g. Schema(&readFileArgs{}).
func Schema(v any) json.RawMessage {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		RequiredFromJSONSchemaTags: false,
	}
	s := reflector.ReflectFromType(reflect.TypeOf(v).Elem())
	data, err := json.Marshal(s)
	if err != nil {
		// Reflection over a static struct type cannot fail in practice;
		// degrade to an empty object schema rather than panic.
		return json.RawMessage(`{"type":"object"}`)
	}
	return data
}

// ErrorResult marshals a {"error": msg} JSON payload, the shape every
// tool uses to report a failure that isn't a Go error.
func ErrorResult(msg string) json.RawMessage {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return data
}
