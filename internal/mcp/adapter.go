package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rxkernel/rx/internal/tool"
)

// mcpToolTimeout caps a single MCP tool call so that a hung MCP server
// (e.g. a Python process with a blocking HTTP call) fails quickly and
// returns control to the kernel, which still has the remainder of its
// own max_iterations budget to make progress.
const mcpToolTimeout = 60 * time.Second

// MCPToolAdapter bridges an MCP server tool to the tool.Tool interface,
// making it indistinguishable from native built-in tools to the model.
//
// Naming convention: mcp_<serverName>__<toolName>  (double underscore separator)
// The double underscore is unambiguous — it cannot appear within a valid server
// name or tool name and prevents name collisions when either component contains
// single underscores.
//
// Example: server "csv-tool", tool "read_csv" → "mcp_csv-tool__read_csv"
type MCPToolAdapter struct {
	serverName string
	info       ToolInfo
	// client is the shared persistent connection. For per_call lifecycle it is
	// nil — Execute() creates a fresh Client per invocation using cfg.
	client    *Client
	cfg       ServerConfig // used by per_call Execute to rebuild the connection
	lifecycle string       // "persistent" (default) | "per_call"
}

// NewMCPToolAdapter creates an adapter for a single MCP tool.
// cfg is stored so that Execute can rebuild a transient connection for
// per_call lifecycle servers. For persistent servers client must be non-nil.
func NewMCPToolAdapter(serverName string, info ToolInfo, client *Client, cfg ServerConfig) *MCPToolAdapter {
	lc := cfg.Lifecycle
	if lc == "" {
		lc = "persistent"
	}
	return &MCPToolAdapter{
		serverName: serverName,
		info:       info,
		client:     client,
		cfg:        cfg,
		lifecycle:  lc,
	}
}

// Name returns the fully-qualified tool name: mcp_<server>__<tool>.
func (a *MCPToolAdapter) Name() string {
	return fmt.Sprintf("mcp_%s__%s", a.serverName, a.info.Name)
}

// Description returns the tool description from the MCP server.
func (a *MCPToolAdapter) Description() string {
	return a.info.Description
}

// Parameters returns the JSON Schema provided by the MCP server.
func (a *MCPToolAdapter) Parameters() json.RawMessage {
	if len(a.info.InputSchema) == 0 {
		return json.RawMessage(`{"type":"object"}`)
	}
	return a.info.InputSchema
}

// Execute deserialises the JSON args and delegates to the MCP server.
//
// For persistent lifecycle: reuses the shared client connection.
// For per_call lifecycle: creates a fresh Client, runs the tool, then
// closes the process, leaving no residual processes running.
//
// Infrastructure errors and MCP tool-level errors both surface as a
// {"error": ...} result (nil Go error) so the kernel can record them as
// an ordinary tool_output rather than aborting the run.
func (a *MCPToolAdapter) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var params map[string]any
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &params); err != nil {
			return tool.ErrorResult(fmt.Sprintf("mcp adapter: parse args for %q: %v", a.Name(), err)), nil
		}
	}

	if a.lifecycle == "per_call" {
		return a.executePerCall(ctx, params)
	}
	return a.executePersistent(ctx, params)
}

// executePersistent delegates to the long-lived shared client. A
// per-call timeout (mcpToolTimeout) is applied so a hung MCP server
// cannot stall the run indefinitely.
func (a *MCPToolAdapter) executePersistent(ctx context.Context, params map[string]any) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, mcpToolTimeout)
	defer cancel()
	text, err := a.client.CallTool(callCtx, a.info.Name, params)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	return successTextResult(text), nil
}

// executePerCall creates an ephemeral Client, connects, calls the tool, then
// closes the connection. The child process is terminated by Close().
// mcpToolTimeout bounds the full connect+call sequence.
func (a *MCPToolAdapter) executePerCall(ctx context.Context, params map[string]any) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, mcpToolTimeout)
	defer cancel()
	c := NewClient(a.cfg)
	if err := c.Connect(callCtx); err != nil {
		return tool.ErrorResult(fmt.Sprintf("mcp per_call: connect to %q: %v", a.cfg.Name, err)), nil
	}
	defer c.Close() //nolint:errcheck // best-effort cleanup

	text, err := c.CallTool(callCtx, a.info.Name, params)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	return successTextResult(text), nil
}

// successTextResult wraps an MCP server's text response as this tool's
// JSON result payload.
func successTextResult(text string) json.RawMessage {
	data, err := json.Marshal(map[string]string{"output": text})
	if err != nil {
		return json.RawMessage(`{"output":""}`)
	}
	return data
}

// Init satisfies tool.Initializer. MCP connections are managed by the
// Manager; individual adapters have no additional initialisation.
func (a *MCPToolAdapter) Init(_ context.Context) error {
	return nil
}

// Close satisfies tool.Closer. Connection lifecycle is managed by the
// Manager; adapters do not close the shared client.
func (a *MCPToolAdapter) Close() error {
	return nil
}
