package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/rxkernel/rx/internal/tool"
)

type whichArgs struct {
	Command string `json:"command" jsonschema:"required,description=Executable name to resolve via PATH"`
}

// WhichCommandTool resolves an executable name against PATH without
// running it. Tool name: "which_command".
type WhichCommandTool struct{}

func (WhichCommandTool) Name() string        { return "which_command" }
func (WhichCommandTool) Description() string { return "Resolve a command name to an absolute path via PATH lookup." }
func (WhichCommandTool) Parameters() json.RawMessage { return tool.Schema(&whichArgs{}) }

func (WhichCommandTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args whichArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	path, err := exec.LookPath(args.Command)
	if err != nil {
		out, _ := json.Marshal(map[string]any{"found": false})
		return out, nil
	}
	out, _ := json.Marshal(map[string]any{"found": true, "path": path})
	return out, nil
}
