package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/patch"
	"github.com/rxkernel/rx/internal/tool"
)

type applyPatchArgs struct {
	Patch string `json:"patch" jsonschema:"required,description=Full patch text, beginning with '*** Begin Patch' and ending with '*** End Patch'"`
}

// ApplyPatchTool parses and applies a patch written in the bespoke
// Add/Delete/Update File DSL, rooted at the current working directory.
// Tool name: "apply_patch".
type ApplyPatchTool struct{}

func (ApplyPatchTool) Name() string { return "apply_patch" }
func (ApplyPatchTool) Description() string {
	return "Apply a patch in the *** Begin Patch / Add File / Delete File / Update File DSL to one or more files."
}
func (ApplyPatchTool) Parameters() json.RawMessage { return tool.Schema(&applyPatchArgs{}) }

func (ApplyPatchTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args applyPatchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	ops, err := patch.Parse(args.Patch)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	summary, err := patch.Apply(ops, ".")
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	out, _ := json.Marshal(summary)
	return out, nil
}
