package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/patch"
	"github.com/rxkernel/rx/internal/tool"
)

type applyUnifiedPatchArgs struct {
	Path         string               `json:"path" jsonschema:"required,description=Relative path of the single file the diff targets"`
	Diff         string               `json:"diff" jsonschema:"required,description=Unified diff text (--- / +++ / @@ hunks) for this file"`
	Precondition *fsutil.Precondition `json:"precondition,omitempty"`
}

// ApplyUnifiedPatchTool applies a standard unified diff to a single
// existing file, guarded by the same optimistic-concurrency
// precondition as the other mutating file tools. Tool name:
// "apply_unified_patch".
type ApplyUnifiedPatchTool struct{}

func (ApplyUnifiedPatchTool) Name() string { return "apply_unified_patch" }
func (ApplyUnifiedPatchTool) Description() string {
	return "Apply a unified diff (diff -u / git diff format) to a single existing file."
}
func (ApplyUnifiedPatchTool) Parameters() json.RawMessage { return tool.Schema(&applyUnifiedPatchArgs{}) }

func (ApplyUnifiedPatchTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args applyUnifiedPatchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := fsutil.ValidateRelativePath(args.Path); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	ok, actual, err := fsutil.Check(args.Path, args.Precondition)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	if !ok {
		return preconditionFailure(args.Precondition, actual), nil
	}
	if !actual.Exists {
		out, _ := json.Marshal(map[string]any{"success": false, "error": "not_found"})
		return out, nil
	}

	data, err := os.ReadFile(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	patched, err := patch.ApplyUnified(string(data), args.Diff)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	if err := fsutil.AtomicWrite(args.Path, []byte(patched)); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	return successResult(nil), nil
}
