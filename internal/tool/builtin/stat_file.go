package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

type statFileArgs struct {
	Path string `json:"path" jsonschema:"required,description=Relative path to stat"`
}

// StatFileTool returns a file's snapshot (hash, mtime, size) without
// reading its content. Tool name: "stat_file".
type StatFileTool struct{}

func (StatFileTool) Name() string        { return "stat_file" }
func (StatFileTool) Description() string { return "Return a file's hash/mtime/size without reading its content." }
func (StatFileTool) Parameters() json.RawMessage { return tool.Schema(&statFileArgs{}) }

func (StatFileTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args statFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := fsutil.ValidateRelativePath(args.Path); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	snap, err := fsutil.Stat(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	out, _ := json.Marshal(snap)
	return out, nil
}
