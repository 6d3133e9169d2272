package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

type readFileArgs struct {
	Path string `json:"path" jsonschema:"required,description=Relative path of the file to read"`
}

type fileMetadata struct {
	Hash        string `json:"hash"`
	MtimeUnixMs int64  `json:"mtime_unix_ms"`
	SizeBytes   int64  `json:"size_bytes"`
}

// ReadFileTool reads an entire file's content. Tool name: "read_file".
type ReadFileTool struct{}

func (ReadFileTool) Name() string            { return "read_file" }
func (ReadFileTool) Description() string     { return "Read a file's full content and metadata." }
func (ReadFileTool) Parameters() json.RawMessage { return tool.Schema(&readFileArgs{}) }

func (ReadFileTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args readFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := fsutil.ValidateRelativePath(args.Path); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	content, err := os.ReadFile(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	snap, err := fsutil.Stat(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	out, _ := json.Marshal(map[string]any{
		"content": string(content),
		"metadata": fileMetadata{
			Hash: snap.Hash, MtimeUnixMs: snap.MtimeUnixMs, SizeBytes: snap.SizeBytes,
		},
	})
	return out, nil
}
