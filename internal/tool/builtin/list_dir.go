package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

type listDirArgs struct {
	Path string `json:"path,omitempty" jsonschema:"description=Directory to list; default '.'"`
}

// ListDirTool lists the immediate entries of a directory, ordered
// dir < file < symlink < other then lexicographically. Tool name:
// "list_dir".
type ListDirTool struct{}

func (ListDirTool) Name() string        { return "list_dir" }
func (ListDirTool) Description() string { return "List a directory's immediate entries." }
func (ListDirTool) Parameters() json.RawMessage { return tool.Schema(&listDirArgs{}) }

func (ListDirTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args listDirArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	path := args.Path
	if path == "" {
		path = "."
	}
	if path != "." {
		if err := fsutil.ValidateRelativePath(path); err != nil {
			return tool.ErrorResult(err.Error()), nil
		}
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	entries := make([]fsutil.Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, fsutil.Entry{Name: e.Name(), Kind: fsutil.KindFromDirEntry(e)})
	}
	fsutil.SortEntries(entries)

	out, _ := json.Marshal(map[string]any{"entries": entries})
	return out, nil
}
