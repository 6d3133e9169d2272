package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

type listDirEntriesArgs struct {
	Path   string `json:"path,omitempty" jsonschema:"description=Directory to list; default '.'"`
	Limit  int    `json:"limit,omitempty" jsonschema:"description=Maximum entries to return; default 100"`
	Cursor string `json:"cursor,omitempty" jsonschema:"description=Resume after this relative path from a prior truncated call"`
}

type detailedEntry struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	MtimeUnixMs int64  `json:"mtime_unix_ms,omitempty"`
}

const defaultListLimit = 100

// ListDirEntriesTool lists directory entries with per-entry metadata,
// paginated via a cursor. Tool name: "list_dir_entries".
type ListDirEntriesTool struct{}

func (ListDirEntriesTool) Name() string { return "list_dir_entries" }
func (ListDirEntriesTool) Description() string {
	return "List a directory's entries with size/mtime metadata, paginated by cursor."
}
func (ListDirEntriesTool) Parameters() json.RawMessage { return tool.Schema(&listDirEntriesArgs{}) }

func (ListDirEntriesTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args listDirEntriesArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	path := args.Path
	if path == "" {
		path = "."
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	entries := make([]fsutil.Entry, 0, len(dirEntries))
	infoByName := make(map[string]os.FileInfo, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, fsutil.Entry{Name: e.Name(), Kind: fsutil.KindFromDirEntry(e)})
		if info, err := e.Info(); err == nil {
			infoByName[e.Name()] = info
		}
	}
	fsutil.SortEntries(entries)

	start := 0
	if args.Cursor != "" {
		for i, e := range entries {
			if e.Name == args.Cursor {
				start = i + 1
				break
			}
		}
	}

	var out []detailedEntry
	truncated := false
	nextCursor := ""
	for i := start; i < len(entries); i++ {
		if len(out) >= limit {
			truncated = true
			break
		}
		e := entries[i]
		d := detailedEntry{Name: e.Name, Kind: e.Kind.String()}
		if info, ok := infoByName[e.Name]; ok {
			d.SizeBytes = info.Size()
			d.MtimeUnixMs = info.ModTime().UnixMilli()
		}
		out = append(out, d)
		nextCursor = e.Name
	}

	result := map[string]any{"entries": out, "truncated": truncated}
	if truncated {
		result["next_cursor"] = nextCursor
	}
	data, _ := json.Marshal(result)
	return data, nil
}

