package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

// skipDirs lists directory names never descended into during a find —
// version control metadata and dependency caches are never the target
// of a code search and can be enormous.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, ".hg": true, ".svn": true, "vendor": true,
}

const defaultFindLimit = 100

type findFilesArgs struct {
	Root         string   `json:"root,omitempty" jsonschema:"description=Root directory to search from; default '.'"`
	MaxDepth     int      `json:"max_depth,omitempty" jsonschema:"description=Maximum directory depth below root; 0 means unlimited"`
	IncludeHidden bool    `json:"include_hidden,omitempty" jsonschema:"description=Include dotfiles/dotdirs"`
	Extensions   []string `json:"extensions,omitempty" jsonschema:"description=Only match files with one of these extensions (no leading dot)"`
	NameContains string   `json:"name_contains,omitempty" jsonschema:"description=Substring the base name must contain"`
	PathContains string   `json:"path_contains,omitempty" jsonschema:"description=Substring the relative path must contain"`
	ExcludeDirs  []string `json:"exclude_dirs,omitempty" jsonschema:"description=Additional directory names to skip"`
	Limit        int      `json:"limit,omitempty" jsonschema:"description=Maximum results to return; default 100"`
	Cursor       string   `json:"cursor,omitempty" jsonschema:"description=Resume after this relative path from a prior truncated call"`
}

// FindFilesTool recursively walks root, returning relative paths to
// files matching the given filters in deterministic (lexicographic)
// order, paginated via a cursor. Tool name: "find_files".
type FindFilesTool struct{}

func (FindFilesTool) Name() string        { return "find_files" }
func (FindFilesTool) Description() string { return "Recursively find files under a root directory matching extension/name/path filters." }
func (FindFilesTool) Parameters() json.RawMessage { return tool.Schema(&findFilesArgs{}) }

func (FindFilesTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args findFilesArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	root := args.Root
	if root == "" {
		root = "."
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}

	exclude := map[string]bool{}
	for k, v := range skipDirs {
		exclude[k] = v
	}
	for _, d := range args.ExcludeDirs {
		exclude[d] = true
	}

	extSet := map[string]bool{}
	for _, e := range args.Extensions {
		extSet[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries rather than aborting the whole walk
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if exclude[name] || (!args.IncludeHidden && fsutil.IsHiddenName(name)) {
				return filepath.SkipDir
			}
			if args.MaxDepth > 0 && strings.Count(filepath.ToSlash(rel), "/")+1 > args.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !args.IncludeHidden && fsutil.IsHiddenName(name) {
			return nil
		}
		if len(extSet) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
			if !extSet[ext] {
				return nil
			}
		}
		if args.NameContains != "" && !strings.Contains(name, args.NameContains) {
			return nil
		}
		relSlash := filepath.ToSlash(rel)
		if args.PathContains != "" && !strings.Contains(relSlash, args.PathContains) {
			return nil
		}
		matches = append(matches, relSlash)
		return nil
	})
	if err != nil && err != ctx.Err() {
		return tool.ErrorResult(err.Error()), nil
	}

	sort.Strings(matches)

	start := 0
	if args.Cursor != "" {
		for i, m := range matches {
			if m == args.Cursor {
				start = i + 1
				break
			}
		}
	}

	truncated := false
	var page []string
	for i := start; i < len(matches); i++ {
		if len(page) >= limit {
			truncated = true
			break
		}
		page = append(page, matches[i])
	}

	result := map[string]any{"paths": page, "truncated": truncated}
	if truncated {
		result["next_cursor"] = page[len(page)-1]
	}
	out, _ := json.Marshal(result)
	return out, nil
}
