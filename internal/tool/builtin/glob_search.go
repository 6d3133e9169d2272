package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

type globSearchArgs struct {
	Pattern       string `json:"pattern" jsonschema:"required,description=Glob pattern matched against each entry's relative path, e.g. **/*.go"`
	Root          string `json:"root,omitempty" jsonschema:"description=Root directory to search from; default '.'"`
	Kind          string `json:"kind,omitempty" jsonschema:"enum=file,enum=dir,description=Restrict results to this entry kind"`
	IncludeHidden bool   `json:"include_hidden,omitempty" jsonschema:"description=Include dotfiles/dotdirs"`
	MaxResults    int    `json:"max_results,omitempty" jsonschema:"description=Maximum results to return; default 100"`
	Cursor        string `json:"cursor,omitempty" jsonschema:"description=Resume after this relative path from a prior truncated call"`
}

const defaultGlobLimit = 100

// GlobSearchTool matches entries under root against a glob pattern
// (filepath.Match semantics applied per path segment via Glob over the
// whole relative path), in deterministic lexicographic order. Tool
// name: "glob_search".
type GlobSearchTool struct{}

func (GlobSearchTool) Name() string        { return "glob_search" }
func (GlobSearchTool) Description() string { return "Match file/directory paths under a root against a glob pattern." }
func (GlobSearchTool) Parameters() json.RawMessage { return tool.Schema(&globSearchArgs{}) }

func (GlobSearchTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args globSearchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	root := args.Root
	if root == "" {
		root = "."
	}
	limit := args.MaxResults
	if limit <= 0 {
		limit = defaultGlobLimit
	}

	var all []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		relSlash := filepath.ToSlash(rel)
		if !args.IncludeHidden && fsutil.IsHiddenName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() && skipDirs[d.Name()] {
			return filepath.SkipDir
		}

		if args.Kind == "file" && d.IsDir() {
			return nil
		}
		if args.Kind == "dir" && !d.IsDir() {
			return nil
		}

		matched, matchErr := matchGlob(args.Pattern, relSlash)
		if matchErr != nil {
			return matchErr
		}
		if matched {
			all = append(all, relSlash)
		}
		return nil
	})
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}

	sort.Strings(all)

	start := 0
	if args.Cursor != "" {
		for i, m := range all {
			if m == args.Cursor {
				start = i + 1
				break
			}
		}
	}

	truncated := false
	var page []string
	for i := start; i < len(all); i++ {
		if len(page) >= limit {
			truncated = true
			break
		}
		page = append(page, all[i])
	}

	result := map[string]any{"paths": page, "truncated": truncated}
	if truncated {
		result["next_cursor"] = page[len(page)-1]
	}
	out, _ := json.Marshal(result)
	return out, nil
}

// matchGlob supports a "**" path-spanning wildcard in addition to
// filepath.Match's single-segment wildcards, by trying filepath.Match
// against both the full relative path and (when the pattern contains
// "**") the base name alone.
func matchGlob(pattern, relPath string) (bool, error) {
	if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
		return true, nil
	} else if err != nil {
		return false, err
	}
	if containsDoubleStar(pattern) {
		simplified := simplifyDoubleStar(pattern)
		return filepath.Match(simplified, filepath.Base(relPath))
	}
	return false, nil
}

func containsDoubleStar(pattern string) bool {
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] == '*' && pattern[i+1] == '*' {
			return true
		}
	}
	return false
}

// simplifyDoubleStar strips a leading "**/" so the remainder can be
// matched against a base name, e.g. "**/*.go" -> "*.go".
func simplifyDoubleStar(pattern string) string {
	const prefix = "**/"
	for len(pattern) >= len(prefix) && pattern[:len(prefix)] == prefix {
		pattern = pattern[len(prefix):]
	}
	return pattern
}
