package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

// preconditionFailure builds the {success:false, error:"precondition_failed", expected, actual}
// shape shared by every mutating tool. expected uses the same unprefixed
// field names as actual (hash, mtime_unix_ms, size_bytes) rather than
// Precondition's own expected_-prefixed argument names, per spec.md §8
// scenario 3.
func preconditionFailure(p *fsutil.Precondition, actual fsutil.Snapshot) json.RawMessage {
	out, _ := json.Marshal(map[string]any{
		"success":  false,
		"error":    "precondition_failed",
		"expected": expectedSnapshotFields(p),
		"actual":   actual,
	})
	return out
}

// expectedSnapshotFields renders only the precondition fields the caller
// actually set, keyed the way Snapshot's JSON fields are.
func expectedSnapshotFields(p *fsutil.Precondition) map[string]any {
	out := map[string]any{}
	if p == nil {
		return out
	}
	if p.ExpectedHash != nil {
		out["hash"] = *p.ExpectedHash
	}
	if p.ExpectedMtimeUnixMs != nil {
		out["mtime_unix_ms"] = *p.ExpectedMtimeUnixMs
	}
	if p.ExpectedSizeBytes != nil {
		out["size_bytes"] = *p.ExpectedSizeBytes
	}
	return out
}

func successResult(extra map[string]any) json.RawMessage {
	result := map[string]any{"success": true}
	for k, v := range extra {
		result[k] = v
	}
	out, _ := json.Marshal(result)
	return out
}

type createFileArgs struct {
	Path         string               `json:"path" jsonschema:"required,description=Relative path of the file to create"`
	Content      string               `json:"content" jsonschema:"required,description=Full content to write"`
	Precondition *fsutil.Precondition `json:"precondition,omitempty"`
}

// CreateFileTool creates a new file, failing if it already exists.
// Tool name: "create_file".
type CreateFileTool struct{}

func (CreateFileTool) Name() string        { return "create_file" }
func (CreateFileTool) Description() string { return "Create a new file with the given content; fails if the file already exists." }
func (CreateFileTool) Parameters() json.RawMessage { return tool.Schema(&createFileArgs{}) }

func (CreateFileTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args createFileArgs
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
	if actual.Exists {
		out, _ := json.Marshal(map[string]any{"success": false, "error": "already_exists"})
		return out, nil
	}

	if err := fsutil.AtomicWrite(args.Path, []byte(args.Content)); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	return successResult(nil), nil
}

type writeFileArgs struct {
	Path         string               `json:"path" jsonschema:"required,description=Relative path of the file to write"`
	Content      string               `json:"content" jsonschema:"required,description=Content to write"`
	Mode         string               `json:"mode" jsonschema:"required,enum=overwrite,enum=append,description=overwrite replaces the file atomically; append opens with create+append"`
	Precondition *fsutil.Precondition `json:"precondition,omitempty"`
}

// WriteFileTool overwrites (atomically) or appends to a file. Tool
// name: "write_file".
type WriteFileTool struct{}

func (WriteFileTool) Name() string        { return "write_file" }
func (WriteFileTool) Description() string { return "Write a file's content, either replacing it atomically or appending." }
func (WriteFileTool) Parameters() json.RawMessage { return tool.Schema(&writeFileArgs{}) }

func (WriteFileTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args writeFileArgs
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

	switch args.Mode {
	case "append":
		if err := appendToFile(args.Path, args.Content); err != nil {
			return tool.ErrorResult(err.Error()), nil
		}
	case "overwrite", "":
		if err := fsutil.AtomicWrite(args.Path, []byte(args.Content)); err != nil {
			return tool.ErrorResult(err.Error()), nil
		}
	default:
		return tool.ErrorResult(fmt.Sprintf("unknown mode %q", args.Mode)), nil
	}
	return successResult(nil), nil
}

func appendToFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return err
	}
	return f.Sync()
}

type appendFileArgs struct {
	Path         string               `json:"path" jsonschema:"required,description=Relative path of the file to append to"`
	Content      string               `json:"content" jsonschema:"required,description=Content to append"`
	Precondition *fsutil.Precondition `json:"precondition,omitempty"`
}

// AppendFileTool appends content to a file, creating it if absent.
// Tool name: "append_file".
type AppendFileTool struct{}

func (AppendFileTool) Name() string            { return "append_file" }
func (AppendFileTool) Description() string     { return "Append content to a file, creating it if it does not exist." }
func (AppendFileTool) Parameters() json.RawMessage { return tool.Schema(&appendFileArgs{}) }

func (AppendFileTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args appendFileArgs
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

	if err := appendToFile(args.Path, args.Content); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	return successResult(nil), nil
}

type replaceInFileArgs struct {
	Path            string               `json:"path" jsonschema:"required,description=Relative path of the file to edit"`
	OldText         string               `json:"old_text" jsonschema:"required,description=Text to find"`
	NewText         string               `json:"new_text" jsonschema:"required,description=Replacement text"`
	ExpectedMatches int                  `json:"expected_matches,omitempty" jsonschema:"description=Exact number of occurrences expected; default 1"`
	Precondition    *fsutil.Precondition `json:"precondition,omitempty"`
}

// ReplaceInFileTool replaces the first expected_matches occurrences of
// old_text with new_text, guarded by an exact-match-count check. Tool
// name: "replace_in_file".
type ReplaceInFileTool struct{}

func (ReplaceInFileTool) Name() string        { return "replace_in_file" }
func (ReplaceInFileTool) Description() string { return "Replace occurrences of a literal substring in a file, guarded by an exact expected match count." }
func (ReplaceInFileTool) Parameters() json.RawMessage { return tool.Schema(&replaceInFileArgs{}) }

func (ReplaceInFileTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args replaceInFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := fsutil.ValidateRelativePath(args.Path); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	expected := args.ExpectedMatches
	if expected <= 0 {
		expected = 1
	}

	ok, actual, err := fsutil.Check(args.Path, args.Precondition)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	if !ok {
		return preconditionFailure(args.Precondition, actual), nil
	}

	data, err := os.ReadFile(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	content := string(data)
	actualMatches := strings.Count(content, args.OldText)
	if actualMatches != expected {
		out, _ := json.Marshal(map[string]any{
			"success": false, "error": "unexpected_match_count", "actual_matches": actualMatches,
		})
		return out, nil
	}

	replaced := replaceN(content, args.OldText, args.NewText, expected)
	if err := fsutil.AtomicWrite(args.Path, []byte(replaced)); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	return successResult(nil), nil
}

// replaceN replaces the first n occurrences of old with new in s,
// left to right.
func replaceN(s, old, new string, n int) string {
	return strings.Replace(s, old, new, n)
}
