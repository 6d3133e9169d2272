package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	trailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	if trailingNewline && len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

type readHeadTailArgs struct {
	Path     string `json:"path" jsonschema:"required,description=Relative path of the file to read"`
	MaxLines int    `json:"max_lines" jsonschema:"required,description=Maximum number of lines to return"`
}

// ReadFileHeadTool returns a file's first max_lines lines. Tool name:
// "read_file_head".
type ReadFileHeadTool struct{}

func (ReadFileHeadTool) Name() string        { return "read_file_head" }
func (ReadFileHeadTool) Description() string { return "Read the first N lines of a file." }
func (ReadFileHeadTool) Parameters() json.RawMessage { return tool.Schema(&readHeadTailArgs{}) }

func (ReadFileHeadTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args readHeadTailArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := fsutil.ValidateRelativePath(args.Path); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	lines, err := readLines(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	n := args.MaxLines
	if n > len(lines) || n <= 0 {
		n = len(lines)
	}
	out, _ := json.Marshal(map[string]any{"lines": lines[:n], "total_lines": len(lines)})
	return out, nil
}

// ReadFileTailTool returns a file's last max_lines lines. Tool name:
// "read_file_tail".
type ReadFileTailTool struct{}

func (ReadFileTailTool) Name() string        { return "read_file_tail" }
func (ReadFileTailTool) Description() string { return "Read the last N lines of a file." }
func (ReadFileTailTool) Parameters() json.RawMessage { return tool.Schema(&readHeadTailArgs{}) }

func (ReadFileTailTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args readHeadTailArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := fsutil.ValidateRelativePath(args.Path); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	lines, err := readLines(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	n := args.MaxLines
	if n > len(lines) || n <= 0 {
		n = len(lines)
	}
	out, _ := json.Marshal(map[string]any{"lines": lines[len(lines)-n:], "total_lines": len(lines)})
	return out, nil
}

type readRangeArgs struct {
	Path      string `json:"path" jsonschema:"required,description=Relative path of the file to read"`
	StartLine int    `json:"start_line" jsonschema:"required,description=1-indexed inclusive start line"`
	EndLine   int    `json:"end_line" jsonschema:"required,description=1-indexed inclusive end line"`
}

// ReadFileRangeTool returns lines [start_line, end_line] (1-indexed,
// inclusive, clamped to the file's extent). Tool name:
// "read_file_range".
type ReadFileRangeTool struct{}

func (ReadFileRangeTool) Name() string        { return "read_file_range" }
func (ReadFileRangeTool) Description() string { return "Read an inclusive 1-indexed line range from a file." }
func (ReadFileRangeTool) Parameters() json.RawMessage { return tool.Schema(&readRangeArgs{}) }

func (ReadFileRangeTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args readRangeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := fsutil.ValidateRelativePath(args.Path); err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	lines, err := readLines(args.Path)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	start := args.StartLine
	end := args.EndLine
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		out, _ := json.Marshal(map[string]any{"lines": []string{}, "total_lines": len(lines)})
		return out, nil
	}
	out, _ := json.Marshal(map[string]any{"lines": lines[start-1 : end], "total_lines": len(lines)})
	return out, nil
}
