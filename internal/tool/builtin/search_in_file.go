package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rxkernel/rx/internal/fsutil"
	"github.com/rxkernel/rx/internal/tool"
)

type searchInFileArgs struct {
	Path          string `json:"path" jsonschema:"required,description=Relative path of the file to search"`
	Query         string `json:"query" jsonschema:"required,description=Literal substring or regular expression"`
	IsRegex       bool   `json:"is_regex,omitempty" jsonschema:"description=Treat query as a regular expression"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"description=Case-sensitive match; default false"`
	MaxMatches    int    `json:"max_matches,omitempty" jsonschema:"description=Maximum matches to return; default 50"`
	BeforeLines   int    `json:"before_lines,omitempty" jsonschema:"description=Context lines before each match"`
	AfterLines    int    `json:"after_lines,omitempty" jsonschema:"description=Context lines after each match"`
}

type searchMatch struct {
	LineNumber int      `json:"line_number"`
	Line       string   `json:"line"`
	Before     []string `json:"before,omitempty"`
	After      []string `json:"after,omitempty"`
}

const defaultMaxMatches = 50

// SearchInFileTool searches a file line by line for a literal substring
// or regular expression, with optional surrounding context. Tool name:
// "search_in_file".
type SearchInFileTool struct{}

func (SearchInFileTool) Name() string        { return "search_in_file" }
func (SearchInFileTool) Description() string { return "Search a file for a literal substring or regular expression, returning matching lines with optional context." }
func (SearchInFileTool) Parameters() json.RawMessage { return tool.Schema(&searchInFileArgs{}) }

func (SearchInFileTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args searchInFileArgs
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

	maxMatches := args.MaxMatches
	if maxMatches <= 0 {
		maxMatches = defaultMaxMatches
	}

	var matcher func(string) bool
	if args.IsRegex {
		flags := ""
		if !args.CaseSensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + args.Query)
		if err != nil {
			return tool.ErrorResult(fmt.Sprintf("invalid regex: %v", err)), nil
		}
		matcher = re.MatchString
	} else {
		query := args.Query
		if !args.CaseSensitive {
			query = strings.ToLower(query)
		}
		matcher = func(line string) bool {
			if !args.CaseSensitive {
				line = strings.ToLower(line)
			}
			return strings.Contains(line, query)
		}
	}

	var matches []searchMatch
	truncated := false
	for i, line := range lines {
		if !matcher(line) {
			continue
		}
		if len(matches) >= maxMatches {
			truncated = true
			break
		}
		m := searchMatch{LineNumber: i + 1, Line: line}
		if args.BeforeLines > 0 {
			start := i - args.BeforeLines
			if start < 0 {
				start = 0
			}
			m.Before = append([]string{}, lines[start:i]...)
		}
		if args.AfterLines > 0 {
			end := i + 1 + args.AfterLines
			if end > len(lines) {
				end = len(lines)
			}
			m.After = append([]string{}, lines[i+1:end]...)
		}
		matches = append(matches, m)
	}

	out, _ := json.Marshal(map[string]any{"matches": matches, "truncated": truncated})
	return out, nil
}
