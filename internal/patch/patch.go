// Package patch implements the bespoke patch DSL (§4.5.1): a small
// grammar of Add/Delete/Update file operations with context-anchored
// hunks, plus unified-diff application for a single file.
package patch

import (
	"fmt"
	"strings"

	"github.com/rxkernel/rx/internal/fsutil"
)

// LineKind classifies one line of a hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineRemove
	LineAdd
)

// HunkLine is one classified line within a hunk.
type HunkLine struct {
	Kind LineKind
	Text string
}

// Hunk is an ordered sequence of classified lines.
type Hunk struct {
	Lines []HunkLine
}

// OpKind tags a FileOp's variant.
type OpKind int

const (
	OpAdd OpKind = iota
	OpDelete
	OpUpdate
)

// FileOp is one operation within a patch.
type FileOp struct {
	Kind   OpKind
	Path   string
	Lines  []string // OpAdd only
	MoveTo string   // OpUpdate only; empty means no move
	Hunks  []Hunk   // OpUpdate only
}

const (
	beginMarker  = "*** Begin Patch"
	endMarker    = "*** End Patch"
	addPrefix    = "*** Add File: "
	deletePrefix = "*** Delete File: "
	updatePrefix = "*** Update File: "
	moveToPrefix = "*** Move to: "
	endOfFile    = "*** End of File"
)

// Parse parses patch text into an ordered list of FileOps. CRLF is
// tolerated (each line's trailing \r is stripped before parsing).
func Parse(text string) ([]FileOp, error) {
	rawLines := strings.Split(text, "\n")
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	// Drop a single trailing empty line from a final \n in the input.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 || lines[0] != beginMarker {
		return nil, fmt.Errorf("patch: must begin with %q", beginMarker)
	}

	var ops []FileOp
	i := 1
	for i < len(lines) {
		line := lines[i]

		if line == endMarker {
			if i != len(lines)-1 {
				return nil, fmt.Errorf("patch: %q must be the last line", endMarker)
			}
			return ops, nil
		}

		switch {
		case strings.HasPrefix(line, addPrefix):
			path := strings.TrimPrefix(line, addPrefix)
			if err := fsutil.ValidateRelativePath(path); err != nil {
				return nil, fmt.Errorf("patch: add file: %w", err)
			}
			i++
			var content []string
			for i < len(lines) && strings.HasPrefix(lines[i], "+") {
				content = append(content, strings.TrimPrefix(lines[i], "+"))
				i++
			}
			ops = append(ops, FileOp{Kind: OpAdd, Path: path, Lines: content})

		case strings.HasPrefix(line, deletePrefix):
			path := strings.TrimPrefix(line, deletePrefix)
			if err := fsutil.ValidateRelativePath(path); err != nil {
				return nil, fmt.Errorf("patch: delete file: %w", err)
			}
			ops = append(ops, FileOp{Kind: OpDelete, Path: path})
			i++

		case strings.HasPrefix(line, updatePrefix):
			path := strings.TrimPrefix(line, updatePrefix)
			if err := fsutil.ValidateRelativePath(path); err != nil {
				return nil, fmt.Errorf("patch: update file: %w", err)
			}
			i++

			moveTo := ""
			if i < len(lines) && strings.HasPrefix(lines[i], moveToPrefix) {
				moveTo = strings.TrimPrefix(lines[i], moveToPrefix)
				if err := fsutil.ValidateRelativePath(moveTo); err != nil {
					return nil, fmt.Errorf("patch: move to: %w", err)
				}
				i++
			}

			var hunks []Hunk
			for i < len(lines) && strings.HasPrefix(lines[i], "@@") {
				i++ // consume the "@@ ..." header line
				var hunkLines []HunkLine
				for i < len(lines) {
					l := lines[i]
					if strings.HasPrefix(l, "@@") || strings.HasPrefix(l, addPrefix) ||
						strings.HasPrefix(l, deletePrefix) || strings.HasPrefix(l, updatePrefix) ||
						l == endMarker {
						break
					}
					if l == endOfFile {
						i++
						break
					}
					if len(l) == 0 {
						return nil, fmt.Errorf("patch: hunk line must start with ' ', '-', or '+'")
					}
					switch l[0] {
					case ' ':
						hunkLines = append(hunkLines, HunkLine{Kind: LineContext, Text: l[1:]})
					case '-':
						hunkLines = append(hunkLines, HunkLine{Kind: LineRemove, Text: l[1:]})
					case '+':
						hunkLines = append(hunkLines, HunkLine{Kind: LineAdd, Text: l[1:]})
					default:
						return nil, fmt.Errorf("patch: hunk line must start with ' ', '-', or '+', got %q", l)
					}
					i++
				}
				if len(hunkLines) == 0 {
					return nil, fmt.Errorf("patch: hunk has no lines")
				}
				hunks = append(hunks, Hunk{Lines: hunkLines})
			}
			if len(hunks) == 0 {
				return nil, fmt.Errorf("patch: update file %s has no hunks", path)
			}
			ops = append(ops, FileOp{Kind: OpUpdate, Path: path, MoveTo: moveTo, Hunks: hunks})

		default:
			return nil, fmt.Errorf("patch: unrecognized line %q", line)
		}
	}

	return nil, fmt.Errorf("patch: missing %q", endMarker)
}

// NormalizeLines joins lines with LF and appends a trailing LF, unless
// lines is empty (in which case the result is empty).
func NormalizeLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
