package patch

import (
	"fmt"
	"strings"
)

// ApplyUnified applies a single-file unified diff (the classic
// "--- a/path\n+++ b/path\n@@ ... @@" format produced by `diff -u` or
// `git diff`) to content and returns the patched text. It reuses the
// same hunk-matching algorithm as the patch DSL's Update File: each
// hunk's expected_old/replacement are built from its context/-/+
// lines and spliced in starting from a cursor that restarts at 0 on a
// miss.
func ApplyUnified(content, diffText string) (string, error) {
	hunks, err := parseUnifiedHunks(diffText)
	if err != nil {
		return "", err
	}
	if len(hunks) == 0 {
		return "", fmt.Errorf("unified diff: no hunks found")
	}
	return applyHunks(content, hunks)
}

// parseUnifiedHunks extracts the @@ ... @@ hunks from a unified diff,
// ignoring the --- / +++ file header lines. Lines beginning with '\'
// (e.g. "\ No newline at end of file") are ignored.
func parseUnifiedHunks(diffText string) ([]Hunk, error) {
	lines := strings.Split(strings.ReplaceAll(diffText, "\r\n", "\n"), "\n")

	var hunks []Hunk
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			i++
			continue
		}
		if strings.HasPrefix(line, "@@") {
			i++
			var hunkLines []HunkLine
			for i < len(lines) {
				l := lines[i]
				if strings.HasPrefix(l, "@@") || strings.HasPrefix(l, "--- ") || strings.HasPrefix(l, "+++ ") {
					break
				}
				if l == "" {
					i++
					continue
				}
				if l[0] == '\\' {
					i++
					continue
				}
				switch l[0] {
				case ' ':
					hunkLines = append(hunkLines, HunkLine{Kind: LineContext, Text: l[1:]})
				case '-':
					hunkLines = append(hunkLines, HunkLine{Kind: LineRemove, Text: l[1:]})
				case '+':
					hunkLines = append(hunkLines, HunkLine{Kind: LineAdd, Text: l[1:]})
				default:
					return nil, fmt.Errorf("unified diff: unrecognized line %q", l)
				}
				i++
			}
			if len(hunkLines) == 0 {
				return nil, fmt.Errorf("unified diff: hunk has no lines")
			}
			hunks = append(hunks, Hunk{Lines: hunkLines})
			continue
		}
		i++
	}
	return hunks, nil
}
