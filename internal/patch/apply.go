package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Summary reports the aggregate effect of applying a patch.
type Summary struct {
	Patched     bool `json:"patched"`
	AddedFiles  int  `json:"added_files"`
	DeletedFiles int `json:"deleted_files"`
	UpdatedFiles int `json:"updated_files"`
}

// Apply applies ops in order, rooted at root. It fails the whole
// operation (no partial Summary) on the first error — callers should
// treat a returned error as "nothing beyond earlier ops was applied".
func Apply(ops []FileOp, root string) (Summary, error) {
	var s Summary
	for _, op := range ops {
		switch op.Kind {
		case OpAdd:
			if err := applyAdd(root, op); err != nil {
				return Summary{}, err
			}
			s.AddedFiles++
		case OpDelete:
			if err := applyDelete(root, op); err != nil {
				return Summary{}, err
			}
			s.DeletedFiles++
		case OpUpdate:
			if err := applyUpdate(root, op); err != nil {
				return Summary{}, err
			}
			s.UpdatedFiles++
		}
	}
	s.Patched = true
	return s, nil
}

func resolvePath(root, path string) string {
	return filepath.Join(root, filepath.FromSlash(path))
}

func applyAdd(root string, op FileOp) error {
	target := resolvePath(root, op.Path)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("patch: add file: %s already exists", op.Path)
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("patch: add file: create parent dirs: %w", err)
		}
	}
	content := NormalizeLines(op.Lines)
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("patch: add file: %w", err)
	}
	return nil
}

func applyDelete(root string, op FileOp) error {
	target := resolvePath(root, op.Path)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("patch: delete file: %s does not exist", op.Path)
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("patch: delete file: %w", err)
	}
	return nil
}

func applyUpdate(root string, op FileOp) error {
	source := resolvePath(root, op.Path)
	original, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("patch: update file: %s does not exist", op.Path)
	}

	updated, err := applyHunks(string(original), op.Hunks)
	if err != nil {
		return fmt.Errorf("patch: update file %s: %w", op.Path, err)
	}

	destPath := op.Path
	if op.MoveTo != "" {
		destPath = op.MoveTo
	}
	dest := resolvePath(root, destPath)
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("patch: update file: create parent dirs: %w", err)
		}
	}
	if err := os.WriteFile(dest, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("patch: update file: write: %w", err)
	}
	if op.MoveTo != "" && op.MoveTo != op.Path {
		if err := os.Remove(source); err != nil {
			return fmt.Errorf("patch: update file: remove moved source: %w", err)
		}
	}
	return nil
}

// applyHunks splices each hunk into original's line vector in order.
// For each hunk, expected_old is the concatenation of context+remove
// line texts and replacement is the concatenation of context+add line
// texts, both in source order. expected_old is searched for starting
// from a cursor that begins at 0 and advances to the end of the
// previous replacement; if not found there, the search restarts from
// index 0. The file's trailing-newline presence is preserved.
func applyHunks(original string, hunks []Hunk) (string, error) {
	hadTrailingNewline := strings.HasSuffix(original, "\n")
	lines := strings.Split(original, "\n")
	if hadTrailingNewline && len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}

	cursor := 0
	for _, hunk := range hunks {
		var expectedOld, replacement []string
		for _, hl := range hunk.Lines {
			switch hl.Kind {
			case LineContext:
				expectedOld = append(expectedOld, hl.Text)
				replacement = append(replacement, hl.Text)
			case LineRemove:
				expectedOld = append(expectedOld, hl.Text)
			case LineAdd:
				replacement = append(replacement, hl.Text)
			}
		}

		pos, ok := findMatch(lines, expectedOld, cursor)
		if !ok {
			pos, ok = findMatch(lines, expectedOld, 0)
			if !ok {
				return "", fmt.Errorf("could not locate hunk context in target file")
			}
		}

		lines = splice(lines, pos, len(expectedOld), replacement)
		cursor = pos + len(replacement)
	}

	result := strings.Join(lines, "\n")
	if hadTrailingNewline {
		result += "\n"
	}
	return result, nil
}

// findMatch searches lines for a contiguous window equal to expectedOld,
// starting at start. An empty expectedOld matches at start (clamped to
// len(lines)) with no scan needed.
func findMatch(lines, expectedOld []string, start int) (int, bool) {
	if len(expectedOld) == 0 {
		if start > len(lines) {
			start = len(lines)
		}
		return start, true
	}
	if start > len(lines) || len(expectedOld) > len(lines) {
		return 0, false
	}
	for i := start; i+len(expectedOld) <= len(lines); i++ {
		if sliceEqual(lines[i:i+len(expectedOld)], expectedOld) {
			return i, true
		}
	}
	return 0, false
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// splice replaces lines[pos:pos+count] with replacement.
func splice(lines []string, pos, count int, replacement []string) []string {
	out := make([]string, 0, len(lines)-count+len(replacement))
	out = append(out, lines[:pos]...)
	out = append(out, replacement...)
	out = append(out, lines[pos+count:]...)
	return out
}
