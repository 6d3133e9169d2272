package hook

import (
	"context"
	"strings"
)

// HeuristicGenerator derives a commit message from the first changed
// file path in a unified diff, without calling a model. Used when no
// model-backed generator is configured (offline / mock runs).
type HeuristicGenerator struct{}

// CommitMessage scans diff for the first "+++ b/<path>" line and
// formats "rx: update <path>"; falls back to a bare "rx: update" when
// no such line is found or the path is /dev/null (a deleted file).
func (HeuristicGenerator) CommitMessage(ctx context.Context, diff string) (string, error) {
	for _, line := range strings.Split(diff, "\n") {
		path, ok := strings.CutPrefix(line, "+++ b/")
		if !ok {
			continue
		}
		path = strings.TrimSpace(path)
		if path == "" || path == "/dev/null" {
			continue
		}
		return "rx: update " + path, nil
	}
	return defaultCommitMessage, nil
}
