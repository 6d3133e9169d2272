package hook

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/rxkernel/rx/internal/event"
)

// CommitMessageGenerator produces a one-line commit message summarizing
// a diff. Implementations may call out to a model; a fallback literal
// is always used on error or empty diff.
type CommitMessageGenerator interface {
	CommitMessage(ctx context.Context, diff string) (string, error)
}

const defaultCommitMessage = "rx: update"

// AutoCommitHook stages and commits working-tree changes after every
// non-done tool_output event. It is a silent no-op when git is absent
// or the working tree is not a repository, and every failure along the
// way is swallowed — auto-commit must never interrupt the kernel.
type AutoCommitHook struct {
	Dir       string
	Generator CommitMessageGenerator
}

// NewAutoCommitHook binds the hook to a working directory and message
// generator.
func NewAutoCommitHook(dir string, gen CommitMessageGenerator) *AutoCommitHook {
	return &AutoCommitHook{Dir: dir, Generator: gen}
}

// OnEvent ignores every event except tool_output from a tool other than
// done.
func (h *AutoCommitHook) OnEvent(ctx context.Context, ev event.Event) error {
	if ev.Kind != event.KindToolOutput {
		return nil
	}
	var out event.ToolCallOutputPayload
	if err := json.Unmarshal(ev.Payload, &out); err != nil {
		return nil
	}
	if out.Name == "done" {
		return nil
	}
	h.commit(ctx)
	return nil
}

func (h *AutoCommitHook) commit(ctx context.Context) {
	if h.run(ctx, "add", ".") != 0 {
		return
	}
	// exit 0 = no staged changes, 1 = staged changes present, anything
	// else is an unexpected git failure — either way, stop silently.
	switch h.run(ctx, "diff", "--cached", "--quiet") {
	case 0:
		return
	case 1:
		// fall through to commit
	default:
		return
	}

	diff, ok := h.output(ctx, "diff", "--cached")
	if !ok || strings.TrimSpace(diff) == "" {
		return
	}

	message := defaultCommitMessage
	if h.Generator != nil {
		if msg, err := h.Generator.CommitMessage(ctx, diff); err == nil {
			if trimmed := strings.TrimSpace(msg); trimmed != "" {
				message = trimmed
			}
		}
	}
	h.run(ctx, "commit", "-m", message)
}

// run executes git with args in h.Dir and returns its exit code, or -1
// if git could not even be started (absent from PATH, etc).
func (h *AutoCommitHook) run(ctx context.Context, args ...string) int {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = h.Dir
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return -1
	}
	return 0
}

func (h *AutoCommitHook) output(ctx context.Context, args ...string) (string, bool) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = h.Dir
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	return string(out), true
}
