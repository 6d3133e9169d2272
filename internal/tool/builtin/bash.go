package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rxkernel/rx/internal/executil"
	"github.com/rxkernel/rx/internal/tool"
)

// dangerousPatterns is a static denylist of destructive command
// fragments checked before a bash script is allowed to run. This is not
// a sandbox — it is a best-effort guard against the most common
// catastrophic mistakes (spec.md explicitly scopes sandboxing out).
var dangerousPatterns = []string{
	"rm -rf /",
	"rm -rf ~",
	"rm -rf *",
	"rm -rf .",
	":(){ :|:& };:", // fork bomb
	"mkfs",
	"dd if=",
	"> /dev/sda",
	"shutdown",
	"reboot",
	"halt",
	"init 0",
	"init 6",
	"systemctl poweroff",
	"systemctl halt",
	"pkill -9",
	"chmod -R 000 /",
}

func isDangerous(script string) bool {
	lower := strings.ToLower(script)
	for _, p := range dangerousPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	// "kill -9 1" targets the init process under any amount of internal
	// whitespace; scan every occurrence rather than stopping at the first.
	idx := 0
	for {
		i := strings.Index(lower[idx:], "kill -9")
		if i < 0 {
			break
		}
		rest := strings.TrimSpace(lower[idx+i+len("kill -9"):])
		if rest == "1" || strings.HasPrefix(rest, "1 ") || strings.HasPrefix(rest, "1;") || strings.HasPrefix(rest, "1\n") {
			return true
		}
		idx += i + len("kill -9")
	}
	return false
}

type bashArgs struct {
	Script         string `json:"script" jsonschema:"required,description=Bash script text"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"description=Timeout in seconds; default 30"`
}

type bashResult struct {
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode int    `json:"exit_code"`
	Success  bool   `json:"success"`
}

// BashTool executes a bash script via /bin/sh -c, after a denylist
// check. Tool name: "bash".
type BashTool struct{}

func (BashTool) Name() string { return "bash" }
func (BashTool) Description() string {
	return "Execute a bash script. The script runs via the host shell; destructive command fragments are rejected before spawning."
}
func (BashTool) Parameters() json.RawMessage { return tool.Schema(&bashArgs{}) }

func (BashTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args bashArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if isDangerous(args.Script) {
		return tool.ErrorResult("script rejected: matches a denylisted destructive pattern"), nil
	}

	res, err := executil.Run(ctx, executil.Spec{
		Command:        "/bin/sh",
		Args:           []string{"-c", args.Script},
		TimeoutSeconds: args.TimeoutSeconds,
		CaptureStdout:  true,
		CaptureStderr:  true,
		MaxStdoutBytes: executil.DefaultMaxStdoutBytes,
		MaxStderrBytes: executil.DefaultMaxStderrBytes,
	})
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	if res.TimedOut {
		out, _ := json.Marshal(map[string]any{"error": "timeout", "success": false})
		return out, nil
	}
	out, _ := json.Marshal(bashResult{
		Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode, Success: res.Success,
	})
	return out, nil
}
