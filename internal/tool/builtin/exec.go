// Package builtin implements the core tool set: subprocess execution
// and filesystem mutation/inspection.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/executil"
	"github.com/rxkernel/rx/internal/tool"
)

// execArgs is the common argument shape for exec, exec_capture,
// exec_status, and exec_with_input.
type execArgs struct {
	Command        string   `json:"command" jsonschema:"required,description=Executable to run"`
	Args           []string `json:"args,omitempty" jsonschema:"description=Arguments passed to command"`
	Cwd            string   `json:"cwd,omitempty" jsonschema:"description=Working directory; defaults to the process cwd"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" jsonschema:"description=Timeout in seconds; default 30"`
}

type execResult struct {
	Operation       string `json:"operation"`
	Command         string `json:"command"`
	Args            []string `json:"args,omitempty"`
	Cwd             string `json:"cwd,omitempty"`
	ExitCode        int    `json:"exit_code"`
	Success         bool   `json:"success"`
	TimedOut        bool   `json:"timed_out"`
	DurationMs      int64  `json:"duration_ms"`
	Stdout          string `json:"stdout,omitempty"`
	Stderr          string `json:"stderr,omitempty"`
	StdoutTruncated bool   `json:"stdout_truncated"`
	StderrTruncated bool   `json:"stderr_truncated"`
}

// ExecTool runs a command with default bounded capture of both stdout
// and stderr. Tool name: "exec".
type ExecTool struct{}

func (ExecTool) Name() string { return "exec" }
func (ExecTool) Description() string {
	return "Execute a command with default bounded capture semantics. Use exec_status/exec_capture/exec_with_input for more targeted behaviors."
}
func (ExecTool) Parameters() json.RawMessage { return tool.Schema(&execArgs{}) }

func (ExecTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args execArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	res, err := executil.Run(ctx, executil.Spec{
		Command:        args.Command,
		Args:           args.Args,
		Cwd:            args.Cwd,
		TimeoutSeconds: args.TimeoutSeconds,
		CaptureStdout:  true,
		CaptureStderr:  true,
		MaxStdoutBytes: executil.DefaultMaxStdoutBytes,
		MaxStderrBytes: executil.DefaultMaxStderrBytes,
	})
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	out, _ := json.Marshal(execResult{
		Operation: "exec", Command: args.Command, Args: args.Args, Cwd: args.Cwd,
		ExitCode: res.ExitCode, Success: res.Success, TimedOut: res.TimedOut,
		DurationMs: res.DurationMs, Stdout: res.Stdout, Stderr: res.Stderr,
		StdoutTruncated: res.StdoutTruncated, StderrTruncated: res.StderrTruncated,
	})
	return out, nil
}
