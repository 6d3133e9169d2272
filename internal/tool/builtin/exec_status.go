package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/executil"
	"github.com/rxkernel/rx/internal/tool"
)

// ExecStatusTool runs a command without capturing stdout, only a small
// stderr tail for diagnosis. Tool name: "exec_status".
type ExecStatusTool struct{}

func (ExecStatusTool) Name() string { return "exec_status" }
func (ExecStatusTool) Description() string {
	return "Execute a command and report only its exit status, discarding stdout (stderr is captured up to a small cap for diagnosis)."
}
func (ExecStatusTool) Parameters() json.RawMessage { return tool.Schema(&execArgs{}) }

func (ExecStatusTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args execArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	res, err := executil.Run(ctx, executil.Spec{
		Command:        args.Command,
		Args:           args.Args,
		Cwd:            args.Cwd,
		TimeoutSeconds: args.TimeoutSeconds,
		CaptureStdout:  false,
		CaptureStderr:  true,
		MaxStderrBytes: executil.StatusStderrBytes,
	})
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	out, _ := json.Marshal(execResult{
		Operation: "exec_status", Command: args.Command, Args: args.Args, Cwd: args.Cwd,
		ExitCode: res.ExitCode, Success: res.Success, TimedOut: res.TimedOut,
		DurationMs: res.DurationMs, Stderr: res.Stderr, StderrTruncated: res.StderrTruncated,
	})
	return out, nil
}
