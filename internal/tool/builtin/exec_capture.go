package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/executil"
	"github.com/rxkernel/rx/internal/tool"
)

type execCaptureArgs struct {
	execArgs
	MaxStdoutBytes int `json:"max_stdout_bytes,omitempty" jsonschema:"description=Stdout cap in bytes; default 32768"`
	MaxStderrBytes int `json:"max_stderr_bytes,omitempty" jsonschema:"description=Stderr cap in bytes; default 16384"`
}

// ExecCaptureTool is exec with configurable capture caps. Tool name:
// "exec_capture".
type ExecCaptureTool struct{}

func (ExecCaptureTool) Name() string { return "exec_capture" }
func (ExecCaptureTool) Description() string {
	return "Execute a command with caller-configurable stdout/stderr byte caps."
}
func (ExecCaptureTool) Parameters() json.RawMessage { return tool.Schema(&execCaptureArgs{}) }

func (ExecCaptureTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args execCaptureArgs
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
		MaxStdoutBytes: args.MaxStdoutBytes,
		MaxStderrBytes: args.MaxStderrBytes,
	})
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	out, _ := json.Marshal(execResult{
		Operation: "exec_capture", Command: args.Command, Args: args.Args, Cwd: args.Cwd,
		ExitCode: res.ExitCode, Success: res.Success, TimedOut: res.TimedOut,
		DurationMs: res.DurationMs, Stdout: res.Stdout, Stderr: res.Stderr,
		StdoutTruncated: res.StdoutTruncated, StderrTruncated: res.StderrTruncated,
	})
	return out, nil
}
