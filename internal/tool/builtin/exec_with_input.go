package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/executil"
	"github.com/rxkernel/rx/internal/tool"
)

type execWithInputArgs struct {
	execArgs
	Stdin string `json:"stdin" jsonschema:"required,description=Text written to the child process's stdin, then half-closed"`
}

// ExecWithInputTool runs a command with mandatory stdin. Tool name:
// "exec_with_input".
type ExecWithInputTool struct{}

func (ExecWithInputTool) Name() string { return "exec_with_input" }
func (ExecWithInputTool) Description() string {
	return "Execute a command, writing the given text to its stdin before waiting for it to exit."
}
func (ExecWithInputTool) Parameters() json.RawMessage { return tool.Schema(&execWithInputArgs{}) }

func (ExecWithInputTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args execWithInputArgs
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
		HasStdin:       true,
		Stdin:          args.Stdin,
	})
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	out, _ := json.Marshal(execResult{
		Operation: "exec_with_input", Command: args.Command, Args: args.Args, Cwd: args.Cwd,
		ExitCode: res.ExitCode, Success: res.Success, TimedOut: res.TimedOut,
		DurationMs: res.DurationMs, Stdout: res.Stdout, Stderr: res.Stderr,
		StdoutTruncated: res.StdoutTruncated, StderrTruncated: res.StderrTruncated,
	})
	return out, nil
}
