package builtin

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestExecToolHappyPath(t *testing.T) {
	args, _ := json.Marshal(execArgs{Command: "/bin/sh", Args: []string{"-c", "echo hi"}})
	raw, err := ExecTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res execResult
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !res.Success || strings.TrimSpace(res.Stdout) != "hi" {
		t.Errorf("result = %+v", res)
	}
}

func TestExecStatusToolOmitsStdout(t *testing.T) {
	args, _ := json.Marshal(execArgs{Command: "/bin/sh", Args: []string{"-c", "echo hi; exit 0"}})
	raw, err := ExecStatusTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res execResult
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if res.Stdout != "" {
		t.Errorf("Stdout = %q, want empty (not captured)", res.Stdout)
	}
	if !res.Success {
		t.Errorf("Success = false, want true")
	}
}

func TestExecWithInputToolPipesStdin(t *testing.T) {
	args, _ := json.Marshal(execWithInputArgs{
		execArgs: execArgs{Command: "/bin/cat"},
		Stdin:    "hello stdin\n",
	})
	raw, err := ExecWithInputTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res execResult
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "hello stdin" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello stdin")
	}
}

func TestWhichCommandToolFound(t *testing.T) {
	args, _ := json.Marshal(whichArgs{Command: "sh"})
	raw, err := WhichCommandTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res["found"] != true {
		t.Errorf("found = %v, want true", res["found"])
	}
}

func TestDoneToolEchoesArgument(t *testing.T) {
	args, _ := json.Marshal(doneArgs{Reason: "implemented feature and verified tests"})
	raw, err := DoneTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res doneArgs
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Reason != "implemented feature and verified tests" {
		t.Errorf("Reason = %q", res.Reason)
	}
}

func TestBashToolRejectsDangerousScript(t *testing.T) {
	args, _ := json.Marshal(bashArgs{Script: "rm -rf /"})
	raw, err := BashTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res map[string]string
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res["error"] == "" {
		t.Error("expected rejection error for dangerous script")
	}
}

func TestBashToolRunsSafeScript(t *testing.T) {
	args, _ := json.Marshal(bashArgs{Script: "echo ok"})
	raw, err := BashTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res bashResult
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !res.Success || strings.TrimSpace(res.Stdout) != "ok" {
		t.Errorf("result = %+v", res)
	}
}

func TestBashToolTimeout(t *testing.T) {
	args, _ := json.Marshal(bashArgs{Script: "sleep 5", TimeoutSeconds: 1})
	raw, err := BashTool{}.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res["error"] != "timeout" {
		t.Errorf("result = %+v, want timeout error", res)
	}
}
