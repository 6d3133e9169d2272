package executil

import (
	"context"
	"strings"
	"testing"
)

func TestRunCapturesStdout(t *testing.T) {
	res, err := Run(context.Background(), Spec{
		Command:       "/bin/sh",
		Args:          []string{"-c", "echo hello"},
		CaptureStdout: true,
		CaptureStderr: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success || res.ExitCode != 0 {
		t.Fatalf("Run result = %+v, want success exit 0", res)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	res, err := Run(context.Background(), Spec{
		Command:       "/bin/sh",
		Args:          []string{"-c", "exit 3"},
		CaptureStdout: true,
		CaptureStderr: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Success || res.ExitCode != 3 {
		t.Fatalf("Run result = %+v, want failure exit 3", res)
	}
}

func TestRunTimeout(t *testing.T) {
	res, err := Run(context.Background(), Spec{
		Command:        "/bin/sh",
		Args:           []string{"-c", "sleep 5"},
		TimeoutSeconds: 1,
		CaptureStdout:  true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.TimedOut || res.Success {
		t.Fatalf("Run result = %+v, want timed out", res)
	}
}

func TestRunTruncatesStdout(t *testing.T) {
	res, err := Run(context.Background(), Spec{
		Command:        "/bin/sh",
		Args:           []string{"-c", "yes x | head -c 100000"},
		CaptureStdout:  true,
		MaxStdoutBytes: 100,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.StdoutTruncated {
		t.Error("StdoutTruncated = false, want true")
	}
	if len(res.Stdout) > 100 {
		t.Errorf("Stdout length = %d, want <= 100", len(res.Stdout))
	}
}

func TestRunStdin(t *testing.T) {
	res, err := Run(context.Background(), Spec{
		Command:       "/bin/cat",
		HasStdin:      true,
		Stdin:         "piped input\n",
		CaptureStdout: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "piped input" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "piped input")
	}
}
