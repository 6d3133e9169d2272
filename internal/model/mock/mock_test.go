package mock

import (
	"context"
	"testing"
)

func TestCommitMessageUsesHeuristicByDefault(t *testing.T) {
	m := New()
	diff := "diff --git a/foo.txt b/foo.txt\n--- a/foo.txt\n+++ b/foo.txt\n@@\n+hi\n"

	got, err := m.CommitMessage(context.Background(), diff)
	if err != nil {
		t.Fatalf("CommitMessage: %v", err)
	}
	if got != "rx: update foo.txt" {
		t.Errorf("CommitMessage = %q, want %q", got, "rx: update foo.txt")
	}
}

func TestCommitMessageFuncOverridesHeuristic(t *testing.T) {
	m := New()
	m.CommitMessageFunc = func(diff string) (string, error) {
		return "custom message", nil
	}

	got, err := m.CommitMessage(context.Background(), "anything")
	if err != nil {
		t.Fatalf("CommitMessage: %v", err)
	}
	if got != "custom message" {
		t.Errorf("CommitMessage = %q, want %q", got, "custom message")
	}
}
