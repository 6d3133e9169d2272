package openai

import (
	"os"
	"testing"
)

func TestBridgeEnvSetsDestinationFromSource(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	bridgeEnv("LLM_API_KEY", "OPENAI_API_KEY")

	if got := os.Getenv("LLM_API_KEY"); got != "sk-test" {
		t.Errorf("LLM_API_KEY = %q, want sk-test", got)
	}
}

func TestBridgeEnvLeavesExistingDestinationAlone(t *testing.T) {
	t.Setenv("LLM_API_KEY", "already-set")
	t.Setenv("OPENAI_API_KEY", "sk-other")

	bridgeEnv("LLM_API_KEY", "OPENAI_API_KEY")

	if got := os.Getenv("LLM_API_KEY"); got != "already-set" {
		t.Errorf("LLM_API_KEY = %q, want already-set (unchanged)", got)
	}
}
