// Package openai adapts an OpenAI-compatible chat completions client
// to the model.Model interface.
package openai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rxkernel/rx/internal/event"
	"github.com/rxkernel/rx/internal/llm"
	llmopenai "github.com/rxkernel/rx/internal/llm/openai"
	"github.com/rxkernel/rx/internal/model"
	"github.com/rxkernel/rx/internal/tool"
)

// Model drives a goal via an OpenAI-compatible endpoint. Construct via
// NewFromEnv.
type Model struct {
	client *llmopenai.Client
}

// NewFromEnv builds a Model from the environment. OPENAI_API_KEY and
// OPENAI_MODEL (the names bootstrap documents to callers per spec.md §6)
// are mapped onto the underlying client's LLM_API_KEY/LLM_MODEL when the
// latter aren't already set, so either naming works.
func NewFromEnv() (*Model, error) {
	bridgeEnv("LLM_API_KEY", "OPENAI_API_KEY")
	bridgeEnv("LLM_MODEL", "OPENAI_MODEL")

	client, err := llmopenai.NewClientFromEnv()
	if err != nil {
		return nil, fmt.Errorf("model/openai: %w", err)
	}
	return &Model{client: client}, nil
}

// bridgeEnv sets dst from src when dst is unset and src has a value.
func bridgeEnv(dst, src string) {
	if os.Getenv(dst) != "" {
		return
	}
	if v := os.Getenv(src); v != "" {
		os.Setenv(dst, v)
	}
}

func (m *Model) NextAction(ctx context.Context, history []event.Event, tools []tool.Descriptor) (model.Action, error) {
	messages, err := model.BuildMessages(history)
	if err != nil {
		return model.Action{}, err
	}
	defs := model.ToolDefinitions(tools)

	resp, err := m.client.CallLLMWithTools(ctx, messages, defs)
	if err != nil {
		return model.Action{}, fmt.Errorf("model/openai: next action: %w", err)
	}
	return model.DecodeAction(resp), nil
}

func (m *Model) CommitMessage(ctx context.Context, diff string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "Summarize the following diff as a single-line, imperative-mood commit message. Respond with only that line, no quotes, no trailing period."},
		{Role: llm.RoleUser, Content: diff},
	}
	resp, err := m.client.CallLLM(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("model/openai: commit message: %w", err)
	}
	for _, line := range strings.Split(resp.Content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("model/openai: empty commit message response")
}
