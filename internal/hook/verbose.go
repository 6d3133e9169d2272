package hook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rxkernel/rx/internal/event"
)

// VerboseHook prints action and tool_output events to standard output
// in a human-readable form.
type VerboseHook struct {
	Print func(string)
}

// NewVerboseHook returns a hook that prints via fmt.Println unless
// print is supplied (tests may substitute a capturing func).
func NewVerboseHook(print func(string)) *VerboseHook {
	if print == nil {
		print = func(s string) { fmt.Println(s) }
	}
	return &VerboseHook{Print: print}
}

// OnEvent renders action and tool_output events; other kinds are
// ignored.
func (h *VerboseHook) OnEvent(ctx context.Context, ev event.Event) error {
	switch ev.Kind {
	case event.KindAction:
		var action struct {
			Text string `json:"text"`
			Name string `json:"name"`
			ID   string `json:"id"`
			Args json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(ev.Payload, &action); err != nil {
			return fmt.Errorf("hook: verbose decode action: %w", err)
		}
		if action.Name != "" {
			h.Print(fmt.Sprintf("tool-verbose tool input %s [%s]: %s", action.Name, action.ID, string(action.Args)))
		} else {
			h.Print(fmt.Sprintf("tool-verbose action message: %s", action.Text))
		}
	case event.KindToolOutput:
		var out event.ToolCallOutputPayload
		if err := json.Unmarshal(ev.Payload, &out); err != nil {
			return fmt.Errorf("hook: verbose decode tool_output: %w", err)
		}
		h.Print(fmt.Sprintf("tool-verbose tool output %s: %s", out.Name, string(out.Output)))
	}
	return nil
}
