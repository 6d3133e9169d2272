package builtin

import (
	"context"
	"encoding/json"

	"github.com/rxkernel/rx/internal/tool"
)

type doneArgs struct {
	Reason  string          `json:"reason" jsonschema:"required,description=Concise summary of the completed work"`
	Details json.RawMessage `json:"details,omitempty" jsonschema:"description=Optional structured details: checks run, artifacts produced"`
}

// DoneTool signals that work is complete and requests loop termination.
// It always succeeds and echoes its argument back verbatim — the
// kernel, not the tool, is what turns this into a termination event.
// Tool name: "done".
type DoneTool struct{}

func (DoneTool) Name() string { return "done" }
func (DoneTool) Description() string {
	return "Signal that work is complete and request loop termination. Include a concise reason and optional structured details summarizing final outcome, checks, or artifacts."
}
func (DoneTool) Parameters() json.RawMessage { return tool.Schema(&doneArgs{}) }

func (DoneTool) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args doneArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return tool.ErrorResult("invalid arguments: " + err.Error()), nil
	}
	return raw, nil
}
