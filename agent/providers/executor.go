package providers

import (
	"context"
	"encoding/json"

	"github.com/tripdesk/tripdesk/tools"
)

// ToolExecutor abstracts tool execution for testability. The default
// implementation delegates to the process-wide tools registry.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (tools.Result, error)
}

type defaultToolExecutor struct{}

func (defaultToolExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	return tools.Execute(ctx, name, args)
}

// toolResultContent renders an execution outcome as the text fed back to
// the model. Failures become descriptive error text, never a hard failure.
func toolResultContent(result tools.Result, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return result.Content
}
