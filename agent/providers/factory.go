package providers

import (
	"context"
	"fmt"

	"github.com/tripdesk/tripdesk/agent"
)

// New creates a Generator from configuration. Optional executors override
// the default registry-backed tool execution; the first non-nil one wins.
func New(ctx context.Context, cfg *Config, executors ...ToolExecutor) (agent.Generator, error) {
	var exec ToolExecutor
	for _, e := range executors {
		if e != nil {
			exec = e
			break
		}
	}

	switch cfg.Provider {
	case "", "openai":
		if exec != nil {
			return NewOpenAI(cfg, WithToolExecutor(exec)), nil
		}
		return NewOpenAI(cfg), nil
	case "gemini":
		if exec != nil {
			return NewGemini(ctx, cfg, WithGeminiToolExecutor(exec))
		}
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
