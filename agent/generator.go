package agent

import (
	"context"
	"fmt"

	"github.com/tripdesk/tripdesk/core/protocol"
)

// Generator is the black-box generation capability behind every agent.
// Implementations may internally loop, invoking bound tools and feeding the
// results back to the model, before producing the final turn text. Callers
// observe only the final text; intermediate tool calls are not visible.
//
// A returned error means the backend failed (network, auth, malformed
// response) and the caller's round must abort. Tool failures are not errors:
// they surface to the model as error text and the model responds anyway.
type Generator interface {
	Generate(ctx context.Context, def Definition, messages []protocol.Message, tools []protocol.Tool) (string, error)
}

// GenerationError reports a failed generation call for a named agent.
type GenerationError struct {
	Agent string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for agent %s: %v", e.Agent, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
