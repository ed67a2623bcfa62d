package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/tripdesk/tripdesk/agent"
	"github.com/tripdesk/tripdesk/core/protocol"
)

// Gemini is a Generator backed by the Gemini API. Tool calls surface as
// function calls in candidates; results are returned as function response
// parts on a follow-up generation.
type Gemini struct {
	cfg    Config
	client *genai.Client
	exec   ToolExecutor
}

// GeminiOption configures a Gemini provider.
type GeminiOption func(*Gemini)

// WithGeminiToolExecutor overrides the default registry-backed tool executor.
func WithGeminiToolExecutor(exec ToolExecutor) GeminiOption {
	return func(p *Gemini) { p.exec = exec }
}

// NewGemini creates a Gemini provider from configuration.
func NewGemini(ctx context.Context, cfg *Config, opts ...GeminiOption) (*Gemini, error) {
	merged := DefaultConfig()
	merged.Merge(cfg)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: merged.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	p := &Gemini{cfg: merged, client: client, exec: defaultToolExecutor{}}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Generate runs the generation, executing any requested function calls and
// feeding the results back until the model produces final text or the
// tool-round budget is exhausted.
func (p *Gemini) Generate(ctx context.Context, def agent.Definition, messages []protocol.Message, toolDefs []protocol.Tool) (string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == protocol.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	genCfg := &genai.GenerateContentConfig{}
	if def.Instructions != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(def.Instructions, genai.RoleUser)
	}
	if len(toolDefs) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(toolDefs))
		for _, t := range toolDefs {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:                 t.Name,
				Description:          t.Description,
				ParametersJsonSchema: t.Parameters,
			})
		}
		genCfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	for round := 0; round <= p.cfg.MaxToolRounds; round++ {
		resp, err := p.client.Models.GenerateContent(ctx, p.cfg.Model, contents, genCfg)
		if err != nil {
			return "", fmt.Errorf("gemini generation failed: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return resp.Text(), nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				return "", fmt.Errorf("failed to encode function call args: %w", err)
			}

			result, execErr := p.exec.Execute(ctx, call.Name, args)
			payload := map[string]any{"result": toolResultContent(result, execErr)}
			if execErr != nil || result.IsError {
				payload["is_error"] = true
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, payload))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", p.cfg.MaxToolRounds)
}
