package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tripdesk/tripdesk/agent"
	"github.com/tripdesk/tripdesk/core/protocol"
	"github.com/tripdesk/tripdesk/core/response"
)

// OpenAI is a Generator backed by an OpenAI-compatible chat completions
// endpoint. When Config.APIVersion is set it speaks the Azure deployment
// dialect (deployment URL, api-key header) used by Azure OpenAI resources.
type OpenAI struct {
	cfg    Config
	client *http.Client
	exec   ToolExecutor
}

// OpenAIOption configures an OpenAI provider.
type OpenAIOption func(*OpenAI)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(p *OpenAI) { p.client = client }
}

// WithToolExecutor overrides the default registry-backed tool executor.
func WithToolExecutor(exec ToolExecutor) OpenAIOption {
	return func(p *OpenAI) { p.exec = exec }
}

// NewOpenAI creates an OpenAI provider from configuration.
func NewOpenAI(cfg *Config, opts ...OpenAIOption) *OpenAI {
	merged := DefaultConfig()
	merged.Merge(cfg)

	p := &OpenAI{
		cfg:    merged,
		client: &http.Client{Timeout: 120 * time.Second},
		exec:   defaultToolExecutor{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type toolSpec struct {
	Type     string        `json:"type"`
	Function protocol.Tool `json:"function"`
}

type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []protocol.Message `json:"messages"`
	Tools       []toolSpec         `json:"tools,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

// Generate runs the chat completion, executing any tool calls the model
// requests and feeding the results back until the model produces final text
// or the tool-round budget is exhausted.
func (p *OpenAI) Generate(ctx context.Context, def agent.Definition, messages []protocol.Message, toolDefs []protocol.Tool) (string, error) {
	msgs := make([]protocol.Message, 0, len(messages)+1)
	if def.Instructions != "" {
		msgs = append(msgs, protocol.NewMessage(protocol.RoleSystem, def.Instructions))
	}
	msgs = append(msgs, messages...)

	for round := 0; round <= p.cfg.MaxToolRounds; round++ {
		resp, err := p.complete(ctx, msgs, toolDefs)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("backend returned no choices")
		}

		choice := resp.Choices[0]
		if len(choice.Message.ToolCalls) == 0 {
			return choice.Message.Content, nil
		}

		msgs = append(msgs, protocol.Message{
			Role:      protocol.RoleAssistant,
			Content:   choice.Message.Content,
			ToolCalls: choice.Message.ToolCalls,
		})

		for _, tc := range choice.Message.ToolCalls {
			result, execErr := p.exec.Execute(ctx, tc.Name, json.RawMessage(tc.Arguments))
			msgs = append(msgs, protocol.Message{
				Role:       protocol.RoleTool,
				Content:    toolResultContent(result, execErr),
				ToolCallID: tc.ID,
			})
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", p.cfg.MaxToolRounds)
}

func (p *OpenAI) complete(ctx context.Context, msgs []protocol.Message, toolDefs []protocol.Tool) (*response.ChatResponse, error) {
	reqBody := chatRequest{
		Model:       p.cfg.Model,
		Messages:    msgs,
		Temperature: p.cfg.Temperature,
	}
	for _, t := range toolDefs {
		reqBody.Tools = append(reqBody.Tools, toolSpec{Type: "function", Function: t})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIVersion != "" {
		req.Header.Set("api-key", p.cfg.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return response.ParseChat(body)
}

func (p *OpenAI) endpoint() string {
	base := strings.TrimSuffix(p.cfg.BaseURL, "/")
	if p.cfg.APIVersion != "" {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", base, p.cfg.Model, p.cfg.APIVersion)
	}
	return base + "/v1/chat/completions"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
