package response_test

import (
	"testing"

	"github.com/tripdesk/tripdesk/core/response"
)

func TestParseChat_TextContent(t *testing.T) {
	body := `{
		"model": "gpt-4o",
		"choices": [{
			"index": 0,
			"message": {"role": "assistant", "content": "All set."},
			"finish_reason": "stop"
		}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
	}`

	resp, err := response.ParseChat([]byte(body))
	if err != nil {
		t.Fatalf("ParseChat failed: %v", err)
	}

	if len(resp.Choices) != 1 {
		t.Fatalf("got %d choices, want 1", len(resp.Choices))
	}
	if resp.Choices[0].Message.Content != "All set." {
		t.Errorf("got content %q, want %q", resp.Choices[0].Message.Content, "All set.")
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("got total tokens %d, want 15", resp.Usage.TotalTokens)
	}
}

func TestParseChat_ToolCalls(t *testing.T) {
	body := `{
		"model": "gpt-4o",
		"choices": [{
			"index": 0,
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "search_flights", "arguments": "{\"departure_airport\":\"DEN\"}"}
				}]
			},
			"finish_reason": "tool_calls"
		}]
	}`

	resp, err := response.ParseChat([]byte(body))
	if err != nil {
		t.Fatalf("ParseChat failed: %v", err)
	}

	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(calls))
	}
	if calls[0].Name != "search_flights" {
		t.Errorf("got tool name %q, want %q", calls[0].Name, "search_flights")
	}
}

func TestParseChat_Malformed(t *testing.T) {
	if _, err := response.ParseChat([]byte("not json")); err == nil {
		t.Error("expected error for malformed body")
	}
}
