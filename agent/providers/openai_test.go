package providers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tripdesk/tripdesk/agent"
	"github.com/tripdesk/tripdesk/agent/providers"
	"github.com/tripdesk/tripdesk/core/protocol"
	"github.com/tripdesk/tripdesk/tools"
)

// scriptedExecutor records tool executions and returns canned results.
type scriptedExecutor struct {
	calls   []string
	results map[string]tools.Result
	err     error
}

func (e *scriptedExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	e.calls = append(e.calls, name)
	if e.err != nil {
		return tools.Result{}, e.err
	}
	return e.results[name], nil
}

func finalBody(content string) string {
	return `{"model":"test","choices":[{"index":0,"message":{"role":"assistant","content":` + jsonString(content) + `},"finish_reason":"stop"}]}`
}

func toolCallBody(name, args string) string {
	return `{"model":"test","choices":[{"index":0,"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"` + name + `","arguments":` + jsonString(args) + `}}]},"finish_reason":"tool_calls"}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestOpenAI_Generate_FinalText(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("got path %q", r.URL.Path)
		}
		w.Write([]byte(finalBody("Where are you flying from?")))
	}))
	defer srv.Close()

	p := providers.NewOpenAI(&providers.Config{BaseURL: srv.URL, APIKey: "secret"})

	text, err := p.Generate(context.Background(), agent.Definition{Name: "TravelCoordinator", Instructions: "coordinate"}, []protocol.Message{
		protocol.NewMessage(protocol.RoleUser, "plan a trip"),
	}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Where are you flying from?" {
		t.Errorf("got %q", text)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("got auth header %q", gotAuth)
	}
}

func TestOpenAI_Generate_RunsToolLoop(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Write([]byte(toolCallBody("search_flights", `{"departure_airport":"DEN"}`)))
			return
		}
		w.Write([]byte(finalBody("Found 3 flights.")))
	}))
	defer srv.Close()

	exec := &scriptedExecutor{results: map[string]tools.Result{
		"search_flights": {Content: "DEN -> JFK $240"},
	}}
	p := providers.NewOpenAI(&providers.Config{BaseURL: srv.URL}, providers.WithToolExecutor(exec))

	text, err := p.Generate(context.Background(), agent.Definition{Name: "FlightSpecialist"}, []protocol.Message{
		protocol.NewMessage(protocol.RoleUser, "find flights"),
	}, []protocol.Tool{{Name: "search_flights"}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Found 3 flights." {
		t.Errorf("got %q", text)
	}
	if len(exec.calls) != 1 || exec.calls[0] != "search_flights" {
		t.Errorf("got tool calls %v", exec.calls)
	}
	if requests != 2 {
		t.Errorf("got %d backend requests, want 2", requests)
	}
}

func TestOpenAI_Generate_ToolFailureBecomesErrorText(t *testing.T) {
	var secondRequest []byte
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Write([]byte(toolCallBody("search_hotels", `{}`)))
			return
		}
		var raw struct {
			Messages []json.RawMessage `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&raw)
		secondRequest, _ = json.Marshal(raw.Messages)
		w.Write([]byte(finalBody("I could not search hotels right now.")))
	}))
	defer srv.Close()

	exec := &scriptedExecutor{err: errors.New("serpapi unreachable")}
	p := providers.NewOpenAI(&providers.Config{BaseURL: srv.URL}, providers.WithToolExecutor(exec))

	text, err := p.Generate(context.Background(), agent.Definition{Name: "HotelSpecialist"}, []protocol.Message{
		protocol.NewMessage(protocol.RoleUser, "find hotels"),
	}, []protocol.Tool{{Name: "search_hotels"}})
	if err != nil {
		t.Fatalf("tool failure must not fail the generation: %v", err)
	}
	if text != "I could not search hotels right now." {
		t.Errorf("got %q", text)
	}
	if !strings.Contains(string(secondRequest), "serpapi unreachable") {
		t.Errorf("tool error text missing from follow-up request: %s", secondRequest)
	}
}

func TestOpenAI_Generate_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := providers.NewOpenAI(&providers.Config{BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), agent.Definition{Name: "TravelCoordinator"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for backend failure")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should carry status code: %v", err)
	}
}

func TestOpenAI_Generate_ToolLoopBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always demand another tool call.
		w.Write([]byte(toolCallBody("search_flights", `{}`)))
	}))
	defer srv.Close()

	exec := &scriptedExecutor{results: map[string]tools.Result{"search_flights": {Content: "x"}}}
	p := providers.NewOpenAI(&providers.Config{BaseURL: srv.URL, MaxToolRounds: 2}, providers.WithToolExecutor(exec))

	_, err := p.Generate(context.Background(), agent.Definition{Name: "FlightSpecialist"}, nil, []protocol.Tool{{Name: "search_flights"}})
	if err == nil {
		t.Fatal("expected error when tool loop never converges")
	}
}

func TestOpenAI_AzureDialect(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		w.Write([]byte(finalBody("ok")))
	}))
	defer srv.Close()

	p := providers.NewOpenAI(&providers.Config{
		BaseURL:    srv.URL,
		APIKey:     "azure-key",
		APIVersion: "2024-02-15-preview",
		Model:      "gpt-5-chat",
	})

	if _, err := p.Generate(context.Background(), agent.Definition{Name: "TravelCoordinator"}, nil, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if gotPath != "/openai/deployments/gpt-5-chat/chat/completions" {
		t.Errorf("got path %q", gotPath)
	}
	if gotQuery != "api-version=2024-02-15-preview" {
		t.Errorf("got query %q", gotQuery)
	}
	if gotKey != "azure-key" {
		t.Errorf("got api-key header %q", gotKey)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := providers.New(context.Background(), &providers.Config{Provider: "mystery"})
	if !errors.Is(err, providers.ErrUnknownProvider) {
		t.Errorf("got %v, want ErrUnknownProvider", err)
	}
}
