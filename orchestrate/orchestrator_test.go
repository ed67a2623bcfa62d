package orchestrate_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/tripdesk/tripdesk/agent"
	"github.com/tripdesk/tripdesk/core/protocol"
	"github.com/tripdesk/tripdesk/orchestrate"
	"github.com/tripdesk/tripdesk/session"
)

// scriptedGenerator replays canned responses per agent name and records the
// order of generation calls. An exhausted queue yields silence.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses map[string][]string
	failFor   string
	failWith  error
	calls     []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, def agent.Definition, messages []protocol.Message, tools []protocol.Tool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, def.Name)
	if def.Name == g.failFor {
		return "", g.failWith
	}

	queue := g.responses[def.Name]
	if len(queue) == 0 {
		return "", nil
	}
	g.responses[def.Name] = queue[1:]
	return queue[0], nil
}

func (g *scriptedGenerator) callOrder() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func newTestRoster(t *testing.T) *agent.Roster {
	t.Helper()
	roster, err := agent.NewRoster(
		agent.Definition{Name: "TravelCoordinator", Instructions: "coordinate"},
		agent.Definition{Name: "FlightSpecialist", Instructions: "flights", Tools: []string{"search_flights"}},
		agent.Definition{Name: "HotelSpecialist", Instructions: "hotels", Tools: []string{"search_hotels"}},
	)
	if err != nil {
		t.Fatalf("NewRoster: %v", err)
	}
	return roster
}

func TestRunRound_CoordinatorAnswersAlone(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"Sounds great, here is an outline of your trip."},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "Plan a weekend in Lisbon")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if turns[0].Author != "TravelCoordinator" {
		t.Errorf("author = %q, want TravelCoordinator", turns[0].Author)
	}

	// No specialist was named, so nobody else became eligible.
	if got := gen.callOrder(); len(got) != 1 {
		t.Errorf("generation calls = %v, want just the coordinator", got)
	}
}

func TestRunRound_DelegationBringsSpecialistIn(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"Let me bring in flights. [Delegate: FlightSpecialist]"},
		"FlightSpecialist":  {"Two nonstop options on the 14th."},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "I need a flight to Denver")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}

	want := []string{"TravelCoordinator", "FlightSpecialist"}
	if len(turns) != len(want) {
		t.Fatalf("got %d turns, want %d", len(turns), len(want))
	}
	for i, author := range want {
		if turns[i].Author != author {
			t.Errorf("turn %d author = %q, want %q", i, turns[i].Author, author)
		}
	}
}

func TestRunRound_MentionInUserMessageMakesSpecialistEligible(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"Coordinating."},
		"HotelSpecialist":   {"Three downtown hotels under budget."},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "Ask the HotelSpecialist about downtown options")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) != 2 || turns[1].Author != "HotelSpecialist" {
		t.Fatalf("turns = %+v, want coordinator then hotel specialist", turns)
	}
}

func TestRunRound_NeverExceedsIterationBound(t *testing.T) {
	// Every response names every agent and delegates, keeping everyone
	// perpetually eligible. The bound must still hold.
	chatter := "TravelCoordinator FlightSpecialist HotelSpecialist [Delegate: TravelCoordinator]"
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {chatter, chatter, chatter, chatter, chatter},
		"FlightSpecialist":  {chatter, chatter, chatter, chatter, chatter},
		"HotelSpecialist":   {chatter, chatter, chatter, chatter, chatter},
	}}
	o := orchestrate.New(orchestrate.Config{MaxIterations: 4}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "plan everything")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) > 4 {
		t.Errorf("produced %d turns, bound is 4", len(turns))
	}
	if calls := gen.callOrder(); len(calls) > 4 {
		t.Errorf("made %d generation calls, bound is 4", len(calls))
	}
}

func TestRunRound_CompletionPhraseStopsRound(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"Everything is booked. TRAVEL PLAN COMPLETE. FlightSpecialist did well."},
		"FlightSpecialist":  {"should never be consulted"},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "finalize with the FlightSpecialist")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1; phrase match should be case-insensitive", len(turns))
	}
}

func TestRunRound_CurlyApostropheSignOffStopsRound(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"Glad to help. That’s all I need. FlightSpecialist, stand down."},
		"FlightSpecialist":  {"should never be consulted"},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "confirm with the FlightSpecialist")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1; the sign-off should end the round", len(turns))
	}
}

func TestRunRound_EligibilityDoesNotCarryAcrossRounds(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {
			"Flights coming up. [Delegate: FlightSpecialist]",
			"Anything else?",
		},
		"FlightSpecialist": {"Nonstop on the 14th.", "should never be consulted again"},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	if _, err := o.RunRound(context.Background(), handle, "flight to Denver"); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	turns, err := o.RunRound(context.Background(), handle, "thanks")
	if err != nil {
		t.Fatalf("round 2: %v", err)
	}

	// The specialist spoke in round 1, but nothing in round 2 addressed it,
	// so speaker state starts fresh and only the coordinator answers.
	if len(turns) != 1 || turns[0].Author != "TravelCoordinator" {
		t.Fatalf("round 2 turns = %v, want just the coordinator", authors(turns))
	}
	if got := gen.callOrder(); got[len(got)-1] != "TravelCoordinator" {
		t.Errorf("call order = %v, round 2 must not consult the specialist", got)
	}
}

func TestRunRound_MaxIterationsOne(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"Handing off. [Delegate: FlightSpecialist]"},
		"FlightSpecialist":  {"should never be consulted"},
	}}
	o := orchestrate.New(orchestrate.Config{MaxIterations: 1}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "quick question")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) != 1 || turns[0].Author != "TravelCoordinator" {
		t.Fatalf("turns = %+v, want a single coordinator turn", turns)
	}
}

func TestRunRound_SilenceConsumesIteration(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"   \n  "},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "hello")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("got %d turns, want 0 for whitespace-only output", len(turns))
	}
	// The user turn still landed in the transcript.
	if handle.Len() != 1 {
		t.Errorf("transcript length = %d, want 1", handle.Len())
	}
}

func TestRunRound_GenerationFailureKeepsPartialTurns(t *testing.T) {
	gen := &scriptedGenerator{
		responses: map[string][]string{
			"TravelCoordinator": {"Flights first. [Delegate: FlightSpecialist]"},
		},
		failFor:  "FlightSpecialist",
		failWith: errors.New("backend returned 503"),
	}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "get me to Denver")
	if err == nil {
		t.Fatal("want error from failing specialist")
	}

	var genErr *agent.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error %v is not a GenerationError", err)
	}
	if genErr.Agent != "FlightSpecialist" {
		t.Errorf("failing agent = %q, want FlightSpecialist", genErr.Agent)
	}
	if errors.Is(err, orchestrate.ErrRoundTimeout) {
		t.Error("generation failure must not classify as a timeout")
	}

	// The coordinator's turn was produced before the failure and stays
	// both in the return value and in the transcript.
	if len(turns) != 1 || turns[0].Author != "TravelCoordinator" {
		t.Fatalf("turns = %+v, want the coordinator turn", turns)
	}
	if handle.Len() != 2 {
		t.Errorf("transcript length = %d, want user turn plus coordinator turn", handle.Len())
	}
}

func TestRunRound_DeadlineClassifiesAsTimeout(t *testing.T) {
	gen := &scriptedGenerator{
		failFor:  "TravelCoordinator",
		failWith: context.DeadlineExceeded,
	}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	_, err := o.RunRound(context.Background(), handle, "hello")
	if !errors.Is(err, orchestrate.ErrRoundTimeout) {
		t.Fatalf("error %v, want ErrRoundTimeout", err)
	}
	var genErr *agent.GenerationError
	if errors.As(err, &genErr) {
		t.Error("timeout must not classify as a generation error")
	}
}

func TestRunRound_DelegationReopensConsultedAgent(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {
			"Checking flights. [Delegate: FlightSpecialist]",
			"Summary: nonstop on the 14th. Travel plan complete.",
		},
		"FlightSpecialist": {"Nonstop found. Back to you. [Delegate: TravelCoordinator]"},
	}}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "flight to Denver")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}

	want := []string{"TravelCoordinator", "FlightSpecialist", "TravelCoordinator"}
	if len(turns) != len(want) {
		t.Fatalf("got %d turns %v, want %d", len(turns), authors(turns), len(want))
	}
	for i, author := range want {
		if turns[i].Author != author {
			t.Errorf("turn %d author = %q, want %q", i, turns[i].Author, author)
		}
	}
}

func TestRunRound_SingleAgentRosterSpeaksUntilComplete(t *testing.T) {
	roster, err := agent.NewRoster(agent.Definition{Name: "TravelCoordinator"})
	if err != nil {
		t.Fatalf("NewRoster: %v", err)
	}
	gen := &scriptedGenerator{responses: map[string][]string{
		"TravelCoordinator": {"Thinking.", "More thinking.", "All set."},
	}}
	o := orchestrate.New(orchestrate.Config{MaxIterations: 6}, roster, gen)
	handle := session.NewRegistry().Resolve("s1")

	turns, err := o.RunRound(context.Background(), handle, "plan it")
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("got %d turns %v, want 3 ending at the completion phrase", len(turns), authors(turns))
	}
}

func TestRunRound_ProjectsTranscriptPerSpeaker(t *testing.T) {
	var flightMessages []protocol.Message
	gen := &recordingGenerator{
		inner: &scriptedGenerator{responses: map[string][]string{
			"TravelCoordinator": {"Over to flights. [Delegate: FlightSpecialist]"},
			"FlightSpecialist":  {"On it."},
		}},
		record: func(def agent.Definition, messages []protocol.Message) {
			if def.Name == "FlightSpecialist" {
				flightMessages = append([]protocol.Message(nil), messages...)
			}
		},
	}
	o := orchestrate.New(orchestrate.Config{}, newTestRoster(t), gen)
	handle := session.NewRegistry().Resolve("s1")

	if _, err := o.RunRound(context.Background(), handle, "flight please"); err != nil {
		t.Fatalf("RunRound: %v", err)
	}

	if len(flightMessages) != 2 {
		t.Fatalf("specialist saw %d messages, want 2", len(flightMessages))
	}
	if flightMessages[0].Role != protocol.RoleUser || flightMessages[0].Content != "flight please" {
		t.Errorf("message 0 = %+v, want the raw user turn", flightMessages[0])
	}
	if flightMessages[1].Role != protocol.RoleUser || !strings.HasPrefix(flightMessages[1].Content, "**TravelCoordinator**: ") {
		t.Errorf("message 1 = %+v, want a labeled peer turn", flightMessages[1])
	}
}

// recordingGenerator forwards to an inner generator while capturing the
// messages each agent receives.
type recordingGenerator struct {
	inner  agent.Generator
	record func(def agent.Definition, messages []protocol.Message)
}

func (g *recordingGenerator) Generate(ctx context.Context, def agent.Definition, messages []protocol.Message, tools []protocol.Tool) (string, error) {
	g.record(def, messages)
	return g.inner.Generate(ctx, def, messages, tools)
}

func authors(turns []protocol.Turn) []string {
	names := make([]string, len(turns))
	for i, turn := range turns {
		names[i] = turn.Author
	}
	return names
}
