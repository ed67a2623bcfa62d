// Package planner wires the planning subsystems together: the agent roster,
// the generation backend, the travel search tools, the session registry, and
// the round orchestrator behind a single conversational API.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/tripdesk/tripdesk/agent"
	"github.com/tripdesk/tripdesk/agent/providers"
	"github.com/tripdesk/tripdesk/core/protocol"
	"github.com/tripdesk/tripdesk/extract"
	"github.com/tripdesk/tripdesk/observability"
	"github.com/tripdesk/tripdesk/orchestrate"
	"github.com/tripdesk/tripdesk/session"
	"github.com/tripdesk/tripdesk/tools"
	"github.com/tripdesk/tripdesk/travel"
)

// Planner is the composed travel-planning conversation engine.
type Planner struct {
	cfg      Config
	roster   *agent.Roster
	gen      agent.Generator
	registry *tools.Registry
	sessions *session.Registry
	orch     *orchestrate.Orchestrator
	observer observability.Observer
}

// Option configures a Planner during construction.
type Option func(*Planner)

// WithGenerator injects a generation backend, bypassing provider creation.
func WithGenerator(gen agent.Generator) Option {
	return func(p *Planner) { p.gen = gen }
}

// WithRoster injects an agent roster, bypassing the travel default.
func WithRoster(roster *agent.Roster) Option {
	return func(p *Planner) { p.roster = roster }
}

// WithObserver sets the observer for orchestration events.
func WithObserver(observer observability.Observer) Option {
	return func(p *Planner) {
		if observer != nil {
			p.observer = observer
		}
	}
}

// New builds a Planner: a travel roster with today's date in its role
// prompts, search tools bound to a planner-local registry, a generator from
// the configured provider, and a fresh session registry.
func New(ctx context.Context, cfg Config, opts ...Option) (*Planner, error) {
	p := &Planner{
		cfg:      cfg,
		registry: tools.NewRegistry(),
		sessions: session.NewRegistry(),
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.roster == nil {
		roster, err := travel.NewRoster(time.Now(), cfg.Synthesizer)
		if err != nil {
			return nil, fmt.Errorf("building roster: %w", err)
		}
		p.roster = roster
	}

	err := travel.RegisterTools(p.registry,
		travel.NewFlightClient(cfg.Travel, nil),
		travel.NewHotelClient(cfg.Travel, nil),
	)
	if err != nil {
		return nil, fmt.Errorf("registering travel tools: %w", err)
	}

	if p.gen == nil {
		gen, err := providers.New(ctx, &cfg.Generation, p.registry)
		if err != nil {
			return nil, fmt.Errorf("creating generation backend: %w", err)
		}
		p.gen = gen
	}

	p.orch = orchestrate.New(cfg.Orchestrator, p.roster, p.gen,
		orchestrate.WithRegistry(p.registry),
		orchestrate.WithObserver(p.observer),
	)
	return p, nil
}

// ResolveSession returns the session for id, creating it when unknown.
func (p *Planner) ResolveSession(id string) *session.Handle {
	return p.sessions.Resolve(id)
}

// ResetSession discards the session registered under id. Unknown ids are a
// no-op.
func (p *Planner) ResetSession(id string) {
	p.sessions.Reset(id)
}

// RunTurn executes one deliberation round for the session and returns the
// agent turns it produced. On failure the already-produced turns are
// returned along with the error; they remain part of the transcript.
func (p *Planner) RunTurn(ctx context.Context, sessionID, message string) ([]protocol.Turn, error) {
	handle := p.sessions.Resolve(sessionID)
	return p.orch.RunRound(ctx, handle, message)
}

// Reply extracts the clean user-facing reply from a round's turns.
func (p *Planner) Reply(turns []protocol.Turn) string {
	return extract.Reply(turns, extract.Config{
		FinalAuthority: p.orch.FinalAuthority(),
		AgentNames:     p.roster.Names(),
	})
}

// Chat runs one round and returns the extracted reply text.
func (p *Planner) Chat(ctx context.Context, sessionID, message string) (string, error) {
	turns, err := p.RunTurn(ctx, sessionID, message)
	if err != nil {
		return "", err
	}
	return p.Reply(turns), nil
}
