package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tripdesk/tripdesk/agent"
	"github.com/tripdesk/tripdesk/core/protocol"
	"github.com/tripdesk/tripdesk/extract"
	"github.com/tripdesk/tripdesk/observability"
	"github.com/tripdesk/tripdesk/session"
	"github.com/tripdesk/tripdesk/tools"
)

// Orchestrator drives rounds of agent deliberation against session
// transcripts. It is stateless between rounds; all conversation state lives
// in the session, all speaker-tracking state is round-local.
type Orchestrator struct {
	roster   *agent.Roster
	gen      agent.Generator
	registry *tools.Registry
	observer observability.Observer
	cfg      Config
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver sets the observer receiving round lifecycle events.
func WithObserver(observer observability.Observer) Option {
	return func(o *Orchestrator) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithRegistry sets the tool registry agents draw their definitions from.
func WithRegistry(registry *tools.Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// New creates an Orchestrator for the given roster and generation capability.
// Zero-value config fields fall back to defaults.
func New(cfg Config, roster *agent.Roster, gen agent.Generator, opts ...Option) *Orchestrator {
	merged := DefaultConfig()
	merged.Merge(&cfg)

	o := &Orchestrator{
		roster:   roster,
		gen:      gen,
		registry: tools.Default(),
		observer: observability.NoOpObserver{},
		cfg:      merged,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FinalAuthority returns the agent whose turn the extraction pipeline should
// prefer when producing the user-facing reply.
func (o *Orchestrator) FinalAuthority() string {
	if o.cfg.FinalAuthority != "" {
		return o.cfg.FinalAuthority
	}
	return o.roster.Head().Name
}

// RunRound executes one bounded round of deliberation for the given user
// message. It appends the user turn, then repeatedly selects the next
// eligible agent in roster priority order and appends its utterance, until
// a completion phrase appears, no agent remains eligible, or the iteration
// bound is reached.
//
// Rounds against the same session are serialized: a concurrent call blocks
// until the in-flight round finishes, then runs against the updated
// transcript. The returned slice holds the agent turns produced this round,
// in order; on failure it holds the turns produced before the failure,
// which remain in the transcript.
func (o *Orchestrator) RunRound(ctx context.Context, handle *session.Handle, userText string) ([]protocol.Turn, error) {
	end := handle.StartRound()
	defer end()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RoundTimeout())
	defer cancel()

	handle.Append(protocol.UserAuthor, userText)

	o.emit(ctx, EventRoundStart, observability.LevelInfo, map[string]any{
		"session_id":     handle.ID(),
		"max_iterations": o.cfg.MaxIterations,
	})

	var produced []protocol.Turn

	// Round-local speaker state. consulted marks agents that already spoke
	// this round; a delegation marker naming an agent clears its mark, so
	// an explicit handoff can bring a prior speaker back.
	consulted := make(map[string]bool)
	eligible := map[string]bool{o.roster.Head().Name: true}
	o.markMentions(eligible, userText)

	for i := 0; i < o.cfg.MaxIterations; i++ {
		def, ok := o.nextSpeaker(consulted, eligible)
		if !ok {
			break
		}
		consulted[def.Name] = true

		messages := o.buildMessages(def, handle.Turns())
		toolDefs := o.registry.Definitions(def.Tools...)

		text, err := o.gen.Generate(ctx, def, messages, toolDefs)
		if err != nil {
			return produced, o.roundError(ctx, handle.ID(), def.Name, err)
		}

		if strings.TrimSpace(text) == "" {
			// Silence still consumes an iteration.
			o.emit(ctx, EventAgentSilent, observability.LevelVerbose, map[string]any{
				"session_id": handle.ID(),
				"agent":      def.Name,
			})
			continue
		}

		turn := handle.Append(def.Name, text)
		produced = append(produced, turn)

		o.emit(ctx, EventAgentSpeak, observability.LevelInfo, map[string]any{
			"session_id": handle.ID(),
			"agent":      def.Name,
			"seq":        turn.Seq,
			"chars":      len(text),
		})

		o.markMentions(eligible, text)
		for _, target := range extract.Delegations(text) {
			if _, exists := o.roster.Get(target); exists {
				eligible[target] = true
				delete(consulted, target)
			}
		}

		if o.isComplete(text) {
			break
		}
	}

	o.emit(ctx, EventRoundComplete, observability.LevelInfo, map[string]any{
		"session_id": handle.ID(),
		"turns":      len(produced),
	})
	return produced, nil
}

// nextSpeaker scans the roster in priority order for the first agent that is
// eligible this round and has not yet been consulted. A single-agent roster
// keeps its only agent always eligible.
func (o *Orchestrator) nextSpeaker(consulted, eligible map[string]bool) (agent.Definition, bool) {
	if o.roster.Len() == 1 {
		return o.roster.Head(), true
	}
	for _, def := range o.roster.Definitions() {
		if consulted[def.Name] {
			continue
		}
		if eligible[def.Name] {
			return def, true
		}
	}
	return agent.Definition{}, false
}

// markMentions makes every roster agent named in the text eligible to speak.
// Matching is a case-insensitive substring test.
func (o *Orchestrator) markMentions(eligible map[string]bool, text string) {
	lower := strings.ToLower(text)
	for _, name := range o.roster.Names() {
		if strings.Contains(lower, strings.ToLower(name)) {
			eligible[name] = true
		}
	}
}

// buildMessages projects the session transcript into the perspective of the
// speaking agent: its own prior turns become assistant messages, the user's
// turns become user messages, and other agents' turns become user messages
// prefixed with the author label so the model can attribute them.
func (o *Orchestrator) buildMessages(def agent.Definition, turns []protocol.Turn) []protocol.Message {
	messages := make([]protocol.Message, 0, len(turns))
	for _, turn := range turns {
		switch {
		case turn.IsUser():
			messages = append(messages, protocol.NewMessage(protocol.RoleUser, turn.Text))
		case turn.Author == def.Name:
			messages = append(messages, protocol.NewMessage(protocol.RoleAssistant, turn.Text))
		default:
			labeled := fmt.Sprintf("**%s**: %s", turn.Author, turn.Text)
			messages = append(messages, protocol.NewMessage(protocol.RoleUser, labeled))
		}
	}
	return messages
}

// isComplete reports whether the text contains any completion phrase.
func (o *Orchestrator) isComplete(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range o.cfg.CompletionPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// roundError classifies a generation failure. Deadline expiry becomes a
// round timeout; everything else is attributed to the failing agent.
func (o *Orchestrator) roundError(ctx context.Context, sessionID, agentName string, err error) error {
	classified := error(&agent.GenerationError{Agent: agentName, Err: err})
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		classified = fmt.Errorf("%w: agent %s: %v", ErrRoundTimeout, agentName, err)
	}

	o.emit(ctx, EventRoundError, observability.LevelError, map[string]any{
		"session_id": sessionID,
		"agent":      agentName,
		"error":      classified.Error(),
	})
	return classified
}

func (o *Orchestrator) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	o.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "orchestrate",
		Data:      data,
	})
}
