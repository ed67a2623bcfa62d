// Package orchestrate runs one round of multi-agent deliberation per user
// message: it appends the user's turn, chooses which agents speak in fixed
// priority order, and stops the round under the termination policy.
package orchestrate

import (
	"slices"
	"time"
)

const (
	defaultMaxIterations = 4
	defaultRoundTimeout  = 120 * time.Second
)

// defaultCompletionPhrases end a round when the latest turn contains one of
// them (case-insensitive substring match).
var defaultCompletionPhrases = []string{
	"travel plan complete",
	"recommendations finalized",
	"trip confirmed",
	"all set",
	"planning session finished",
	"conversation ended",
	"that's all for now",
	"thank you goodbye",
	"planning is done",
	// Both apostrophe forms; models emit either.
	"that's all i need",
	"that’s all i need",
}

// Config holds orchestrator initialization parameters.
type Config struct {
	// MaxIterations bounds the number of generation calls per round. A
	// round never exceeds this bound even when agents stay eligible.
	MaxIterations int `json:"max_iterations,omitempty"`

	// CompletionPhrases override the default termination phrases.
	CompletionPhrases []string `json:"completion_phrases,omitempty"`

	// RoundTimeoutSeconds is the overall time budget per round. Zero
	// keeps the default.
	RoundTimeoutSeconds int `json:"round_timeout_seconds,omitempty"`

	// FinalAuthority names the agent whose reply is preferred by the
	// extraction pipeline. Empty means the roster head.
	FinalAuthority string `json:"final_authority,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults: one potential
// utterance per roster role and the stock completion phrases.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       defaultMaxIterations,
		CompletionPhrases:   slices.Clone(defaultCompletionPhrases),
		RoundTimeoutSeconds: int(defaultRoundTimeout / time.Second),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MaxIterations > 0 {
		c.MaxIterations = source.MaxIterations
	}
	if len(source.CompletionPhrases) > 0 {
		c.CompletionPhrases = source.CompletionPhrases
	}
	if source.RoundTimeoutSeconds > 0 {
		c.RoundTimeoutSeconds = source.RoundTimeoutSeconds
	}
	if source.FinalAuthority != "" {
		c.FinalAuthority = source.FinalAuthority
	}
}

// RoundTimeout returns the configured round budget as a duration.
func (c *Config) RoundTimeout() time.Duration {
	if c.RoundTimeoutSeconds <= 0 {
		return defaultRoundTimeout
	}
	return time.Duration(c.RoundTimeoutSeconds) * time.Second
}
