package planner

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tripdesk/tripdesk/agent/providers"
	"github.com/tripdesk/tripdesk/orchestrate"
	"github.com/tripdesk/tripdesk/travel"
)

// Config aggregates the configuration of every planning subsystem.
type Config struct {
	// Generation configures the model backend shared by all agents.
	Generation providers.Config `json:"generation"`

	// Travel configures the SerpAPI search clients.
	Travel travel.Config `json:"travel"`

	// Orchestrator configures round execution and termination.
	Orchestrator orchestrate.Config `json:"orchestrator"`

	// Synthesizer adds the itinerary synthesizer as the last roster agent.
	Synthesizer bool `json:"synthesizer,omitempty"`
}

// DefaultConfig returns a Config with every section at its defaults.
func DefaultConfig() Config {
	return Config{
		Generation:   providers.DefaultConfig(),
		Travel:       travel.DefaultConfig(),
		Orchestrator: orchestrate.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, section by section.
func (c *Config) Merge(source *Config) {
	c.Generation.Merge(&source.Generation)
	c.Travel.Merge(&source.Travel)
	c.Orchestrator.Merge(&source.Orchestrator)
	if source.Synthesizer {
		c.Synthesizer = true
	}
}

// LoadConfig reads a JSON config file and merges it over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.Merge(&fileCfg)
	return cfg, nil
}
