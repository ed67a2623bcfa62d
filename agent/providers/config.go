// Package providers implements generation backends for agents: an
// OpenAI-compatible chat completions client (including Azure deployments)
// and a Gemini client. Both run the function-calling loop internally, so
// callers see only the final turn text.
package providers

import "errors"

const (
	defaultBaseURL       = "https://api.openai.com"
	defaultModel         = "gpt-4o"
	defaultTemperature   = 0.2
	defaultMaxToolRounds = 5
)

// ErrUnknownProvider is returned by New for an unrecognized provider name.
var ErrUnknownProvider = errors.New("unknown generation provider")

// Config holds generation backend initialization parameters.
type Config struct {
	// Provider selects the backend: "openai" (default) or "gemini".
	Provider string `json:"provider,omitempty"`

	// BaseURL is the backend endpoint. For Azure OpenAI this is the
	// resource endpoint; for the public API it can stay at the default.
	BaseURL string `json:"base_url,omitempty"`

	APIKey string `json:"api_key,omitempty"`

	// APIVersion, when set, switches the OpenAI client to Azure-style
	// deployment URLs with the api-key header.
	APIVersion string `json:"api_version,omitempty"`

	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`

	// MaxToolRounds bounds the internal function-calling loop per
	// generation call.
	MaxToolRounds int `json:"max_tool_rounds,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:      "openai",
		BaseURL:       defaultBaseURL,
		Model:         defaultModel,
		Temperature:   defaultTemperature,
		MaxToolRounds: defaultMaxToolRounds,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Provider != "" {
		c.Provider = source.Provider
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.APIVersion != "" {
		c.APIVersion = source.APIVersion
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
	if source.MaxToolRounds > 0 {
		c.MaxToolRounds = source.MaxToolRounds
	}
}
