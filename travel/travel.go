// Package travel provides the domain capabilities behind the planning
// agents: SerpAPI-backed flight and hotel search clients, their tool
// bindings, and the agent roster with role instructions.
package travel

import "errors"

const defaultBaseURL = "https://serpapi.com/search.json"

// Config holds travel search initialization parameters.
type Config struct {
	// SerpAPIKey authenticates requests to SerpAPI. Required for live
	// searches.
	SerpAPIKey string `json:"serpapi_key,omitempty"`

	// BaseURL overrides the SerpAPI endpoint, mainly for tests.
	BaseURL string `json:"base_url,omitempty"`

	// Currency, Language, and Country localize search results.
	Currency string `json:"currency,omitempty"`
	Language string `json:"language,omitempty"`
	Country  string `json:"country,omitempty"`
}

// DefaultConfig returns a Config with USD results in English.
func DefaultConfig() Config {
	return Config{
		BaseURL:  defaultBaseURL,
		Currency: "USD",
		Language: "en",
		Country:  "us",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.SerpAPIKey != "" {
		c.SerpAPIKey = source.SerpAPIKey
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Currency != "" {
		c.Currency = source.Currency
	}
	if source.Language != "" {
		c.Language = source.Language
	}
	if source.Country != "" {
		c.Country = source.Country
	}
}

var (
	// ErrMissingAPIKey is returned when a search runs without a SerpAPI key.
	ErrMissingAPIKey = errors.New("serpapi key is not configured")

	// ErrInvalidQuery is returned when a search query fails validation.
	ErrInvalidQuery = errors.New("invalid search query")
)
