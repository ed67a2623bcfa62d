package travel

import (
	"time"

	"github.com/tripdesk/tripdesk/agent"
)

// NewRoster builds the planning roster in speaking priority order: the
// coordinator first, then the flight and hotel specialists, and optionally
// a synthesizer that assembles the final itinerary. Definitions are shared
// across sessions; per-session state lives in transcripts only.
func NewRoster(now time.Time, includeSynthesizer bool) (*agent.Roster, error) {
	defs := []agent.Definition{
		{
			Name:         CoordinatorName,
			Instructions: Instructions(CoordinatorName, now),
		},
		{
			Name:         FlightName,
			Instructions: Instructions(FlightName, now),
			Tools:        []string{ToolSearchFlights},
		},
		{
			Name:         HotelName,
			Instructions: Instructions(HotelName, now),
			Tools:        []string{ToolSearchHotels},
		},
	}
	if includeSynthesizer {
		defs = append(defs, agent.Definition{
			Name:         SynthesizerName,
			Instructions: Instructions(SynthesizerName, now),
		})
	}
	return agent.NewRoster(defs...)
}
