package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Trip types accepted by FlightQuery.
const (
	TripRoundTrip = "round_trip"
	TripOneWay    = "one_way"
)

// SerpAPI encodes trip type and travel class as numeric enums.
var (
	tripTypeValues = map[string]int{
		TripRoundTrip: 1,
		TripOneWay:    2,
	}
	travelClassValues = map[string]int{
		"economy":         1,
		"premium_economy": 2,
		"business":        3,
		"first":           4,
	}
	// travelClassAliases folds spoken class names onto the canonical keys.
	travelClassAliases = map[string]string{
		"premium economy": "premium_economy",
		"premium":         "premium_economy",
		"coach":           "economy",
		"business class":  "business",
		"first class":     "first",
	}
	// timeRanges maps day-part preferences to the comma-separated hour
	// ranges the flights engine expects.
	timeRanges = map[string]string{
		"morning":   "6,12",
		"afternoon": "12,18",
		"evening":   "18,23",
	}
)

// FlightQuery describes a flight search.
type FlightQuery struct {
	DepartureAirport string
	ArrivalAirport   string
	OutboundDate     string
	ReturnDate       string
	TripType         string
	TravelClass      string
	Adults           int
	Children         int
	Infants          int

	// DepartureTime and ReturnTime are day-part preferences:
	// "morning", "afternoon", or "evening".
	DepartureTime string
	ReturnTime    string

	MaxPrice           int
	MaxDurationMinutes int
	PreferredAirlines  []string
	ExcludedAirlines   []string
	DeepSearch         bool
}

// normalize applies defaults and folds aliased values, then validates.
func (q *FlightQuery) normalize() error {
	q.DepartureAirport = strings.ToUpper(strings.TrimSpace(q.DepartureAirport))
	q.ArrivalAirport = strings.ToUpper(strings.TrimSpace(q.ArrivalAirport))

	if q.TripType == "" {
		q.TripType = TripRoundTrip
	}
	if q.TravelClass == "" {
		q.TravelClass = "economy"
	}
	lower := strings.ToLower(strings.TrimSpace(q.TravelClass))
	if canonical, ok := travelClassAliases[lower]; ok {
		lower = canonical
	}
	q.TravelClass = lower
	if q.Adults <= 0 {
		q.Adults = 1
	}

	switch {
	case q.DepartureAirport == "":
		return fmt.Errorf("%w: departure airport is required", ErrInvalidQuery)
	case q.ArrivalAirport == "":
		return fmt.Errorf("%w: arrival airport is required", ErrInvalidQuery)
	case q.OutboundDate == "":
		return fmt.Errorf("%w: outbound date is required", ErrInvalidQuery)
	case q.TripType != TripRoundTrip && q.TripType != TripOneWay:
		return fmt.Errorf("%w: trip type must be %q or %q", ErrInvalidQuery, TripRoundTrip, TripOneWay)
	case q.TripType == TripRoundTrip && q.ReturnDate == "":
		return fmt.Errorf("%w: return date is required for round trips", ErrInvalidQuery)
	}
	if _, ok := travelClassValues[q.TravelClass]; !ok {
		return fmt.Errorf("%w: unknown travel class %q", ErrInvalidQuery, q.TravelClass)
	}
	return nil
}

// FlightClient searches flights through the SerpAPI google_flights engine.
type FlightClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewFlightClient creates a FlightClient. A nil httpClient uses
// http.DefaultClient.
func NewFlightClient(cfg Config, httpClient *http.Client) *FlightClient {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FlightClient{cfg: merged, httpClient: httpClient}
}

// Airport identifies an airport on a flight segment.
type Airport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

// FlightSegment is one leg of an itinerary.
type FlightSegment struct {
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Duration         int     `json:"duration"`
	Airplane         string  `json:"airplane"`
	Airline          string  `json:"airline"`
	FlightNumber     string  `json:"flight_number"`
	TravelClass      string  `json:"travel_class"`
}

// Layover is a connection between segments.
type Layover struct {
	Duration int    `json:"duration"`
	Name     string `json:"name"`
	ID       string `json:"id"`
}

// CarbonEmissions reports the itinerary's CO2 footprint in grams.
type CarbonEmissions struct {
	ThisFlight        int `json:"this_flight"`
	TypicalForRoute   int `json:"typical_for_this_route"`
	DifferencePercent int `json:"difference_percent"`
}

// FlightOption is one bookable itinerary from the results.
type FlightOption struct {
	Flights         []FlightSegment  `json:"flights"`
	Layovers        []Layover        `json:"layovers"`
	TotalDuration   int              `json:"total_duration"`
	Price           int              `json:"price"`
	Type            string           `json:"type"`
	CarbonEmissions *CarbonEmissions `json:"carbon_emissions"`
}

// FlightResults is the parsed search response.
type FlightResults struct {
	SearchParameters struct {
		DepartureID  string `json:"departure_id"`
		ArrivalID    string `json:"arrival_id"`
		OutboundDate string `json:"outbound_date"`
		ReturnDate   string `json:"return_date"`
	} `json:"search_parameters"`
	BestFlights  []FlightOption `json:"best_flights"`
	OtherFlights []FlightOption `json:"other_flights"`
	PriceInsights struct {
		LowestPrice int    `json:"lowest_price"`
		PriceLevel  string `json:"price_level"`
	} `json:"price_insights"`
	Error string `json:"error"`
}

// Options returns best and other flights combined, best first.
func (r *FlightResults) Options() []FlightOption {
	options := make([]FlightOption, 0, len(r.BestFlights)+len(r.OtherFlights))
	options = append(options, r.BestFlights...)
	options = append(options, r.OtherFlights...)
	return options
}

// Search runs a flight search and returns the parsed results.
func (c *FlightClient) Search(ctx context.Context, q FlightQuery) (*FlightResults, error) {
	if c.cfg.SerpAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := q.normalize(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("api_key", c.cfg.SerpAPIKey)
	params.Set("departure_id", q.DepartureAirport)
	params.Set("arrival_id", q.ArrivalAirport)
	params.Set("outbound_date", q.OutboundDate)
	params.Set("type", strconv.Itoa(tripTypeValues[q.TripType]))
	params.Set("travel_class", strconv.Itoa(travelClassValues[q.TravelClass]))
	params.Set("currency", c.cfg.Currency)
	params.Set("hl", c.cfg.Language)
	params.Set("gl", c.cfg.Country)
	params.Set("adults", strconv.Itoa(q.Adults))

	if q.TripType == TripRoundTrip {
		params.Set("return_date", q.ReturnDate)
	}
	if q.Children > 0 {
		params.Set("children", strconv.Itoa(q.Children))
	}
	if q.Infants > 0 {
		params.Set("infants_in_seat", strconv.Itoa(q.Infants))
	}
	if r, ok := timeRanges[strings.ToLower(q.DepartureTime)]; ok {
		params.Set("outbound_times", r)
	}
	if r, ok := timeRanges[strings.ToLower(q.ReturnTime)]; ok && q.TripType == TripRoundTrip {
		params.Set("return_times", r)
	}
	if q.MaxPrice > 0 {
		params.Set("max_price", strconv.Itoa(q.MaxPrice))
	}
	if q.MaxDurationMinutes > 0 {
		params.Set("max_duration", strconv.Itoa(q.MaxDurationMinutes))
	}
	if codes := AirlineCodes(q.PreferredAirlines); len(codes) > 0 {
		params.Set("include_airlines", strings.Join(codes, ","))
	}
	if codes := AirlineCodes(q.ExcludedAirlines); len(codes) > 0 {
		params.Set("exclude_airlines", strings.Join(codes, ","))
	}
	if q.DeepSearch {
		params.Set("deep_search", "true")
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var results FlightResults
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("parsing flight results: %w", err)
	}
	if results.Error != "" {
		return nil, fmt.Errorf("flight search failed: %s", results.Error)
	}
	return &results, nil
}

func (c *FlightClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading flight search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight search returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// FormatFlights renders the results as readable text for the model.
func FormatFlights(results *FlightResults) string {
	options := results.Options()
	if len(options) == 0 {
		return "No flights found for your search criteria."
	}

	var b strings.Builder
	sp := results.SearchParameters
	fmt.Fprintf(&b, "FLIGHT SEARCH RESULTS\n")
	fmt.Fprintf(&b, "Route: %s to %s\n", sp.DepartureID, sp.ArrivalID)
	fmt.Fprintf(&b, "Outbound: %s\n", sp.OutboundDate)
	if sp.ReturnDate != "" {
		fmt.Fprintf(&b, "Return: %s\n", sp.ReturnDate)
	}

	for i, option := range options {
		fmt.Fprintf(&b, "\n[Option %d] Price: $%d, Duration: %s\n", i+1, option.Price, formatMinutes(option.TotalDuration))
		for j, seg := range option.Flights {
			fmt.Fprintf(&b, "  Flight %d: %s %s\n", j+1, seg.Airline, seg.FlightNumber)
			fmt.Fprintf(&b, "    %s (%s) %s -> %s (%s) %s\n",
				seg.DepartureAirport.ID, seg.DepartureAirport.Name, seg.DepartureAirport.Time,
				seg.ArrivalAirport.ID, seg.ArrivalAirport.Name, seg.ArrivalAirport.Time)
			if seg.Airplane != "" {
				fmt.Fprintf(&b, "    Aircraft: %s\n", seg.Airplane)
			}
		}
		for _, layover := range option.Layovers {
			fmt.Fprintf(&b, "  Layover: %s (%s), %s\n", layover.Name, layover.ID, formatMinutes(layover.Duration))
		}
		if option.CarbonEmissions != nil && option.CarbonEmissions.ThisFlight > 0 {
			fmt.Fprintf(&b, "  Emissions: %d kg CO2 (%+d%% vs typical)\n",
				option.CarbonEmissions.ThisFlight/1000, option.CarbonEmissions.DifferencePercent)
		}
	}

	fmt.Fprintf(&b, "\nTotal results: %d\n", len(options))
	if results.PriceInsights.LowestPrice > 0 {
		fmt.Fprintf(&b, "Lowest price seen: $%d\n", results.PriceInsights.LowestPrice)
	}
	return b.String()
}

func formatMinutes(minutes int) string {
	if minutes <= 0 {
		return "unknown duration"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
