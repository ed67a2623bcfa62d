package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tripdesk/tripdesk/core/protocol"
	"github.com/tripdesk/tripdesk/tools"
)

// Tool names offered to the generation backends.
const (
	ToolSearchFlights = "search_flights"
	ToolSearchHotels  = "search_hotels"
)

// flexInt accepts both JSON numbers and numeric strings. Models are
// inconsistent about quoting numeric arguments.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not an integer: %s", s)
	}
	*f = flexInt(n)
	return nil
}

// flexFloat is the float counterpart of flexInt.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", s)
	}
	*f = flexFloat(n)
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

type flightArgs struct {
	DepartureAirport  string  `json:"departure_airport"`
	ArrivalAirport    string  `json:"arrival_airport"`
	DepartureDate     string  `json:"departure_date"`
	ReturnDate        string  `json:"return_date"`
	TripType          string  `json:"trip_type"`
	TravelClass       string  `json:"travel_class"`
	Adults            flexInt `json:"adults"`
	Children          flexInt `json:"children"`
	Infants           flexInt `json:"infants"`
	MaxPrice          flexInt `json:"max_price"`
	MaxDuration       flexInt `json:"max_duration"`
	PreferredAirlines string  `json:"preferred_airlines"`
	ExcludedAirlines  string  `json:"excluded_airlines"`
	DepartureTime     string  `json:"departure_time_preference"`
	ReturnTime        string  `json:"return_time_preference"`
	DeepSearch        bool    `json:"deep_search"`
}

type hotelArgs struct {
	Location     string    `json:"location"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date"`
	Adults       flexInt   `json:"adults"`
	Children     flexInt   `json:"children"`
	Rooms        flexInt   `json:"rooms"`
	PriceMin     flexInt   `json:"price_min"`
	PriceMax     flexInt   `json:"price_max"`
	HotelClass   flexInt   `json:"hotel_class"`
	MinRating    flexFloat `json:"min_rating"`
	Amenities    string    `json:"amenities"`
	HotelType    string    `json:"hotel_type"`
}

// FlightTool returns the search_flights tool definition.
func FlightTool() protocol.Tool {
	return protocol.Tool{
		Name:        ToolSearchFlights,
		Description: "Search for flights with comprehensive filtering options. Supports both one-way and round-trip searches.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"departure_airport": map[string]any{
					"type":        "string",
					"description": "IATA code for departure airport (e.g., 'LAX', 'JFK')",
				},
				"arrival_airport": map[string]any{
					"type":        "string",
					"description": "IATA code for arrival airport (e.g., 'LAX', 'JFK')",
				},
				"departure_date": map[string]any{
					"type":        "string",
					"description": "Departure date in YYYY-MM-DD format",
				},
				"return_date": map[string]any{
					"type":        "string",
					"description": "Return date in YYYY-MM-DD format (required for round-trip)",
				},
				"trip_type": map[string]any{
					"type":        "string",
					"enum":        []string{TripRoundTrip, TripOneWay},
					"description": "Trip type, defaults to round_trip",
				},
				"travel_class": map[string]any{
					"type":        "string",
					"description": "Travel class: 'economy', 'premium_economy', 'business', 'first'",
				},
				"adults": map[string]any{
					"type":        "integer",
					"description": "Number of adult passengers (1-9)",
				},
				"children": map[string]any{
					"type":        "integer",
					"description": "Number of child passengers (0-8)",
				},
				"infants": map[string]any{
					"type":        "integer",
					"description": "Number of infant passengers (0-8)",
				},
				"max_price": map[string]any{
					"type":        "integer",
					"description": "Maximum price limit in USD",
				},
				"max_duration": map[string]any{
					"type":        "integer",
					"description": "Maximum flight duration in minutes",
				},
				"preferred_airlines": map[string]any{
					"type":        "string",
					"description": "Comma-separated list of preferred airline names or codes",
				},
				"excluded_airlines": map[string]any{
					"type":        "string",
					"description": "Comma-separated list of excluded airline names or codes",
				},
				"departure_time_preference": map[string]any{
					"type":        "string",
					"description": "Departure time preference: 'morning', 'afternoon', 'evening'",
				},
				"return_time_preference": map[string]any{
					"type":        "string",
					"description": "Return time preference: 'morning', 'afternoon', 'evening'",
				},
				"deep_search": map[string]any{
					"type":        "boolean",
					"description": "Enable deep search for more comprehensive results",
				},
			},
			"required": []string{"departure_airport", "arrival_airport", "departure_date"},
		},
	}
}

// HotelTool returns the search_hotels tool definition.
func HotelTool() protocol.Tool {
	return protocol.Tool{
		Name:        ToolSearchHotels,
		Description: "Search for hotels with comprehensive filtering options including price range, amenities, and guest ratings.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "Hotel destination (city name, address, or landmark)",
				},
				"check_in_date": map[string]any{
					"type":        "string",
					"description": "Check-in date in YYYY-MM-DD format",
				},
				"check_out_date": map[string]any{
					"type":        "string",
					"description": "Check-out date in YYYY-MM-DD format",
				},
				"adults": map[string]any{
					"type":        "integer",
					"description": "Number of adult guests (1-20)",
				},
				"children": map[string]any{
					"type":        "integer",
					"description": "Number of children (0-10)",
				},
				"rooms": map[string]any{
					"type":        "integer",
					"description": "Number of rooms needed (1-8)",
				},
				"price_min": map[string]any{
					"type":        "integer",
					"description": "Minimum price per night in USD",
				},
				"price_max": map[string]any{
					"type":        "integer",
					"description": "Maximum price per night in USD",
				},
				"hotel_class": map[string]any{
					"type":        "integer",
					"description": "Hotel star rating (1-5)",
				},
				"min_rating": map[string]any{
					"type":        "number",
					"description": "Minimum guest rating (1.0-5.0)",
				},
				"amenities": map[string]any{
					"type":        "string",
					"description": "Required amenities, comma-separated: 'wifi', 'pool', 'gym', 'spa', 'parking', 'breakfast'",
				},
				"hotel_type": map[string]any{
					"type":        "string",
					"description": "Type of accommodation: 'hotel', 'motel', 'resort', 'inn', 'hostel', 'apartment'",
				},
			},
			"required": []string{"location", "check_in_date", "check_out_date"},
		},
	}
}

// RegisterTools binds the flight and hotel search tools into the registry,
// replacing any previous bindings. Search and validation failures surface as
// error text in the tool result, never as round-aborting errors.
func RegisterTools(registry *tools.Registry, flights *FlightClient, hotels *HotelClient) error {
	flightHandler := func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
		var args flightArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return tools.Result{Content: fmt.Sprintf("Error searching flights: invalid arguments: %v", err), IsError: true}, nil
		}

		results, err := flights.Search(ctx, FlightQuery{
			DepartureAirport:   args.DepartureAirport,
			ArrivalAirport:     args.ArrivalAirport,
			OutboundDate:       args.DepartureDate,
			ReturnDate:         args.ReturnDate,
			TripType:           args.TripType,
			TravelClass:        args.TravelClass,
			Adults:             int(args.Adults),
			Children:           int(args.Children),
			Infants:            int(args.Infants),
			DepartureTime:      args.DepartureTime,
			ReturnTime:         args.ReturnTime,
			MaxPrice:           int(args.MaxPrice),
			MaxDurationMinutes: int(args.MaxDuration),
			PreferredAirlines:  splitList(args.PreferredAirlines),
			ExcludedAirlines:   splitList(args.ExcludedAirlines),
			DeepSearch:         args.DeepSearch,
		})
		if err != nil {
			return tools.Result{Content: fmt.Sprintf("Error searching flights: %v", err), IsError: true}, nil
		}
		return tools.Result{Content: FormatFlights(results)}, nil
	}

	hotelHandler := func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
		var args hotelArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return tools.Result{Content: fmt.Sprintf("Error searching hotels: invalid arguments: %v", err), IsError: true}, nil
		}

		results, err := hotels.Search(ctx, HotelQuery{
			Location:      args.Location,
			CheckInDate:   args.CheckInDate,
			CheckOutDate:  args.CheckOutDate,
			Adults:        int(args.Adults),
			Children:      int(args.Children),
			Rooms:         int(args.Rooms),
			MinPrice:      int(args.PriceMin),
			MaxPrice:      int(args.PriceMax),
			HotelClass:    int(args.HotelClass),
			MinRating:     float64(args.MinRating),
			Amenities:     splitList(args.Amenities),
			PropertyTypes: splitList(args.HotelType),
		})
		if err != nil {
			return tools.Result{Content: fmt.Sprintf("Error searching hotels: %v", err), IsError: true}, nil
		}
		return tools.Result{Content: FormatHotels(results)}, nil
	}

	if err := registry.Bind(FlightTool(), flightHandler); err != nil {
		return fmt.Errorf("binding %s: %w", ToolSearchFlights, err)
	}
	if err := registry.Bind(HotelTool(), hotelHandler); err != nil {
		return fmt.Errorf("binding %s: %w", ToolSearchHotels, err)
	}
	return nil
}
