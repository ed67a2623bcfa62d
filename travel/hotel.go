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

// Guest and room bounds enforced by normalization.
const (
	maxAdults   = 20
	maxChildren = 10
	maxRooms    = 8
)

var validPropertyTypes = map[string]bool{
	"hotel":     true,
	"motel":     true,
	"resort":    true,
	"inn":       true,
	"hostel":    true,
	"apartment": true,
}

// HotelQuery describes a hotel search.
type HotelQuery struct {
	Location     string
	CheckInDate  string
	CheckOutDate string
	Adults       int
	Children     int
	Rooms        int

	MinPrice  int
	MaxPrice  int
	MinRating float64

	// HotelClass filters by star rating, 1 to 5. Zero means any.
	HotelClass int

	Amenities     []string
	PropertyTypes []string
}

// normalize applies defaults, clamps guest counts to supported bounds, and
// drops out-of-range optional filters rather than failing the search.
func (q *HotelQuery) normalize() error {
	q.Location = strings.TrimSpace(q.Location)

	switch {
	case q.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidQuery)
	case q.CheckInDate == "":
		return fmt.Errorf("%w: check-in date is required", ErrInvalidQuery)
	case q.CheckOutDate == "":
		return fmt.Errorf("%w: check-out date is required", ErrInvalidQuery)
	}

	if q.Adults < 1 {
		q.Adults = 1
	}
	if q.Adults > maxAdults {
		q.Adults = maxAdults
	}
	if q.Children < 0 {
		q.Children = 0
	}
	if q.Children > maxChildren {
		q.Children = maxChildren
	}
	if q.Rooms < 1 {
		q.Rooms = 1
	}
	if q.Rooms > maxRooms {
		q.Rooms = maxRooms
	}
	if q.HotelClass < 1 || q.HotelClass > 5 {
		q.HotelClass = 0
	}
	if q.MinRating < 1.0 || q.MinRating > 5.0 {
		q.MinRating = 0
	}

	types := q.PropertyTypes[:0]
	for _, t := range q.PropertyTypes {
		if validPropertyTypes[strings.ToLower(strings.TrimSpace(t))] {
			types = append(types, strings.ToLower(strings.TrimSpace(t)))
		}
	}
	q.PropertyTypes = types
	return nil
}

// HotelClient searches hotels through the SerpAPI google_hotels engine.
type HotelClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewHotelClient creates a HotelClient. A nil httpClient uses
// http.DefaultClient.
func NewHotelClient(cfg Config, httpClient *http.Client) *HotelClient {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HotelClient{cfg: merged, httpClient: httpClient}
}

// RateInfo is a nightly or total price quote.
type RateInfo struct {
	Lowest string `json:"lowest"`
}

// Property is one hotel in the results.
type Property struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	Link           string   `json:"link"`
	HotelClass     string   `json:"hotel_class"`
	OverallRating  float64  `json:"overall_rating"`
	Reviews        int      `json:"reviews"`
	LocationRating float64  `json:"location_rating"`
	CheckInTime    string   `json:"check_in_time"`
	CheckOutTime   string   `json:"check_out_time"`
	Amenities      []string `json:"amenities"`
	Deal           string   `json:"deal"`
	RatePerNight   RateInfo `json:"rate_per_night"`
	TotalRate      RateInfo `json:"total_rate"`
}

// HotelResults is the parsed search response.
type HotelResults struct {
	SearchMetadata struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"search_metadata"`
	SearchParameters struct {
		Query        string `json:"q"`
		CheckInDate  string `json:"check_in_date"`
		CheckOutDate string `json:"check_out_date"`
		Adults       int    `json:"adults"`
		Children     int    `json:"children"`
	} `json:"search_parameters"`
	Properties []Property `json:"properties"`
	Error      string     `json:"error"`
}

// Search runs a hotel search and returns the parsed results.
func (c *HotelClient) Search(ctx context.Context, q HotelQuery) (*HotelResults, error) {
	if c.cfg.SerpAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := q.normalize(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", "google_hotels")
	params.Set("api_key", c.cfg.SerpAPIKey)
	params.Set("q", q.Location)
	params.Set("check_in_date", q.CheckInDate)
	params.Set("check_out_date", q.CheckOutDate)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("children", strconv.Itoa(q.Children))
	params.Set("rooms", strconv.Itoa(q.Rooms))
	params.Set("currency", c.cfg.Currency)
	params.Set("hl", c.cfg.Language)
	params.Set("gl", c.cfg.Country)

	if q.MinPrice > 0 {
		params.Set("min_price", strconv.Itoa(q.MinPrice))
	}
	if q.MaxPrice > 0 {
		params.Set("max_price", strconv.Itoa(q.MaxPrice))
	}
	if q.MinRating > 0 {
		params.Set("min_rating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}
	if q.HotelClass > 0 {
		params.Set("hotel_class", strconv.Itoa(q.HotelClass))
	}
	if len(q.Amenities) > 0 {
		params.Set("amenities", strings.Join(q.Amenities, ","))
	}
	if len(q.PropertyTypes) > 0 {
		params.Set("type", strings.Join(q.PropertyTypes, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotel search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading hotel search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotel search returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var results HotelResults
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("parsing hotel results: %w", err)
	}
	if results.Error != "" || (results.SearchMetadata.Status != "" && results.SearchMetadata.Status != "Success") {
		return nil, fmt.Errorf("hotel search failed: status=%s error=%s id=%s",
			results.SearchMetadata.Status, results.Error, results.SearchMetadata.ID)
	}
	return &results, nil
}

// FormatHotels renders the results as readable text for the model.
func FormatHotels(results *HotelResults) string {
	if len(results.Properties) == 0 {
		return "No hotels found for your search criteria."
	}

	var b strings.Builder
	sp := results.SearchParameters
	fmt.Fprintf(&b, "HOTEL SEARCH RESULTS\n")
	fmt.Fprintf(&b, "Location: %s\n", sp.Query)
	fmt.Fprintf(&b, "Check-in: %s, Check-out: %s\n", sp.CheckInDate, sp.CheckOutDate)
	fmt.Fprintf(&b, "Guests: %d adults, %d children\n", sp.Adults, sp.Children)

	for i, hotel := range results.Properties {
		fmt.Fprintf(&b, "\n[Hotel %d] %s\n", i+1, hotel.Name)
		if hotel.Type != "" && hotel.Type != "hotel" {
			fmt.Fprintf(&b, "  Type: %s\n", hotel.Type)
		}
		if hotel.HotelClass != "" {
			fmt.Fprintf(&b, "  Class: %s\n", hotel.HotelClass)
		}
		if hotel.RatePerNight.Lowest != "" {
			fmt.Fprintf(&b, "  Price per night: %s\n", hotel.RatePerNight.Lowest)
		}
		if hotel.TotalRate.Lowest != "" {
			fmt.Fprintf(&b, "  Total price: %s\n", hotel.TotalRate.Lowest)
		}
		if hotel.Deal != "" {
			fmt.Fprintf(&b, "  Deal: %s\n", hotel.Deal)
		}
		if hotel.OverallRating > 0 {
			fmt.Fprintf(&b, "  Rating: %.1f/5.0 (%d reviews)\n", hotel.OverallRating, hotel.Reviews)
		}
		if hotel.LocationRating > 0 {
			fmt.Fprintf(&b, "  Location rating: %.1f/5.0\n", hotel.LocationRating)
		}
		if len(hotel.Amenities) > 0 {
			shown := hotel.Amenities
			extra := 0
			if len(shown) > 5 {
				extra = len(shown) - 5
				shown = shown[:5]
			}
			fmt.Fprintf(&b, "  Amenities: %s", strings.Join(shown, ", "))
			if extra > 0 {
				fmt.Fprintf(&b, " (and %d more)", extra)
			}
			b.WriteString("\n")
		}
		if hotel.CheckInTime != "" || hotel.CheckOutTime != "" {
			fmt.Fprintf(&b, "  Check-in: %s, Check-out: %s\n", hotel.CheckInTime, hotel.CheckOutTime)
		}
		if hotel.Link != "" {
			fmt.Fprintf(&b, "  Book: %s\n", hotel.Link)
		}
	}

	fmt.Fprintf(&b, "\nTotal results: %d hotels\n", len(results.Properties))
	return b.String()
}
