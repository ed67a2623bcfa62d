package travel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/tripdesk/tripdesk/travel"
)

const hotelResultsBody = `{
	"search_metadata": {"id": "abc123", "status": "Success"},
	"search_parameters": {
		"q": "Denver",
		"check_in_date": "2026-09-15",
		"check_out_date": "2026-09-18",
		"adults": 2,
		"children": 0
	},
	"properties": [
		{
			"name": "The Crawford Hotel",
			"type": "hotel",
			"hotel_class": "4-star hotel",
			"overall_rating": 4.7,
			"reviews": 1832,
			"location_rating": 4.9,
			"check_in_time": "4:00 PM",
			"check_out_time": "11:00 AM",
			"amenities": ["Free Wi-Fi", "Gym", "Bar", "Restaurant", "Room service", "Pet-friendly"],
			"rate_per_night": {"lowest": "$289"},
			"total_rate": {"lowest": "$867"}
		}
	]
}`

func newHotelServer(t *testing.T, body string, capture *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestHotelClient_Search_BuildsEngineParams(t *testing.T) {
	var params url.Values
	srv := newHotelServer(t, hotelResultsBody, &params)
	defer srv.Close()

	client := travel.NewHotelClient(travel.Config{SerpAPIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := client.Search(context.Background(), travel.HotelQuery{
		Location:      "Denver",
		CheckInDate:   "2026-09-15",
		CheckOutDate:  "2026-09-18",
		Adults:        2,
		MaxPrice:      300,
		MinRating:     4.0,
		Amenities:     []string{"wifi", "gym"},
		PropertyTypes: []string{"hotel"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := map[string]string{
		"engine":         "google_hotels",
		"q":              "Denver",
		"check_in_date":  "2026-09-15",
		"check_out_date": "2026-09-18",
		"adults":         "2",
		"children":       "0",
		"rooms":          "1",
		"max_price":      "300",
		"min_rating":     "4",
		"amenities":      "wifi,gym",
		"type":           "hotel",
	}
	for key, value := range want {
		if got := params.Get(key); got != value {
			t.Errorf("param %s = %q, want %q", key, got, value)
		}
	}
}

func TestHotelClient_Search_ClampsGuestCounts(t *testing.T) {
	var params url.Values
	srv := newHotelServer(t, hotelResultsBody, &params)
	defer srv.Close()

	client := travel.NewHotelClient(travel.Config{SerpAPIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := client.Search(context.Background(), travel.HotelQuery{
		Location:     "Denver",
		CheckInDate:  "2026-09-15",
		CheckOutDate: "2026-09-18",
		Adults:       35,
		Children:     14,
		Rooms:        12,
		HotelClass:   9,
		MinRating:    0.2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got := params.Get("adults"); got != "20" {
		t.Errorf("adults = %q, want clamped to 20", got)
	}
	if got := params.Get("children"); got != "10" {
		t.Errorf("children = %q, want clamped to 10", got)
	}
	if got := params.Get("rooms"); got != "8" {
		t.Errorf("rooms = %q, want clamped to 8", got)
	}
	if params.Has("hotel_class") {
		t.Error("out-of-range hotel_class must be dropped")
	}
	if params.Has("min_rating") {
		t.Error("out-of-range min_rating must be dropped")
	}
}

func TestHotelClient_Search_SerpAPIFailureStatus(t *testing.T) {
	srv := newHotelServer(t, `{"search_metadata": {"id": "x", "status": "Error"}, "error": "quota exceeded"}`, nil)
	defer srv.Close()

	client := travel.NewHotelClient(travel.Config{SerpAPIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := client.Search(context.Background(), travel.HotelQuery{
		Location: "Denver", CheckInDate: "2026-09-15", CheckOutDate: "2026-09-18",
	})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want surfaced quota error", err)
	}
}

func TestHotelClient_Search_MissingLocation(t *testing.T) {
	client := travel.NewHotelClient(travel.Config{SerpAPIKey: "k"}, nil)
	_, err := client.Search(context.Background(), travel.HotelQuery{
		CheckInDate: "2026-09-15", CheckOutDate: "2026-09-18",
	})
	if err == nil {
		t.Fatal("want validation error for missing location")
	}
}

func TestFormatHotels(t *testing.T) {
	srv := newHotelServer(t, hotelResultsBody, nil)
	defer srv.Close()

	client := travel.NewHotelClient(travel.Config{SerpAPIKey: "k", BaseURL: srv.URL}, srv.Client())
	results, err := client.Search(context.Background(), travel.HotelQuery{
		Location: "Denver", CheckInDate: "2026-09-15", CheckOutDate: "2026-09-18", Adults: 2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	text := travel.FormatHotels(results)
	for _, fragment := range []string{
		"Location: Denver",
		"The Crawford Hotel",
		"Class: 4-star hotel",
		"Price per night: $289",
		"Rating: 4.7/5.0 (1832 reviews)",
		"(and 1 more)",
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("formatted output missing %q:\n%s", fragment, text)
		}
	}
}

func TestFormatHotels_NoResults(t *testing.T) {
	text := travel.FormatHotels(&travel.HotelResults{})
	if !strings.Contains(text, "No hotels found") {
		t.Errorf("got %q, want a no-results message", text)
	}
}
