package googleplaces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
)

func TestClientGeocode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("address"); got != "Lisbon, Portugal" {
			t.Fatalf("address: got %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Fatalf("key: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":38.7223,"lng":-9.1393}}}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), ts.URL, "test-key")

	got, err := client.Geocode(context.Background(), "Lisbon, Portugal")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	want := domain.Coordinates{Lat: 38.7223, Lng: -9.1393}
	if got != want {
		t.Fatalf("coordinates: got %+v, want %+v", got, want)
	}
}

func TestClientGeocode_NoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), ts.URL, "test-key")

	if _, err := client.Geocode(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected error for unresolvable location")
	}
}

func TestClientSearchNearby(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/place/nearbysearch/json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("keyword"); got != "quiet bookstore" {
			t.Fatalf("keyword: got %q", got)
		}
		if got := r.URL.Query().Get("radius"); got != "3000" {
			t.Fatalf("radius: got %q", got)
		}
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"place_id":"p1","name":"Livraria Sombria","rating":4.8,"user_ratings_total":41,
			 "geometry":{"location":{"lat":38.71,"lng":-9.13}}},
			{"place_id":"p2","name":"Unrated Corner","geometry":{"location":{"lat":38.72,"lng":-9.14}}}
		]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), ts.URL, "test-key")

	raw, err := client.SearchNearby(context.Background(), ports.NearbySearch{
		Center:  domain.Coordinates{Lat: 38.72, Lng: -9.14},
		RadiusM: 3000,
		Keyword: "quiet bookstore",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("got %d places, want 2", len(raw))
	}

	first := raw[0]
	if first.ID != "p1" || first.Name != "Livraria Sombria" {
		t.Fatalf("unexpected first place: %+v", first)
	}
	if first.Rating == nil || *first.Rating != 4.8 {
		t.Fatalf("rating not carried: %+v", first.Rating)
	}
	if first.ReviewCount == nil || *first.ReviewCount != 41 {
		t.Fatalf("review count not carried: %+v", first.ReviewCount)
	}

	second := raw[1]
	if second.Rating != nil || second.ReviewCount != nil {
		t.Fatalf("absent fields must stay nil: %+v", second)
	}
	if second.Lat == nil || *second.Lat != 38.72 {
		t.Fatalf("coordinates not carried: %+v", second)
	}
}

func TestClientSearchNearby_ZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), ts.URL, "test-key")

	raw, err := client.SearchNearby(context.Background(), ports.NearbySearch{RadiusM: 3000, Keyword: "anything"})
	if err != nil {
		t.Fatalf("zero results must not error: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("got %d places, want none", len(raw))
	}
}

func TestClientSearchNearby_UpstreamDenied(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), ts.URL, "bad-key")

	_, err := client.SearchNearby(context.Background(), ports.NearbySearch{RadiusM: 3000, Keyword: "anything"})
	if err == nil {
		t.Fatal("expected error for REQUEST_DENIED")
	}
	if !strings.Contains(err.Error(), "REQUEST_DENIED") {
		t.Fatalf("error should name the upstream status: %v", err)
	}
}

func TestClientFetchReviews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/place/details/json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("place_id"); got != "p1" {
			t.Fatalf("place_id: got %q", got)
		}
		if got := r.URL.Query().Get("fields"); got != "reviews,url" {
			t.Fatalf("fields: got %q", got)
		}
		_, _ = w.Write([]byte(`{"status":"OK","result":{
			"url":"https://maps.google.com/?cid=42",
			"reviews":[{"text":"A hushed little haven."},{"text":""},{"text":"Creaky floors, great tea."}]
		}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), ts.URL, "test-key")

	rv, err := client.FetchReviews(context.Background(), "p1")
	if err != nil {
		t.Fatalf("fetch reviews: %v", err)
	}
	if rv.MapsURL != "https://maps.google.com/?cid=42" {
		t.Fatalf("maps url: got %q", rv.MapsURL)
	}
	if len(rv.Snippets) != 2 {
		t.Fatalf("empty review texts must be dropped, got %v", rv.Snippets)
	}
}

func TestClientCachesResponses(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":1,"lng":2}}}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), ts.URL, "test-key")

	for i := 0; i < 3; i++ {
		if _, err := client.Geocode(context.Background(), "Porto, Portugal"); err != nil {
			t.Fatalf("geocode %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}
