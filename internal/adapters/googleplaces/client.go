// Package googleplaces provides the Google Maps Platform adapter for the
// geospatial search collaborator: geocoding, nearby search and place details.
// Responses are cached for an hour to spare the API quota across repeated
// queries for the same trip.
package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
)

const (
	defaultBaseURL   = "https://maps.googleapis.com"
	defaultCacheSize = 256
	defaultCacheTTL  = time.Hour
)

// Client is an HTTP client for the Google Maps Platform web services.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxRetries  int
	baseBackoff time.Duration
	cache       *expirable.LRU[string, []byte]
}

// compile-time interface assertion
var _ ports.PlaceProvider = (*Client)(nil)

// NewClient constructs a client authenticating with an API key.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
		cache:       expirable.NewLRU[string, []byte](defaultCacheSize, nil, defaultCacheTTL),
	}
}

// NewOAuthClient constructs a client authenticating with an OAuth token
// source instead of an API key.
func NewOAuthClient(ts oauth2.TokenSource, baseURL string) *Client {
	return NewClient(oauth2.NewClient(context.Background(), ts), baseURL, "")
}

// Geocode resolves a free-form location ("Lisbon, Portugal") to coordinates.
func (c *Client) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	params := url.Values{}
	params.Set("address", query)

	body, err := c.getJSON(ctx, "/maps/api/geocode/json", params)
	if err != nil {
		return domain.Coordinates{}, err
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.Coordinates{}, fmt.Errorf("places adapter: decode geocode response: %w", err)
	}
	if err := parsed.statusErr(); err != nil {
		return domain.Coordinates{}, err
	}
	if len(parsed.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("places adapter: no coordinates found for %q", query)
	}

	loc := parsed.Results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// SearchNearby lists candidate places around the center. A ZERO_RESULTS
// answer is an empty slice, not an error.
func (c *Client) SearchNearby(ctx context.Context, req ports.NearbySearch) ([]ports.RawPlace, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", req.Center.Lat, req.Center.Lng))
	params.Set("radius", strconv.Itoa(req.RadiusM))
	params.Set("keyword", req.Keyword)
	params.Set("language", "en")

	body, err := c.getJSON(ctx, "/maps/api/place/nearbysearch/json", params)
	if err != nil {
		return nil, err
	}

	var parsed nearbyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("places adapter: decode search response: %w", err)
	}
	if parsed.Status == statusZeroResults {
		return []ports.RawPlace{}, nil
	}
	if err := parsed.statusErr(); err != nil {
		return nil, err
	}

	out := make([]ports.RawPlace, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		out = append(out, r.toRawPlace())
	}
	return out, nil
}

// FetchReviews loads the review texts and canonical maps URL for one place.
func (c *Client) FetchReviews(ctx context.Context, placeID string) (ports.PlaceReviews, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "reviews,url")
	params.Set("language", "en")

	body, err := c.getJSON(ctx, "/maps/api/place/details/json", params)
	if err != nil {
		return ports.PlaceReviews{}, err
	}

	var parsed detailsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ports.PlaceReviews{}, fmt.Errorf("places adapter: decode details response: %w", err)
	}
	if err := parsed.statusErr(); err != nil {
		return ports.PlaceReviews{}, err
	}

	return parsed.Result.toPlaceReviews(), nil
}

// getJSON performs a GET against the given endpoint, serving repeated
// requests from the response cache. The cache key excludes the credential.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values) ([]byte, error) {
	cacheKey := path + "?" + params.Encode()
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("places adapter: build request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("places adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places adapter: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("places adapter: read response: %w", err)
	}

	c.cache.Add(cacheKey, body)
	return body, nil
}
