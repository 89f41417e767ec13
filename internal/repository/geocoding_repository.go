package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/metrics"
	"github.com/fakhrymubarak/weather-locator/internal/model"
)

// GeocodingRepository looks up places by name.
type GeocodingRepository interface {
	Search(ctx context.Context, name string, count int) ([]model.GeocodeResult, error)
}

// geocodingRepository implements GeocodingRepository
type geocodingRepository struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeocodingRepository creates a new geocoding repository instance
func NewGeocodingRepository(httpClient ...*http.Client) GeocodingRepository {
	return &geocodingRepository{
		baseURL:    config.GetGeocodingApiUrl(),
		httpClient: clientOrDefault(httpClient),
	}
}

// Search returns up to count matches for name. An empty slice means no match.
func (r *geocodingRepository) Search(ctx context.Context, name string, count int) (results []model.GeocodeResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("geocoding", start, err) }()

	params := url.Values{}
	params.Add("name", name)
	params.Add("count", strconv.Itoa(count))
	endpoint := r.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: geocoding request failed: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: geocoding service returned status %d", ErrNetwork, resp.StatusCode)
	}

	var data model.GeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decoding geocoding response: %v", ErrNetwork, err)
	}
	return data.Results, nil
}

func clientOrDefault(httpClient []*http.Client) *http.Client {
	if len(httpClient) > 0 && httpClient[0] != nil {
		return httpClient[0]
	}
	return &http.Client{Timeout: config.GetHTTPClientTimeout()}
}
