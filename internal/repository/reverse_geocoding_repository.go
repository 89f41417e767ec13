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

// ReverseGeocodingRepository turns coordinates into a locality.
type ReverseGeocodingRepository interface {
	Reverse(ctx context.Context, lat, lon float64) (*model.ReverseGeocodeResponse, error)
}

type reverseGeocodingRepository struct {
	baseURL    string
	httpClient *http.Client
}

func NewReverseGeocodingRepository(httpClient ...*http.Client) ReverseGeocodingRepository {
	return &reverseGeocodingRepository{
		baseURL:    config.GetReverseGeocodingApiUrl(),
		httpClient: clientOrDefault(httpClient),
	}
}

func (r *reverseGeocodingRepository) Reverse(ctx context.Context, lat, lon float64) (result *model.ReverseGeocodeResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("reverse_geocoding", start, err) }()

	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Add("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: reverse geocoding request failed: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: reverse geocoding service returned status %d", ErrNetwork, resp.StatusCode)
	}

	var data model.ReverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decoding reverse geocoding response: %v", ErrNetwork, err)
	}
	return &data, nil
}
