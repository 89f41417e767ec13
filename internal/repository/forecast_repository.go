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

// MaxDailyEntries is the number of forecast days kept from the service response.
const MaxDailyEntries = 5

const (
	currentFields = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min"
)

// ForecastRepository defines the interface for forecast data access
type ForecastRepository interface {
	FetchForecast(ctx context.Context, lat, lon float64) (*model.ForecastSnapshot, error)
}

type forecastRepository struct {
	baseURL    string
	httpClient *http.Client
}

// NewForecastRepository creates a new forecast repository instance
func NewForecastRepository(httpClient ...*http.Client) ForecastRepository {
	return &forecastRepository{
		baseURL:    config.GetForecastApiUrl(),
		httpClient: clientOrDefault(httpClient),
	}
}

// FetchForecast performs a single uncached round trip to the forecast service.
func (r *forecastRepository) FetchForecast(ctx context.Context, lat, lon float64) (snapshot *model.ForecastSnapshot, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("forecast", start, err) }()

	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Add("current", currentFields)
	params.Add("daily", dailyFields)
	params.Add("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var data model.ForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return toSnapshot(&data)
}

// toSnapshot validates the payload and keeps at most MaxDailyEntries days, in service order.
func toSnapshot(data *model.ForecastResponse) (*model.ForecastSnapshot, error) {
	if data.Current == nil {
		return nil, fmt.Errorf("%w: missing current conditions", ErrInvalidPayload)
	}
	if data.Daily == nil {
		return nil, fmt.Errorf("%w: missing daily section", ErrInvalidPayload)
	}

	daily := data.Daily
	n := min(len(daily.Time), MaxDailyEntries)
	if len(daily.WeatherCode) < n || len(daily.Temperature2mMax) < n || len(daily.Temperature2mMin) < n {
		return nil, fmt.Errorf("%w: daily arrays shorter than time axis", ErrInvalidPayload)
	}

	entries := make([]model.DailyEntry, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse(time.DateOnly, daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("%w: bad daily date %q", ErrInvalidPayload, daily.Time[i])
		}
		entries = append(entries, model.DailyEntry{
			Date:        date,
			MaxTempC:    daily.Temperature2mMax[i],
			MinTempC:    daily.Temperature2mMin[i],
			WeatherCode: daily.WeatherCode[i],
		})
	}

	return &model.ForecastSnapshot{
		CurrentTemperatureC: data.Current.Temperature2m,
		WindSpeedKmh:        data.Current.WindSpeed10m,
		RelativeHumidityPct: data.Current.RelativeHumidity2m,
		WeatherCode:         data.Current.WeatherCode,
		Daily:               entries,
	}, nil
}
