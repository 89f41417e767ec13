package service

import (
	"context"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-locator/internal/geolocation"
	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/preference"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string][]model.GeocodeResult
	err     error
	calls   []string
	counts  []int
}

func (f *fakeGeocoder) Search(ctx context.Context, name string, count int) ([]model.GeocodeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.counts = append(f.counts, count)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[name], nil
}

type fakeReverse struct {
	resp  *model.ReverseGeocodeResponse
	err   error
	calls int
}

func (f *fakeReverse) Reverse(ctx context.Context, lat, lon float64) (*model.ReverseGeocodeResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeForecasts struct {
	mu    sync.Mutex
	snap  *model.ForecastSnapshot
	err   error
	calls int
	// hook runs before answering and receives the 1-based call number.
	hook func(call int)
}

func (f *fakeForecasts) FetchForecast(ctx context.Context, lat, lon float64) (*model.ForecastSnapshot, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	if f.hook != nil {
		f.hook(call)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

type countingLocator struct {
	pos   geolocation.Position
	err   error
	calls int
}

func (l *countingLocator) Locate(ctx context.Context) (geolocation.Position, error) {
	l.calls++
	if l.err != nil {
		return geolocation.Position{}, l.err
	}
	return l.pos, nil
}

func testPolicy() PlacePolicy {
	return PlacePolicy{
		DefaultPlace:    "Montreal",
		ExcludedPlace:   "Boucherville",
		ExcludedAliases: []string{"Boucherville, Canada", "Boucherville, CA"},
		CollapseKeyword: "quebec",
		CollapseTarget:  "Quebec, Canada",
	}
}

func montreal() []model.GeocodeResult {
	return []model.GeocodeResult{{Name: "Montreal", Country: "Canada", Admin1: "Quebec", Latitude: 45.50884, Longitude: -73.58781}}
}

func sampleSnapshot() *model.ForecastSnapshot {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // Monday
	return &model.ForecastSnapshot{
		CurrentTemperatureC: 12.5,
		WindSpeedKmh:        14.4,
		RelativeHumidityPct: 65,
		WeatherCode:         3,
		Daily: []model.DailyEntry{
			{Date: day, MaxTempC: 14.6, MinTempC: -2.5, WeatherCode: 61},
			{Date: day.AddDate(0, 0, 1), MaxTempC: 10, MinTempC: 1, WeatherCode: 42},
		},
	}
}

func newTestResolver(geo *fakeGeocoder, rev *fakeReverse) (*LocationResolver, *preference.MemoryStore) {
	prefs := preference.NewMemoryStore()
	if geo == nil {
		geo = &fakeGeocoder{}
	}
	if rev == nil {
		rev = &fakeReverse{}
	}
	return NewLocationResolver(geo, rev, prefs, testPolicy()), prefs
}
