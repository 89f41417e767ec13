package service

import (
	"context"
	"errors"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/geolocation"
	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/preference"
	"github.com/fakhrymubarak/weather-locator/internal/repository"
)

// WeatherServiceInterface is what the HTTP layer needs from the controller.
type WeatherServiceInterface interface {
	Search(ctx context.Context, sess *Session, query string) (*model.WeatherView, error)
	ByCoordinates(ctx context.Context, sess *Session, lat, lon float64, knownName string) (*model.WeatherView, error)
	Startup(ctx context.Context, sess *Session, locator geolocation.Locator) (*model.WeatherView, *StartupResult, error)
	Suggest(ctx context.Context, query string) ([]model.Suggestion, error)
	LastSearch(ctx context.Context) (string, bool)
}

// WeatherService runs the resolve → fetch → render pipeline for a session.
type WeatherService struct {
	resolver    Resolver
	forecasts   repository.ForecastRepository
	presenter   *Presenter
	startup     *StartupPolicy
	suggestions *SuggestionService
	prefs       preference.Store
	policy      PlacePolicy
}

// Deps lists the collaborators of WeatherService. Nil repositories are
// replaced by the configured upstream clients.
type Deps struct {
	Geocoder  repository.GeocodingRepository
	Reverse   repository.ReverseGeocodingRepository
	Forecasts repository.ForecastRepository
	Prefs     preference.Store
	Policy    *PlacePolicy
	Presenter *Presenter
}

func NewWeatherService(deps Deps) *WeatherService {
	if deps.Geocoder == nil {
		deps.Geocoder = repository.NewGeocodingRepository()
	}
	if deps.Reverse == nil {
		deps.Reverse = repository.NewReverseGeocodingRepository()
	}
	if deps.Forecasts == nil {
		deps.Forecasts = repository.NewForecastRepository()
	}
	if deps.Prefs == nil {
		deps.Prefs = preference.Unavailable{}
	}
	policy := DefaultPlacePolicy()
	if deps.Policy != nil {
		policy = *deps.Policy
	}
	if deps.Presenter == nil {
		deps.Presenter = NewPresenter("")
	}

	resolver := NewLocationResolver(deps.Geocoder, deps.Reverse, deps.Prefs, policy)
	return &WeatherService{
		resolver:    resolver,
		forecasts:   deps.Forecasts,
		presenter:   deps.Presenter,
		startup:     NewStartupPolicy(resolver, deps.Prefs, policy.DefaultPlace),
		suggestions: NewSuggestionService(deps.Geocoder, policy),
		prefs:       deps.Prefs,
		policy:      policy,
	}
}

func (s *WeatherService) Search(ctx context.Context, sess *Session, query string) (*model.WeatherView, error) {
	ticket := sess.Begin()
	loc, err := s.resolver.ResolveByName(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sess, ticket, loc)
}

// ByCoordinates shows the weather at lat/lon. When the position resolves to
// the excluded place the default place is shown instead.
func (s *WeatherService) ByCoordinates(ctx context.Context, sess *Session, lat, lon float64, knownName string) (*model.WeatherView, error) {
	ticket := sess.Begin()
	loc, err := s.resolver.ResolveByCoordinates(ctx, lat, lon, knownName)
	if errors.Is(err, repository.ErrExcludedPlace) {
		config.GetLogger().Infow("Falling back to default place", "default", s.policy.DefaultPlace)
		loc, err = s.resolver.ResolveByName(ctx, s.policy.DefaultPlace)
	}
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sess, ticket, loc)
}

func (s *WeatherService) Startup(ctx context.Context, sess *Session, locator geolocation.Locator) (*model.WeatherView, *StartupResult, error) {
	ticket := sess.Begin()
	res, err := s.startup.Run(ctx, locator)
	if err != nil {
		return nil, res, err
	}
	view, err := s.render(ctx, sess, ticket, res.Location)
	return view, res, err
}

func (s *WeatherService) Suggest(ctx context.Context, query string) ([]model.Suggestion, error) {
	return s.suggestions.Suggest(ctx, query)
}

func (s *WeatherService) LastSearch(ctx context.Context) (string, bool) {
	return s.prefs.Load(ctx)
}

func (s *WeatherService) render(ctx context.Context, sess *Session, ticket uint64, loc *model.Location) (*model.WeatherView, error) {
	snap, err := s.forecasts.FetchForecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		config.GetLogger().Errorw("Error fetching weather data", "location", loc.DisplayName, "error", err)
		return nil, err
	}
	view := s.presenter.Render(*loc, snap)
	if !sess.Commit(ticket, view) {
		config.GetLogger().Infow("Dropping superseded result", "session", sess.ID, "location", loc.DisplayName)
		return view, ErrSuperseded
	}
	return view, nil
}
