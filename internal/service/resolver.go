package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/metrics"
	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/preference"
	"github.com/fakhrymubarak/weather-locator/internal/repository"
)

// Resolver turns place names into coordinates and coordinates into names.
type Resolver interface {
	ResolveByName(ctx context.Context, query string) (*model.Location, error)
	ResolveByCoordinates(ctx context.Context, lat, lon float64, knownName string) (*model.Location, error)
}

// LocationResolver resolves places through the geocoding services and
// remembers every successful result in the preference store.
type LocationResolver struct {
	geocoder repository.GeocodingRepository
	reverse  repository.ReverseGeocodingRepository
	prefs    preference.Store
	policy   PlacePolicy
}

func NewLocationResolver(geocoder repository.GeocodingRepository, reverse repository.ReverseGeocodingRepository, prefs preference.Store, policy PlacePolicy) *LocationResolver {
	if prefs == nil {
		prefs = preference.Unavailable{}
	}
	return &LocationResolver{
		geocoder: geocoder,
		reverse:  reverse,
		prefs:    prefs,
		policy:   policy,
	}
}

func (r *LocationResolver) ResolveByName(ctx context.Context, query string) (*model.Location, error) {
	loc, err := r.resolveByName(ctx, query, true)
	recordResolution("by_name", err)
	return loc, err
}

// resolveByName runs the name pipeline. allowRedirect guards the single
// redirect to the default place so a bad default cannot recurse.
func (r *LocationResolver) resolveByName(ctx context.Context, query string, allowRedirect bool) (*model.Location, error) {
	log := config.GetLogger()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if redirected, ok := r.policy.RedirectExcluded(query); ok {
		log.Infow("Excluded place requested, using default instead", "query", query, "default", redirected)
		query = redirected
	}

	searchTerm := r.policy.CollapseQuery(query)
	if searchTerm != query {
		log.Debugw("Collapsed multi-segment query", "query", query, "search_term", searchTerm)
	}

	match, err := r.lookup(ctx, searchTerm)
	if err != nil {
		return nil, err
	}

	display := FormatDisplayName(query, match)
	if r.policy.IsExcludedName(display) {
		if !allowRedirect {
			return nil, fmt.Errorf("%w: %s", repository.ErrExcludedPlace, display)
		}
		log.Infow("Query resolved to excluded place, using default instead", "query", query, "resolved", display)
		return r.resolveByName(ctx, r.policy.DefaultPlace, false)
	}

	loc := &model.Location{
		DisplayName: display,
		Latitude:    match.Latitude,
		Longitude:   match.Longitude,
	}
	log.Infow("Resolved location by name", "query", query, "display_name", display,
		"latitude", loc.Latitude, "longitude", loc.Longitude)

	r.prefs.Save(ctx, display)
	return loc, nil
}

// lookup asks for the single best match, retrying once with the text before
// the first comma when the full term matches nothing.
func (r *LocationResolver) lookup(ctx context.Context, term string) (model.GeocodeResult, error) {
	results, err := r.geocoder.Search(ctx, term, 1)
	if err != nil {
		return model.GeocodeResult{}, err
	}
	if len(results) > 0 {
		return results[0], nil
	}

	simplified := SimplifyQuery(term)
	if simplified == "" || simplified == term {
		return model.GeocodeResult{}, &repository.NotFoundError{Query: term}
	}

	config.GetLogger().Infow("City not found, trying simplified name", "search_term", term, "simplified", simplified)
	results, err = r.geocoder.Search(ctx, simplified, 1)
	if err != nil {
		return model.GeocodeResult{}, err
	}
	if len(results) == 0 {
		return model.GeocodeResult{}, &repository.NotFoundError{Query: term}
	}
	return results[0], nil
}

// ResolveByCoordinates names the place at lat/lon. A non-empty knownName
// (already vetted, e.g. a suggestion pick) skips the reverse lookup.
func (r *LocationResolver) ResolveByCoordinates(ctx context.Context, lat, lon float64, knownName string) (*model.Location, error) {
	loc, err := r.resolveByCoordinates(ctx, lat, lon, knownName)
	recordResolution("by_coordinates", err)
	return loc, err
}

func (r *LocationResolver) resolveByCoordinates(ctx context.Context, lat, lon float64, knownName string) (*model.Location, error) {
	log := config.GetLogger()

	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	knownName = strings.TrimSpace(knownName)
	if knownName != "" {
		if _, redirect := r.policy.RedirectExcluded(knownName); redirect || r.policy.IsExcludedName(knownName) {
			log.Infow("Known name is an excluded place, using default instead", "name", knownName)
			return r.resolveByName(ctx, r.policy.DefaultPlace, false)
		}
		r.prefs.Save(ctx, knownName)
		return &model.Location{DisplayName: knownName, Latitude: lat, Longitude: lon}, nil
	}

	geo, err := r.reverse.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	city, display := ReverseDisplayName(*geo)
	if geo.City == "" {
		log.Warnw("No city in reverse geocoding response, using nearest locality", "locality", city)
	}
	if r.policy.IsExcludedName(city) || r.policy.IsExcludedName(display) {
		return nil, fmt.Errorf("%w: %s", repository.ErrExcludedPlace, city)
	}

	log.Infow("Resolved location by coordinates", "display_name", display, "latitude", lat, "longitude", lon)
	r.prefs.Save(ctx, display)
	return &model.Location{DisplayName: display, Latitude: lat, Longitude: lon}, nil
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}

func recordResolution(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, repository.ErrExcludedPlace):
		outcome = "excluded"
	case errors.Is(err, repository.ErrNetwork):
		outcome = "network_error"
	default:
		outcome = "error"
	}
	metrics.ResolutionsTotal.WithLabelValues(operation, outcome).Inc()
}
