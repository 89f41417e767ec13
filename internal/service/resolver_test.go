package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/repository"
)

func TestResolveByName_NotFoundWithoutComma(t *testing.T) {
	for _, q := range []string{"Atlantis", "Xyzzyville", "El Dorado"} {
		t.Run(q, func(t *testing.T) {
			geo := &fakeGeocoder{}
			r, prefs := newTestResolver(geo, nil)

			loc, err := r.ResolveByName(context.Background(), q)
			assert.Nil(t, loc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, repository.ErrNotFound))

			var nf *repository.NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, q, nf.Query)
			assert.Equal(t, []string{q}, geo.calls, "no retry without a comma")

			_, saved := prefs.Load(context.Background())
			assert.False(t, saved)
		})
	}
}

func TestResolveByName_RetriesWithTextBeforeFirstComma(t *testing.T) {
	geo := &fakeGeocoder{results: map[string][]model.GeocodeResult{
		"Springfield": {{Name: "Springfield", Country: "United States", Latitude: 39.8, Longitude: -89.6}},
	}}
	r, prefs := newTestResolver(geo, nil)

	loc, err := r.ResolveByName(context.Background(), "Springfield, Nowhere Land")
	require.NoError(t, err)
	assert.Equal(t, []string{"Springfield, Nowhere Land", "Springfield"}, geo.calls)
	assert.Equal(t, []int{1, 1}, geo.counts, "single best match requested")
	assert.Equal(t, "Springfield, United States", loc.DisplayName)

	saved, ok := prefs.Load(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "Springfield, United States", saved)
}

func TestResolveByName_RetryAlsoEmpty(t *testing.T) {
	geo := &fakeGeocoder{}
	r, _ := newTestResolver(geo, nil)

	_, err := r.ResolveByName(context.Background(), "Nowhere, Land")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.Len(t, geo.calls, 2)
}

func TestResolveByName_KeepsQueryNamingPlaceAndCountry(t *testing.T) {
	tests := []struct {
		query string
		match model.GeocodeResult
	}{
		{"Paris, France", model.GeocodeResult{Name: "Paris", Country: "France"}},
		{"Paris, Île-de-France, France", model.GeocodeResult{Name: "Paris", Country: "France"}},
		{"Springfield, Illinois, United States of America", model.GeocodeResult{Name: "Springfield", Country: "United States of America"}},
		{"Tokyo Japan", model.GeocodeResult{Name: "Tokyo", Country: "Japan"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			geo := &fakeGeocoder{results: map[string][]model.GeocodeResult{tt.query: {tt.match}}}
			r, _ := newTestResolver(geo, nil)

			loc, err := r.ResolveByName(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.query, loc.DisplayName)
		})
	}
}

func TestResolveByName_FormatsStandardName(t *testing.T) {
	geo := &fakeGeocoder{results: map[string][]model.GeocodeResult{
		"paris": {{Name: "Paris", Country: "France", Latitude: 48.85, Longitude: 2.35}},
	}}
	r, _ := newTestResolver(geo, nil)

	loc, err := r.ResolveByName(context.Background(), "  paris ")
	require.NoError(t, err)
	assert.Equal(t, "Paris, France", loc.DisplayName)
	assert.Equal(t, 48.85, loc.Latitude)
	assert.Equal(t, 2.35, loc.Longitude)
}

func TestResolveByName_RedirectsExcludedAlias(t *testing.T) {
	for _, alias := range []string{"Boucherville, Canada", "Boucherville, CA"} {
		t.Run(alias, func(t *testing.T) {
			geo := &fakeGeocoder{results: map[string][]model.GeocodeResult{"Montreal": montreal()}}
			r, prefs := newTestResolver(geo, nil)

			loc, err := r.ResolveByName(context.Background(), alias)
			require.NoError(t, err)
			assert.Equal(t, []string{"Montreal"}, geo.calls)
			assert.Equal(t, "Montreal, Canada", loc.DisplayName)

			saved, _ := prefs.Load(context.Background())
			assert.Equal(t, "Montreal, Canada", saved)
		})
	}
}

func TestResolveByName_NeverReturnsExcludedPlace(t *testing.T) {
	geo := &fakeGeocoder{results: map[string][]model.GeocodeResult{
		"Boucherville": {{Name: "Boucherville", Country: "Canada", Latitude: 45.59, Longitude: -73.43}},
		"Montreal":     montreal(),
	}}
	r, prefs := newTestResolver(geo, nil)

	loc, err := r.ResolveByName(context.Background(), "Boucherville")
	require.NoError(t, err)
	assert.Equal(t, "Montreal, Canada", loc.DisplayName)
	saved, _ := prefs.Load(context.Background())
	assert.NotContains(t, saved, "Boucherville")
}

func TestResolveByName_CollapsesMultiSegmentQuebec(t *testing.T) {
	geo := &fakeGeocoder{results: map[string][]model.GeocodeResult{
		"Quebec, Canada": {{Name: "Quebec", Country: "Canada", Latitude: 46.81, Longitude: -71.21}},
	}}
	r, _ := newTestResolver(geo, nil)

	loc, err := r.ResolveByName(context.Background(), "Quebec City, Quebec, Canada")
	require.NoError(t, err)
	assert.Equal(t, []string{"Quebec, Canada"}, geo.calls)
	assert.Equal(t, "Quebec City, Quebec, Canada", loc.DisplayName)
}

func TestResolveByName_NetworkError(t *testing.T) {
	geo := &fakeGeocoder{err: repository.ErrNetwork}
	r, prefs := newTestResolver(geo, nil)

	_, err := r.ResolveByName(context.Background(), "Paris")
	assert.True(t, errors.Is(err, repository.ErrNetwork))
	assert.Len(t, geo.calls, 1, "no automatic retry on transport failure")
	_, saved := prefs.Load(context.Background())
	assert.False(t, saved)
}

func TestResolveByName_EmptyQuery(t *testing.T) {
	geo := &fakeGeocoder{}
	r, _ := newTestResolver(geo, nil)
	_, err := r.ResolveByName(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, geo.calls)
}

func TestResolveByCoordinates_KnownName(t *testing.T) {
	rev := &fakeReverse{}
	r, prefs := newTestResolver(nil, rev)

	loc, err := r.ResolveByCoordinates(context.Background(), 45.75, 4.85, "Lyon, Auvergne-Rhône-Alpes, France")
	require.NoError(t, err)
	assert.Equal(t, 0, rev.calls)
	assert.Equal(t, model.Location{DisplayName: "Lyon, Auvergne-Rhône-Alpes, France", Latitude: 45.75, Longitude: 4.85}, *loc)

	saved, _ := prefs.Load(context.Background())
	assert.Equal(t, "Lyon, Auvergne-Rhône-Alpes, France", saved)
}

func TestResolveByCoordinates_KnownExcludedNameRedirects(t *testing.T) {
	geo := &fakeGeocoder{results: map[string][]model.GeocodeResult{"Montreal": montreal()}}
	rev := &fakeReverse{}
	r, _ := newTestResolver(geo, rev)

	loc, err := r.ResolveByCoordinates(context.Background(), 45.59, -73.43, "Boucherville, Canada")
	require.NoError(t, err)
	assert.Equal(t, "Montreal, Canada", loc.DisplayName)
	assert.Equal(t, 0, rev.calls)
}

func TestResolveByCoordinates_ReverseLookup(t *testing.T) {
	tests := []struct {
		name string
		resp model.ReverseGeocodeResponse
		want string
	}{
		{"city and code", model.ReverseGeocodeResponse{City: "Montreal", CountryCode: "CA", CountryName: "Canada"}, "Montreal, CA"},
		{"locality fallback", model.ReverseGeocodeResponse{Locality: "Ville-Marie", CountryCode: "CA"}, "Ville-Marie, CA"},
		{"unknown locality", model.ReverseGeocodeResponse{CountryCode: "CA"}, "Unknown, CA"},
		{"country name only", model.ReverseGeocodeResponse{City: "Nuuk", CountryName: "Greenland"}, "Nuuk, Greenland"},
		{"no country", model.ReverseGeocodeResponse{City: "McMurdo"}, "McMurdo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp
			r, prefs := newTestResolver(nil, &fakeReverse{resp: &resp})

			loc, err := r.ResolveByCoordinates(context.Background(), 45.5, -73.6, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.DisplayName)
			assert.Equal(t, 45.5, loc.Latitude)

			saved, _ := prefs.Load(context.Background())
			assert.Equal(t, tt.want, saved)
		})
	}
}

func TestResolveByCoordinates_ExcludedPlace(t *testing.T) {
	for _, city := range []string{"Boucherville", "boucherville"} {
		t.Run(city, func(t *testing.T) {
			r, prefs := newTestResolver(nil, &fakeReverse{resp: &model.ReverseGeocodeResponse{City: city, CountryCode: "CA"}})

			loc, err := r.ResolveByCoordinates(context.Background(), 45.59, -73.43, "")
			assert.Nil(t, loc)
			assert.True(t, errors.Is(err, repository.ErrExcludedPlace))

			_, saved := prefs.Load(context.Background())
			assert.False(t, saved, "excluded place is never persisted")
		})
	}
}

func TestResolveByCoordinates_Errors(t *testing.T) {
	r, _ := newTestResolver(nil, &fakeReverse{err: repository.ErrNetwork})

	_, err := r.ResolveByCoordinates(context.Background(), 45.5, -73.6, "")
	assert.True(t, errors.Is(err, repository.ErrNetwork))

	_, err = r.ResolveByCoordinates(context.Background(), 95, 0, "")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	_, err = r.ResolveByCoordinates(context.Background(), 0, -181, "Somewhere")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}
