package service

import (
	"context"
	"strings"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/repository"
)

// SuggestionService produces the autocomplete list for a partial city name.
type SuggestionService struct {
	geocoder  repository.GeocodingRepository
	policy    PlacePolicy
	minLength int
	count     int
}

func NewSuggestionService(geocoder repository.GeocodingRepository, policy PlacePolicy) *SuggestionService {
	return &SuggestionService{
		geocoder:  geocoder,
		policy:    policy,
		minLength: config.GetSuggestionMinLength(),
		count:     config.GetSuggestionCount(),
	}
}

// Suggest returns an empty list for short input. The excluded place is never suggested.
func (s *SuggestionService) Suggest(ctx context.Context, query string) ([]model.Suggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.minLength {
		return []model.Suggestion{}, nil
	}

	results, err := s.geocoder.Search(ctx, query, s.count)
	if err != nil {
		return nil, err
	}

	out := make([]model.Suggestion, 0, len(results))
	for _, r := range results {
		if s.policy.IsExcludedName(r.Name) {
			continue
		}
		out = append(out, model.Suggestion{
			DisplayName: SuggestionDisplayName(r),
			Name:        r.Name,
			Country:     r.Country,
			Admin1:      r.Admin1,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		})
	}
	return out, nil
}
