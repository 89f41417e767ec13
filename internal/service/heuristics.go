package service

import (
	"slices"
	"strings"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/model"
)

// PlacePolicy holds the place-name heuristics. They are approximate string
// rules, kept as named functions so each one can be tested or overridden.
type PlacePolicy struct {
	// DefaultPlace is resolved whenever nothing better is available.
	DefaultPlace string
	// ExcludedPlace is never surfaced as a display name.
	ExcludedPlace string
	// ExcludedAliases are stored display names that get redirected to DefaultPlace.
	ExcludedAliases []string
	// CollapseKeyword and CollapseTarget drive the multi-segment collapse rule.
	CollapseKeyword string
	CollapseTarget  string
}

// DefaultPlacePolicy builds the policy from config.
func DefaultPlacePolicy() PlacePolicy {
	return PlacePolicy{
		DefaultPlace:    config.GetDefaultPlace(),
		ExcludedPlace:   config.GetExcludedPlace(),
		ExcludedAliases: config.GetExcludedAliases(),
		CollapseKeyword: config.GetCollapseKeyword(),
		CollapseTarget:  config.GetCollapseTarget(),
	}
}

// RedirectExcluded substitutes the default place for a query that names the
// excluded place in one of its known display forms.
func (p PlacePolicy) RedirectExcluded(query string) (string, bool) {
	if p.ExcludedPlace == "" {
		return query, false
	}
	if !strings.Contains(strings.ToLower(query), strings.ToLower(p.ExcludedPlace)) {
		return query, false
	}
	if !slices.Contains(p.ExcludedAliases, query) {
		return query, false
	}
	return p.DefaultPlace, true
}

// IsExcludedName reports whether name is the excluded place or one of its aliases.
func (p PlacePolicy) IsExcludedName(name string) bool {
	if p.ExcludedPlace == "" {
		return false
	}
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, p.ExcludedPlace) {
		return true
	}
	for _, alias := range p.ExcludedAliases {
		if strings.EqualFold(name, alias) {
			return true
		}
	}
	return false
}

// CollapseQuery rewrites queries with more than two comma segments that
// mention the collapse keyword into the two-segment target form.
func (p PlacePolicy) CollapseQuery(query string) string {
	if p.CollapseKeyword == "" {
		return query
	}
	if len(strings.Split(query, ",")) > 2 && strings.Contains(strings.ToLower(query), strings.ToLower(p.CollapseKeyword)) {
		return p.CollapseTarget
	}
	return query
}

// SimplifyQuery keeps the text before the first comma.
func SimplifyQuery(query string) string {
	before, _, _ := strings.Cut(query, ",")
	return strings.TrimSpace(before)
}

// FormatDisplayName keeps the query verbatim when it already names both the
// matched place and its country (a disambiguated suggestion pick), otherwise
// it formats "{name}, {country}".
func FormatDisplayName(query string, match model.GeocodeResult) string {
	if match.Name != "" && match.Country != "" &&
		strings.Contains(query, match.Name) && strings.Contains(query, match.Country) {
		return query
	}
	if match.Country == "" {
		return match.Name
	}
	return match.Name + ", " + match.Country
}

// ReverseDisplayName picks the locality name from a reverse geocoding answer
// and formats it with the country code (or name when no code is given).
func ReverseDisplayName(geo model.ReverseGeocodeResponse) (city, display string) {
	city = geo.City
	if city == "" {
		city = geo.Locality
	}
	if city == "" {
		city = "Unknown"
	}
	country := geo.CountryCode
	if country == "" {
		country = geo.CountryName
	}
	if country == "" {
		return city, city
	}
	return city, city + ", " + country
}

// suggestionAdmin1Countries get their first-level region shown in suggestions.
var suggestionAdmin1Countries = []string{
	"Canada", "United States of America", "Russia", "China", "Brazil", "India",
}

// SuggestionDisplayName formats an autocomplete entry, adding the region for
// large countries so same-named cities can be told apart.
func SuggestionDisplayName(r model.GeocodeResult) string {
	name := r.Name
	if r.Admin1 != "" && slices.Contains(suggestionAdmin1Countries, r.Country) {
		name += ", " + r.Admin1
	}
	if r.Country != "" {
		name += ", " + r.Country
	}
	return name
}
