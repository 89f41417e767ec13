package service

import (
	"errors"

	"github.com/fakhrymubarak/weather-locator/internal/repository"
)

var (
	ErrEmptyQuery         = errors.New("empty place query")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrStartupFailed      = errors.New("startup resolution failed")
	// ErrSuperseded marks a result that finished after a newer request of the same session began.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// UserMessage converts any resolver or fetch failure into the single
// message shown to the user. A failed startup always gets the generic message.
func UserMessage(err error) string {
	var nf *repository.NotFoundError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStartupFailed):
		return "Failed to fetch weather data"
	case errors.Is(err, ErrEmptyQuery):
		return "Please enter a city name to search"
	case errors.As(err, &nf):
		return `City "` + nf.Query + `" not found. Please check spelling and try again.`
	case errors.Is(err, repository.ErrNotFound):
		return "City not found. Please check spelling and try again."
	case errors.Is(err, ErrInvalidCoordinates):
		return "Invalid coordinates. Please try a different location."
	case errors.Is(err, repository.ErrExcludedPlace):
		return "This location is not available. Please search for a city."
	case errors.Is(err, repository.ErrNetwork):
		return "Network error. Please try again later."
	case errors.Is(err, repository.ErrServiceUnavailable):
		return "Weather service unavailable. Please try again later."
	case errors.Is(err, repository.ErrInvalidPayload):
		return "Unable to retrieve weather data. Please try a different city."
	case errors.Is(err, ErrSuperseded):
		return "A newer search replaced this one."
	default:
		return "Something went wrong. Please try again."
	}
}
