package repository

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the upstream clients and the resolver.
var (
	ErrNotFound           = errors.New("location not found")
	ErrExcludedPlace      = errors.New("location resolves to an excluded place")
	ErrServiceUnavailable = errors.New("weather service unavailable")
	ErrInvalidPayload     = errors.New("invalid weather payload")
	ErrNetwork            = errors.New("network error")
	ErrStorageUnavailable = errors.New("preference storage unavailable")
)

// NotFoundError reports a query that matched nothing, even after simplification.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("city %q not found", e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
