package service

import (
	"context"
	"fmt"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/geolocation"
	"github.com/fakhrymubarak/weather-locator/internal/metrics"
	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/preference"
)

type StartupState int

const (
	StateInit StartupState = iota
	StateTryStoredName
	StateTryGeolocation
	StateUseDefault
	StateResolved
	StateFailed
)

func (s StartupState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateTryStoredName:
		return "TryStoredName"
	case StateTryGeolocation:
		return "TryGeolocation"
	case StateUseDefault:
		return "UseDefault"
	case StateResolved:
		return "Resolved"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("StartupState(%d)", int(s))
	}
}

// StartupResult is the final state of a startup run and every state visited on the way.
type StartupResult struct {
	State    StartupState
	Location *model.Location
	Trace    []StartupState
}

// StartupPolicy decides which place to show when a client first loads:
// the remembered name, then the device position, then the default place.
type StartupPolicy struct {
	resolver     Resolver
	prefs        preference.Store
	geoOptions   geolocation.Options
	defaultPlace string
}

func NewStartupPolicy(resolver Resolver, prefs preference.Store, defaultPlace string) *StartupPolicy {
	if prefs == nil {
		prefs = preference.Unavailable{}
	}
	return &StartupPolicy{
		resolver: resolver,
		prefs:    prefs,
		geoOptions: geolocation.Options{
			Timeout:    config.GetGeolocationTimeout(),
			MaximumAge: config.GetGeolocationMaximumAge(),
		},
		defaultPlace: defaultPlace,
	}
}

// Run drives the state machine to Resolved or Failed. A failed stored name
// goes straight to the default place, never to geolocation, and the default
// place is tried exactly once.
func (p *StartupPolicy) Run(ctx context.Context, locator geolocation.Locator) (*StartupResult, error) {
	log := config.GetLogger()
	res := &StartupResult{State: StateInit}

	var (
		stored  string
		lastErr error
	)
	for {
		res.Trace = append(res.Trace, res.State)

		switch res.State {
		case StateInit:
			if name, ok := p.prefs.Load(ctx); ok {
				stored = name
				res.State = StateTryStoredName
			} else {
				res.State = StateTryGeolocation
			}

		case StateTryStoredName:
			loc, err := p.resolver.ResolveByName(ctx, stored)
			if err != nil {
				log.Warnw("Stored city could not be resolved, using default", "stored", stored, "error", err)
				res.State = StateUseDefault
				continue
			}
			res.Location = loc
			res.State = StateResolved

		case StateTryGeolocation:
			pos, err := geolocation.CurrentPosition(ctx, locator, p.geoOptions)
			if err != nil {
				log.Infow("Geolocation unavailable, using default", "error", err)
				res.State = StateUseDefault
				continue
			}
			loc, err := p.resolver.ResolveByCoordinates(ctx, pos.Latitude, pos.Longitude, "")
			if err != nil {
				log.Warnw("Device position could not be resolved, using default",
					"latitude", pos.Latitude, "longitude", pos.Longitude, "error", err)
				res.State = StateUseDefault
				continue
			}
			res.Location = loc
			res.State = StateResolved

		case StateUseDefault:
			loc, err := p.resolver.ResolveByName(ctx, p.defaultPlace)
			if err != nil {
				lastErr = err
				res.State = StateFailed
				continue
			}
			res.Location = loc
			res.State = StateResolved

		case StateResolved:
			metrics.StartupOutcomes.WithLabelValues(res.State.String()).Inc()
			return res, nil

		case StateFailed:
			metrics.StartupOutcomes.WithLabelValues(res.State.String()).Inc()
			log.Errorw("Startup resolution failed", "default", p.defaultPlace, "error", lastErr)
			return res, fmt.Errorf("%w: %w", ErrStartupFailed, lastErr)
		}
	}
}
