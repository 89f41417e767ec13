// Package preference persists the most recently resolved display name.
//
// Every backend swallows its own failures: a broken store behaves like an
// empty one and never surfaces an error to the caller.
package preference

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/metrics"
	"github.com/fakhrymubarak/weather-locator/internal/redis"
	"github.com/fakhrymubarak/weather-locator/internal/repository"
	"golang.org/x/time/rate"
)

// Store keeps a single process-wide display name.
type Store interface {
	// Save overwrites the record. Failures are logged and dropped.
	Save(ctx context.Context, displayName string)
	// Load returns the record, or false when absent or unreadable.
	Load(ctx context.Context) (string, bool)
}

// warnSometimes throttles "storage unavailable" warnings so a dead backend
// does not flood the log on every request.
var warnSometimes = rate.Sometimes{First: 1, Interval: time.Minute}

func swallow(backend, op string, err error) {
	metrics.PreferenceErrors.WithLabelValues(backend, op).Inc()
	warnSometimes.Do(func() {
		config.GetLogger().Warnw("Preference storage unavailable",
			"backend", backend, "operation", op,
			"error", fmt.Errorf("%w: %v", repository.ErrStorageUnavailable, err))
	})
}

// validName reports whether name is worth persisting.
func validName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// Open builds the store selected by preference.backend. The returned closer
// is never nil. If the backend cannot be opened the unavailable store is used.
func Open(ctx context.Context) (Store, io.Closer) {
	key := config.GetPreferenceKey()
	backend := config.GetPreferenceBackend()
	log := config.GetLogger()

	switch backend {
	case "memory":
		return NewMemoryStore(), nopCloser{}
	case "sqlite":
		s, err := NewSQLiteStore(ctx, config.GetSQLitePath(), key)
		if err != nil {
			log.Errorw("Could not open sqlite preference store", "path", config.GetSQLitePath(), "error", err)
			return Unavailable{}, nopCloser{}
		}
		return s, s
	case "redis", "":
		if err := redis.Ping(ctx, 2*time.Second); err != nil {
			log.Warnw("Redis not reachable, remembered city will be empty until it is", "addr", config.GetRedisAddr(), "error", err)
		}
		return NewRedisStore(redis.GetClient(), key), nopCloser{}
	default:
		log.Errorw("Unknown preference backend", "backend", backend)
		return Unavailable{}, nopCloser{}
	}
}

// Unavailable is the store used when no backend could be opened.
type Unavailable struct{}

func (Unavailable) Save(context.Context, string) {}

func (Unavailable) Load(context.Context) (string, bool) { return "", false }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
