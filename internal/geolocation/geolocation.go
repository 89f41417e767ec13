// Package geolocation models a one-shot device position request with a
// bounded wait and an acceptable cached-position age.
package geolocation

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("geolocation position unavailable")
	ErrTimeout             = errors.New("geolocation timed out")
)

type Position struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

// Options mirrors the browser PositionOptions.
type Options struct {
	Timeout    time.Duration
	MaximumAge time.Duration
}

// Locator yields the device position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Position, error)

func (f LocatorFunc) Locate(ctx context.Context) (Position, error) { return f(ctx) }

// Static answers with a fixed position, or with Err when Position is nil.
type Static struct {
	Position *Position
	Err      error
}

func (s Static) Locate(ctx context.Context) (Position, error) {
	if s.Position != nil {
		return *s.Position, nil
	}
	if s.Err != nil {
		return Position{}, s.Err
	}
	return Position{}, ErrPositionUnavailable
}

// CurrentPosition asks l for a position, giving up after opts.Timeout.
// A nil locator means geolocation is not supported.
func CurrentPosition(ctx context.Context, l Locator, opts Options) (Position, error) {
	if l == nil {
		return Position{}, ErrPositionUnavailable
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type result struct {
		pos Position
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := l.Locate(ctx)
		done <- result{pos, err}
	}()

	select {
	case r := <-done:
		return r.pos, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, ctx.Err()
	}
}

// Cache remembers positions per key for at most the maximum age.
type Cache struct {
	c      *cache.Cache
	maxAge time.Duration
}

func NewCache(maxAge time.Duration) *Cache {
	return &Cache{c: cache.New(maxAge, 2*maxAge), maxAge: maxAge}
}

func (c *Cache) Remember(key string, p Position) {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	c.c.Set(key, p, cache.DefaultExpiration)
}

// Lookup returns a cached position no older than the maximum age.
func (c *Cache) Lookup(key string) (Position, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		return Position{}, false
	}
	p := v.(Position)
	if time.Since(p.Timestamp) > c.maxAge {
		return Position{}, false
	}
	return p, true
}

// Locator serves a fresh cached position for key, otherwise asks next and
// remembers what it returns.
func (c *Cache) Locator(key string, next Locator) Locator {
	return LocatorFunc(func(ctx context.Context) (Position, error) {
		if p, ok := c.Lookup(key); ok {
			return p, nil
		}
		if next == nil {
			return Position{}, ErrPositionUnavailable
		}
		p, err := next.Locate(ctx)
		if err != nil {
			return Position{}, err
		}
		c.Remember(key, p)
		return p, nil
	})
}
