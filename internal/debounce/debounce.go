// Package debounce implements a trailing-edge debounce keyed by caller.
package debounce

import (
	"context"
	"sync"
	"time"
)

type Debouncer struct {
	delay time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, gens: make(map[string]uint64)}
}

// Wait holds the call for the debounce delay and reports whether it is still
// the latest call for key. Only the trailing call of a burst gets true.
func (d *Debouncer) Wait(ctx context.Context, key string) (bool, error) {
	d.mu.Lock()
	d.gens[key]++
	gen := d.gens[key]
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		d.forget(key, gen)
		return false, ctx.Err()
	case <-timer.C:
	}

	return d.forget(key, gen), nil
}

// forget drops the entry for key if gen is still its latest call.
func (d *Debouncer) forget(key string, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gens[key] != gen {
		return false
	}
	delete(d.gens, key)
	return true
}
