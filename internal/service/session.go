package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/fakhrymubarak/weather-locator/internal/model"
)

// Session is the state one client sees: the currently displayed weather and
// a generation counter. A pipeline takes a ticket when it starts and may only
// commit its result if no newer pipeline started since.
type Session struct {
	ID string

	mu         sync.Mutex
	generation uint64
	current    *model.WeatherView
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Begin starts a new pipeline and supersedes any in flight.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Commit publishes view if ticket is still the latest. It reports whether it did.
func (s *Session) Commit(ticket uint64, view *model.WeatherView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.generation {
		return false
	}
	s.current = view
	return true
}

func (s *Session) Current() *model.WeatherView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Sessions is the table of live sessions; idle ones expire.
type Sessions struct {
	c  *cache.Cache
	mu sync.Mutex
}

func NewSessions(expiration time.Duration) *Sessions {
	return &Sessions{c: cache.New(expiration, expiration/2)}
}

// Get returns the session for id, creating one (with a fresh id if id is
// empty or unknown) when needed. Every access extends the session lifetime.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if v, ok := s.c.Get(id); ok {
			sess := v.(*Session)
			s.c.SetDefault(id, sess)
			return sess
		}
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	sess := NewSession(id)
	s.c.SetDefault(id, sess)
	return sess
}
