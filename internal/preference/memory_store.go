package preference

import (
	"context"

	"github.com/patrickmn/go-cache"
)

const memoryKey = "last"

// MemoryStore lives only as long as the process. Used in tests and local runs.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Save(_ context.Context, displayName string) {
	if !validName(displayName) {
		return
	}
	s.c.Set(memoryKey, displayName, cache.NoExpiration)
}

func (s *MemoryStore) Load(_ context.Context) (string, bool) {
	v, ok := s.c.Get(memoryKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
