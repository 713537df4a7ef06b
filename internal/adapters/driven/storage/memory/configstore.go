package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/tidy/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a map-backed driven.ConfigStore for tests and the
// memory storage backend. Values keep whatever type they were set with.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates a store seeded with the merged values maps.
func NewConfigStore(values ...map[string]any) *ConfigStore {
	s := &ConfigStore{values: make(map[string]any)}
	for _, m := range values {
		maps.Copy(s.values, m)
	}
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

func (s *ConfigStore) GetString(key string) string {
	return lookup[string](s, key)
}

// GetInt accepts the integer shapes a decoded config can produce.
func (s *ConfigStore) GetInt(key string) int {
	switch v := lookup[any](s, key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (s *ConfigStore) GetBool(key string) bool {
	return lookup[bool](s, key)
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *ConfigStore) Save() error { return nil }

func (s *ConfigStore) Load() error { return nil }

func (s *ConfigStore) Path() string { return ":memory:" }

// lookup returns the value for key as T, or T's zero value.
func lookup[T any](s *ConfigStore, key string) T {
	val, _ := s.Get(key)
	typed, _ := val.(T)
	return typed
}
