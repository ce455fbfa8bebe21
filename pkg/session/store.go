package session

import (
	"sort"
	"strings"
	"sync"
)

// ErrorKeyPrefix prefixes every field-level validation message stored in a
// session.
const ErrorKeyPrefix = "validator_error_"

// ErrorKey returns the session key holding the validation message for field.
func ErrorKey(field string) string {
	return ErrorKeyPrefix + field
}

// Reader is the read-only view the form builder consumes. A missing key and an
// empty value are both reported as absent.
type Reader interface {
	Read(key string) (string, bool)
}

// Writer records values into a session.
type Writer interface {
	Set(key, value string)
	Delete(key string)
}

// ReadWriter combines both sides of a session store.
type ReadWriter interface {
	Reader
	Writer
}

// Store is a mutex guarded in-memory session.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ ReadWriter = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// NewStoreFrom seeds a store with a copy of values.
func NewStoreFrom(values map[string]string) *Store {
	store := NewStore()
	for key, value := range values {
		store.values[key] = value
	}
	return store
}

// Read returns the value stored under key.
func (s *Store) Read(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Set stores value under key. Empty values delete the key.
func (s *Store) Set(key, value string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}

// Delete removes key.
func (s *Store) Delete(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Flash reads key and removes it in the same step.
func (s *Store) Flash(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	delete(s.values, key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Clear removes every key starting with prefix and returns how many were
// dropped. An empty prefix clears the store.
func (s *Store) Clear(prefix string) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			delete(s.values, key)
			removed++
		}
	}
	return removed
}

// Keys lists stored keys in sorted order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the stored values.
func (s *Store) Snapshot() map[string]string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// Empty is a Reader that never holds a value.
type Empty struct{}

// Read always reports the key as absent.
func (Empty) Read(string) (string, bool) {
	return "", false
}

// MapReader adapts a plain map to Reader.
type MapReader map[string]string

// Read returns the non-empty value stored under key.
func (m MapReader) Read(key string) (string, bool) {
	value, ok := m[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
