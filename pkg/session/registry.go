package session

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an untouched session is kept.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxSessions caps the number of live sessions.
	DefaultMaxSessions = 10000
)

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithTTL sets how long a session may go unused before it is evicted. Zero or
// a negative value keeps sessions until they are dropped or displaced by the
// cap.
func WithTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = ttl }
}

// WithMaxSessions caps the number of retained sessions. When full, the least
// recently used session makes room for a new one. Zero or a negative value
// disables the cap.
func WithMaxSessions(max int) RegistryOption {
	return func(r *Registry) { r.max = max }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry keeps one Store per session id. Expired sessions are swept on
// access.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*registryEntry
	ttl       time.Duration
	max       int
	now       func() time.Time
	lastSweep time.Time
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewRegistry creates an empty registry with DefaultTTL and
// DefaultMaxSessions unless options say otherwise.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]*registryEntry),
		ttl:     DefaultTTL,
		max:     DefaultMaxSessions,
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Get returns the store for id, creating it on first use. Blank ids get a
// throwaway store that is never retained.
func (r *Registry) Get(id string) *Store {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewStore()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	if entry, ok := r.liveLocked(id, now); ok {
		entry.lastSeen = now
		return entry.store
	}

	if r.max > 0 {
		for len(r.entries) >= r.max {
			r.evictOldestLocked()
		}
	}
	entry := &registryEntry{store: NewStore(), lastSeen: now}
	r.entries[id] = entry
	return entry.store
}

// Lookup returns the live store for id without creating it.
func (r *Registry) Lookup(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	entry, ok := r.liveLocked(strings.TrimSpace(id), now)
	if !ok {
		return nil, false
	}
	entry.lastSeen = now
	return entry.store, true
}

// Drop forgets the store for id.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, strings.TrimSpace(id))
}

// Len reports the number of retained sessions, expired ones included until
// the next sweep.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// IDs lists the live session ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	ids := make([]string, 0, len(r.entries))
	for id, entry := range r.entries {
		if r.expired(entry, now) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) liveLocked(id string, now time.Time) (*registryEntry, bool) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	if r.expired(entry, now) {
		delete(r.entries, id)
		return nil, false
	}
	return entry, true
}

func (r *Registry) expired(entry *registryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(entry.lastSeen) >= r.ttl
}

// sweepLocked removes expired entries at most once per quarter TTL.
func (r *Registry) sweepLocked(now time.Time) {
	if r.ttl <= 0 || now.Sub(r.lastSweep) < r.ttl/4 {
		return
	}
	r.lastSweep = now
	for id, entry := range r.entries {
		if r.expired(entry, now) {
			delete(r.entries, id)
		}
	}
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
		found    bool
	)
	for id, entry := range r.entries {
		if !found || entry.lastSeen.Before(oldest) {
			oldestID, oldest, found = id, entry.lastSeen, true
		}
	}
	if !found {
		return
	}
	delete(r.entries, oldestID)
}
