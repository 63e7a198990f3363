// Package cache implements the in-process cache store: a TTL-expiring map
// with single-flight fill coalescing so that concurrent misses for the same
// key trigger exactly one producer call. There is no eviction policy beyond
// time expiry and no external backend; entries live only as long as the
// process does.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cor0nius/saltyocean/internal/telemetry"
)

// entry holds a cached value alongside the wall-clock instant it expires.
type entry struct {
	value  any
	expiry time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiry)
}

// Store is a TTL cache safe for concurrent use. The zero value is not
// usable; construct with New.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	sfg     singleflight.Group

	// now is overridable in tests; New sets it to time.Now, and a nil value
	// also falls back to time.Now.
	now func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// cacheNamespace returns the part of a key before its first ":" (the
// convention every caller in this codebase uses, e.g. "obs:46086",
// "fcst:33.0000_242.5000", "env:46086"), for use as a metrics label.
func cacheNamespace(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return "unknown"
}

// Get returns the cached value for key and true if present and unexpired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || e.expired(s.clock()) {
		telemetry.CacheOperations.WithLabelValues(cacheNamespace(key), "miss").Inc()
		return nil, false
	}
	telemetry.CacheOperations.WithLabelValues(cacheNamespace(key), "hit").Inc()
	return e.value, true
}

// Put stores value under key with the given ttl. A non-positive ttl stores
// a value that is already expired, which is occasionally useful in tests
// but never in production code.
func (s *Store) Put(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiry: s.clock().Add(ttl)}
	s.mu.Unlock()
}

// Purge removes every entry from the store and returns how many were
// removed.
func (s *Store) Purge() int {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]entry)
	s.mu.Unlock()
	return n
}

// Delete removes a single key, if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Producer fetches the value to cache under a key on a miss. It is called
// with the context of whichever caller happened to win the single-flight
// race; callers that lost the race still receive its result.
type Producer func(ctx context.Context) (any, error)

// GetOrFill returns the cached value for key, or calls producer to fill it
// on a miss. Concurrent callers missing on the same key block on a single
// in-flight producer call rather than each invoking it.
func (s *Store) GetOrFill(ctx context.Context, key string, ttl time.Duration, producer Producer) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, err, _ := s.sfg.Do(key, func() (any, error) {
		// Re-check under the single-flight lock: another goroutine may
		// have filled the key while we were waiting to enter Do.
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(key, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetOrFillTyped is a generic convenience wrapper around GetOrFill for
// callers that know the concrete type they expect back. It type-asserts the
// Store's untyped result, which is safe as long as all producers registered
// under a given key family return a consistent type.
func GetOrFillTyped[T any](ctx context.Context, s *Store, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	v, err := s.GetOrFill(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return producer(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
