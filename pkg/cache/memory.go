package cache

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type entry[V any] struct {
	expiresAt time.Time // zero means no expiry
	value     V
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process cache with per-entry TTL and LRU eviction.
// Recency ordering and the size bound come from simplelru; expiry is
// checked on access and swept by a background janitor.
type Memory[V any] struct {
	lru     *simplelru.LRU[string, entry[V]]
	opts    memoryOptions
	onEvict func(key string, value V)
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
}

// NewMemory creates an in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	size := o.maxEntries
	if size <= 0 {
		size = math.MaxInt
	}

	m := &Memory[V]{opts: o, done: make(chan struct{})}
	// simplelru only fails on a non-positive size.
	m.lru, _ = simplelru.NewLRU(size, func(key string, e entry[V]) {
		if m.onEvict != nil {
			m.onEvict(key, e.value)
		}
	})

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// SetEvictCallback registers fn to run whenever an entry leaves the cache,
// whether through eviction, expiry, Delete, Take or Clear.
// fn runs with the cache lock held and must not call back into the cache.
func (m *Memory[V]) SetEvictCallback(fn func(key string, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

// Get returns the value and marks it as recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lru.Get(key)
	if !ok || e.expired(time.Now()) {
		if ok {
			m.lru.Remove(key)
		}
		var zero V
		return zero, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	e := entry[V]{value: value}
	if ttl = expiry(ttl, m.opts.defaultTTL); ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.lru.Add(key, e)

	return nil
}

func (m *Memory[V]) Take(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if m.closed {
		return zero, ErrClosed
	}

	e, ok := m.lru.Peek(key)
	if !ok {
		return zero, ErrNotFound
	}
	m.lru.Remove(key)
	if e.expired(time.Now()) {
		return zero, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.lru.Remove(key)
	return nil
}

// Has reports whether a live entry exists without touching its recency.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lru.Peek(key)
	if !ok {
		return false, nil
	}
	if e.expired(time.Now()) {
		m.lru.Remove(key)
		return false, nil
	}
	return true, nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.lru.Purge()
	return nil
}

// Close stops the janitor. It is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory[V]) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, key := range m.lru.Keys() {
		if e, ok := m.lru.Peek(key); ok && e.expired(now) {
			m.lru.Remove(key)
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
