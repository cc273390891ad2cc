package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/carrier/pkg/cache"
)

// CacheStore keeps sessions in a cache.Cache. Sessions are keyed by ID;
// two secondary indexes map cookie tokens and user IDs back to session IDs.
type CacheStore struct {
	sessions cache.Cache[Session]
	tokens   cache.Cache[string]
	users    cache.Cache[[]string]

	mu sync.Mutex // guards read-modify-write of the user index
}

// NewCacheStore builds a store from three caches, one per keyspace.
func NewCacheStore(sessions cache.Cache[Session], tokens cache.Cache[string], users cache.Cache[[]string]) *CacheStore {
	return &CacheStore{sessions: sessions, tokens: tokens, users: users}
}

// NewMemoryStore returns a process-local store, for development and tests.
func NewMemoryStore(opts ...cache.MemoryOption) *CacheStore {
	return NewCacheStore(
		cache.NewMemory[Session](opts...),
		cache.NewMemory[string](opts...),
		cache.NewMemory[[]string](opts...),
	)
}

// NewRedisStore returns a store shared by every process using the same
// Redis database. Keys live under "{prefix}:id", "{prefix}:tok" and
// "{prefix}:usr".
func NewRedisStore(client redis.UniversalClient, prefix string) *CacheStore {
	if prefix == "" {
		prefix = "session"
	}
	return NewCacheStore(
		cache.NewRedis[Session](client, nil, cache.WithPrefix(prefix+":id")),
		cache.NewRedis[string](client, nil, cache.WithPrefix(prefix+":tok")),
		cache.NewRedis[[]string](client, nil, cache.WithPrefix(prefix+":usr")),
	)
}

func (st *CacheStore) Create(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	if err := st.sessions.Set(ctx, s.ID, snapshot(s), ttl); err != nil {
		return fmt.Errorf("session: create: %w", err)
	}
	if err := st.tokens.Set(ctx, s.Token, s.ID, ttl); err != nil {
		return fmt.Errorf("session: create: %w", err)
	}
	if s.UserID != "" {
		return st.index(ctx, s.UserID, s.ID, ttl)
	}
	return nil
}

func (st *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	id, err := st.tokens.Get(ctx, token)
	if err != nil {
		return nil, notFound(err)
	}
	s, err := st.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Token != token {
		// Stale token of a rotated session.
		_ = st.tokens.Delete(ctx, token)
		return nil, ErrNotFound
	}
	if s.IsExpired() {
		_ = st.Delete(ctx, s.ID)
		return nil, ErrExpired
	}
	return s, nil
}

func (st *CacheStore) Update(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	prev, err := st.load(ctx, s.ID)
	if err != nil {
		return err
	}
	if err := st.sessions.Set(ctx, s.ID, snapshot(s), ttl); err != nil {
		return fmt.Errorf("session: update: %w", err)
	}
	if err := st.tokens.Set(ctx, s.Token, s.ID, ttl); err != nil {
		return fmt.Errorf("session: update: %w", err)
	}
	if prev.Token != s.Token {
		_ = st.tokens.Delete(ctx, prev.Token)
	}
	if prev.UserID != s.UserID {
		if prev.UserID != "" {
			st.unindex(ctx, prev.UserID, s.ID)
		}
		if s.UserID != "" {
			return st.index(ctx, s.UserID, s.ID, ttl)
		}
	}
	return nil
}

func (st *CacheStore) Delete(ctx context.Context, id string) error {
	s, err := st.sessions.Take(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	_ = st.tokens.Delete(ctx, s.Token)
	if s.UserID != "" {
		st.unindex(ctx, s.UserID, id)
	}
	return nil
}

func (st *CacheStore) DeleteByUserID(ctx context.Context, userID string) error {
	st.mu.Lock()
	ids, err := st.users.Take(ctx, userID)
	st.mu.Unlock()
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: delete by user: %w", err)
	}

	var errs []error
	for _, id := range ids {
		s, err := st.sessions.Take(ctx, id)
		if errors.Is(err, cache.ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_ = st.tokens.Delete(ctx, s.Token)
	}
	return errors.Join(errs...)
}

func (st *CacheStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	s, err := st.load(ctx, id)
	if err != nil {
		return err
	}
	s.LastActiveAt = lastActiveAt
	return st.sessions.Set(ctx, id, *s, time.Until(s.ExpiresAt))
}

// Close releases the underlying caches.
func (st *CacheStore) Close() error {
	return errors.Join(st.sessions.Close(), st.tokens.Close(), st.users.Close())
}

func (st *CacheStore) load(ctx context.Context, id string) (*Session, error) {
	s, err := st.sessions.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s.Clone(), nil
}

func (st *CacheStore) index(ctx context.Context, userID, id string, ttl time.Duration) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	ids, err := st.users.Get(ctx, userID)
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("session: index user: %w", err)
	}
	if slices.Contains(ids, id) {
		return nil
	}
	// The index outlives its newest session; stale IDs are skipped on use.
	return st.users.Set(ctx, userID, append(ids, id), ttl)
}

func (st *CacheStore) unindex(ctx context.Context, userID, id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	ids, err := st.users.Get(ctx, userID)
	if err != nil {
		return
	}
	ids = slices.DeleteFunc(ids, func(v string) bool { return v == id })
	if len(ids) == 0 {
		_ = st.users.Delete(ctx, userID)
		return
	}
	_ = st.users.Set(ctx, userID, ids, -1)
}

// snapshot is the stored form of s, free of per-request flags.
func snapshot(s *Session) Session {
	c := s.Clone()
	c.ClearDirty()
	c.ClearNew()
	return *c
}

func notFound(err error) error {
	if errors.Is(err, cache.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("session: load: %w", err)
}

var _ Store = (*CacheStore)(nil)
