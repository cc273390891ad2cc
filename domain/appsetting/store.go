package appsetting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/carrier/domain"
	"github.com/dmitrymomot/carrier/pkg/cache"
)

// Loader is the part of Repository Store needs.
type Loader interface {
	RetrieveAll(ctx context.Context) ([]AppSetting, error)
	RetrieveByShortName(ctx context.Context, key string) (*AppSetting, error)
}

// Store serves setting values from a cache filled by Refresh. Misses fall
// through to the database and are cached for ttl.
type Store struct {
	repo  Loader
	cache cache.Cache[string]
	ttl   time.Duration
}

// NewStore creates a Store. A nil cache uses an in-process LRU.
func NewStore(repo Loader, c cache.Cache[string], ttl time.Duration) *Store {
	if c == nil {
		c = cache.NewMemory[string](cache.WithDefaultTTL(ttl))
	}
	return &Store{repo: repo, cache: c, ttl: ttl}
}

// Value returns the setting named key, or def when it does not exist.
func (s *Store) Value(ctx context.Context, key, def string) (string, error) {
	v, err := cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (string, time.Duration, error) {
		row, err := s.repo.RetrieveByShortName(ctx, key)
		if err != nil {
			return "", 0, err
		}
		return row.Value, s.ttl, nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return def, nil
	}
	return v, err
}

// Refresh reloads every setting into the cache.
func (s *Store) Refresh(ctx context.Context) (int, error) {
	all, err := s.repo.RetrieveAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, row := range all {
		if err := s.cache.Set(ctx, row.ShortName, row.Value, s.ttl); err != nil {
			return 0, err
		}
	}
	return len(all), nil
}

// RefreshTask reloads the Store periodically. It is registered with
// job.WithScheduledTask.
type RefreshTask struct {
	Store    *Store
	Logger   *slog.Logger
	Interval string
}

func (*RefreshTask) Name() string { return "appsetting.refresh" }

func (t *RefreshTask) Schedule() string {
	if t.Interval != "" {
		return t.Interval
	}
	return "*/5 * * * *"
}

func (t *RefreshTask) Handle(ctx context.Context) error {
	n, err := t.Store.Refresh(ctx)
	if err != nil {
		return err
	}
	if t.Logger != nil {
		t.Logger.DebugContext(ctx, "app settings refreshed", slog.Int("count", n))
	}
	return nil
}
