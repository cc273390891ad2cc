package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func (c Config) options() (*redis.Options, error) {
	if c.URL == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(c.URL, "redis://") && !strings.HasPrefix(c.URL, "rediss://") {
		return nil, ErrParseURL
	}

	o, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, errors.Join(ErrParseURL, err)
	}

	if c.PoolSize > 0 {
		o.PoolSize = c.PoolSize
	}
	if c.MinIdleConns > 0 {
		o.MinIdleConns = c.MinIdleConns
	}
	if c.MaxIdleTime > 0 {
		o.ConnMaxIdleTime = c.MaxIdleTime
	}
	if c.MaxLifetime > 0 {
		o.ConnMaxLifetime = c.MaxLifetime
	}
	if c.ReadTimeout > 0 {
		o.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		o.WriteTimeout = c.WriteTimeout
	}
	if c.DialTimeout > 0 {
		o.DialTimeout = c.DialTimeout
	}
	return o, nil
}

// Open dials Redis and pings it, retrying with a linear backoff.
func Open(ctx context.Context, cfg Config) (*redis.Client, error) {
	o, err := cfg.options()
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := range max(cfg.RetryAttempts, 1) {
		if i > 0 {
			if err := wait(ctx, time.Duration(i)*cfg.RetryInterval); err != nil {
				return nil, errors.Join(ErrConnect, err)
			}
		}

		client := redis.NewClient(o)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			lastErr = err
			continue
		}
		return client, nil
	}

	return nil, errors.Join(ErrConnect, lastErr)
}

// Healthcheck pings Redis. The returned function fits health.Check.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown closes the client. It matches the app shutdown hook signature.
func Shutdown(client redis.UniversalClient) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
