package middlewares

import (
	"math"
	"net/http"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/carrier/internal"
)

// DefaultRateLimitSize bounds the number of tracked clients. The least
// recently seen client is forgotten first.
const DefaultRateLimitSize = 10000

// MsgRateLimited is sent with 429 responses.
const MsgRateLimited = "Too many requests"

type rateLimitConfig struct {
	size    int
	key     internal.Extractor
	onLimit func(c internal.Context)
}

// RateLimitOption configures RateLimit.
type RateLimitOption func(*rateLimitConfig)

// WithRateLimitSize sets how many client limiters are kept in memory.
func WithRateLimitSize(n int) RateLimitOption {
	return func(cfg *rateLimitConfig) {
		if n > 0 {
			cfg.size = n
		}
	}
}

// WithRateLimitKey sets how clients are told apart. The default is the
// logged-in user ID, falling back to the client IP.
func WithRateLimitKey(e internal.Extractor) RateLimitOption {
	return func(cfg *rateLimitConfig) { cfg.key = e }
}

// WithRateLimitHook is called for every rejected request, e.g. to count it.
func WithRateLimitHook(fn func(c internal.Context)) RateLimitOption {
	return func(cfg *rateLimitConfig) { cfg.onLimit = fn }
}

// RateLimit allows each client rps requests per second with bursts of up
// to burst. Rejected requests get a 429 with Retry-After. Requests whose
// key cannot be extracted share one limiter.
func RateLimit(rps float64, burst int, opts ...RateLimitOption) internal.Middleware {
	cfg := &rateLimitConfig{
		size: DefaultRateLimitSize,
		key:  internal.NewExtractor(internal.FromUserID(), internal.FromClientIP()),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	limiters, err := lru.New[string, *rate.Limiter](cfg.size)
	if err != nil {
		// Only reachable with a non-positive size, which the option rejects.
		panic(err)
	}

	limiterFor := func(key string) *rate.Limiter {
		if l, ok := limiters.Get(key); ok {
			return l
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		if prev, ok, _ := limiters.PeekOrAdd(key, l); ok {
			return prev
		}
		return l
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			key, _ := cfg.key.Extract(c)

			res := limiterFor(key).Reserve()
			if !res.OK() {
				return limited(c, cfg, 0)
			}
			if d := res.Delay(); d > 0 {
				res.Cancel()
				return limited(c, cfg, int(math.Ceil(d.Seconds())))
			}
			return next(c)
		}
	}
}

func limited(c internal.Context, cfg *rateLimitConfig, retryAfter int) error {
	if cfg.onLimit != nil {
		cfg.onLimit(c)
	}
	if retryAfter > 0 {
		c.SetHeader("Retry-After", strconv.Itoa(retryAfter))
	}
	return internal.NewHTTPError(http.StatusTooManyRequests, MsgRateLimited)
}
