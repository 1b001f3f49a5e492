package rate

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"kuntur-store/internal/logging"
)

const cacheKey = "usdt-bob"

// Cached wraps a Provider with a TTL cache and the fallback policy: a
// fetch failure serves the documented fallback rate instead of an error,
// cached briefly so a flapping source is retried soon.
type Cached struct {
	inner       Provider
	cache       *gocache.Cache
	ttl         time.Duration
	fallbackTTL time.Duration
}

// NewCached creates the caching wrapper
func NewCached(inner Provider, ttl, fallbackTTL time.Duration) *Cached {
	return &Cached{
		inner:       inner,
		cache:       gocache.New(ttl, 10*time.Minute),
		ttl:         ttl,
		fallbackTTL: fallbackTTL,
	}
}

// Current implements Provider. It never returns an error: the order flow
// must not fail because the market source is down.
func (c *Cached) Current(ctx context.Context) (Rate, error) {
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.(Rate), nil
	}

	r, err := c.inner.Current(ctx)
	if err != nil {
		logging.Warn("rate fetch failed, serving fallback", zap.Error(err))
		fb := Fallback()
		c.cache.Set(cacheKey, fb, c.fallbackTTL)
		return fb, nil
	}

	c.cache.Set(cacheKey, r, c.ttl)
	return r, nil
}

// Invalidate drops the cached rate
func (c *Cached) Invalidate() {
	c.cache.Delete(cacheKey)
}
