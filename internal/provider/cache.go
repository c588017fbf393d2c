package provider

import (
	"context"
	"sync"
	"time"

	"kabudash/internal/domain"
)

// Compile-time interface check.
var _ PriceProvider = (*CachedPrices)(nil)

// CachedPrices memoizes PriceProvider reads with a time-based expiry, so
// repeated dashboard requests for the same ticker do not hammer the
// upstream API. Only successful reads are cached; errors pass through.
type CachedPrices struct {
	inner PriceProvider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

// NewCachedPrices wraps inner with a TTL cache. The clock is injectable
// for tests; nil selects the wall clock.
func NewCachedPrices(inner PriceProvider, ttl time.Duration, now func() time.Time) *CachedPrices {
	if now == nil {
		now = time.Now
	}
	return &CachedPrices{
		inner:   inner,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedPrices) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *CachedPrices) put(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: v, expires: c.now().Add(c.ttl)}
}

// History returns cached bars when fresh, otherwise reads through.
func (c *CachedPrices) History(ctx context.Context, ticker, period, interval string) ([]domain.Bar, error) {
	key := "history:" + ticker + ":" + period + ":" + interval
	if v, ok := c.get(key); ok {
		return v.([]domain.Bar), nil
	}
	bars, err := c.inner.History(ctx, ticker, period, interval)
	if err != nil {
		return nil, err
	}
	c.put(key, bars)
	return bars, nil
}

// Dividends returns the cached series when fresh, otherwise reads through.
func (c *CachedPrices) Dividends(ctx context.Context, ticker string) ([]domain.DividendEvent, error) {
	key := "dividends:" + ticker
	if v, ok := c.get(key); ok {
		return v.([]domain.DividendEvent), nil
	}
	events, err := c.inner.Dividends(ctx, ticker)
	if err != nil {
		return nil, err
	}
	c.put(key, events)
	return events, nil
}

// Info returns the cached record when fresh, otherwise reads through.
func (c *CachedPrices) Info(ctx context.Context, ticker string) (domain.TickerInfo, error) {
	key := "info:" + ticker
	if v, ok := c.get(key); ok {
		return v.(domain.TickerInfo), nil
	}
	info, err := c.inner.Info(ctx, ticker)
	if err != nil {
		return domain.TickerInfo{}, err
	}
	c.put(key, info)
	return info, nil
}
