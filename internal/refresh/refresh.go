// Package refresh re-fetches price history for known tickers in the
// background so the bar cache stays warm for provider outages.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"kabudash/internal/aliasstore"
	"kabudash/internal/provider"
	"kabudash/internal/store"
	"kabudash/internal/util"
)

// Refresher walks the cached and aliased tickers and rewrites their bar
// history into the cache.
type Refresher struct {
	prices     provider.PriceProvider
	cache      store.BarStore
	aliases    *aliasstore.Syncer
	period     string
	interval   string
	maxWorkers int
	limiter    *util.RateLimiter
	log        *slog.Logger
}

// Config wires a Refresher. Prices and Cache are required.
type Config struct {
	Prices  provider.PriceProvider
	Cache   store.BarStore
	Aliases *aliasstore.Syncer // optional extra ticker source

	Period          string // history period per ticker, defaults to "1y"
	Interval        string // bar interval, defaults to "1d"
	MaxWorkers      int    // concurrent fetches, defaults to 4
	RateLimitPerMin int    // provider request throttle, 0 disables
	Logger          *slog.Logger
}

// New creates a Refresher.
func New(cfg Config) *Refresher {
	period := cfg.Period
	if period == "" {
		period = "1y"
	}
	interval := cfg.Interval
	if interval == "" {
		interval = "1d"
	}
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = 4
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var limiter *util.RateLimiter
	if cfg.RateLimitPerMin > 0 {
		limiter = util.NewRateLimiter(cfg.RateLimitPerMin)
	}

	return &Refresher{
		prices:     cfg.Prices,
		cache:      cfg.Cache,
		aliases:    cfg.Aliases,
		period:     period,
		interval:   interval,
		maxWorkers: workers,
		limiter:    limiter,
		log:        log.With("job", "bar-refresh"),
	}
}

// Tickers returns the deduplicated refresh universe: every ticker with
// cached bars plus every ticker in the alias table.
func (r *Refresher) Tickers(ctx context.Context) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}

	cached, err := r.cache.ListTickers(ctx)
	if err != nil {
		r.log.Warn("listing cached tickers", "error", err)
	}
	for _, t := range cached {
		add(t)
	}

	if r.aliases != nil {
		records, _ := r.aliases.Load(ctx)
		for _, rec := range records {
			add(rec.Ticker)
		}
	}
	return out
}

// Run refreshes every known ticker once. Per-ticker failures are logged
// and skipped; Run fails only on context cancellation.
func (r *Refresher) Run(ctx context.Context) error {
	tickers := r.Tickers(ctx)
	if len(tickers) == 0 {
		r.log.Info("no tickers to refresh")
		return nil
	}

	runStart := time.Now()
	r.log.Info("starting refresh", "tickers", len(tickers))

	tickerCh := make(chan string, len(tickers))
	for _, t := range tickers {
		tickerCh <- t
	}
	close(tickerCh)

	var (
		wg     sync.WaitGroup
		ok     atomic.Int64
		failed atomic.Int64
	)

	workers := min(r.maxWorkers, len(tickers))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range tickerCh {
				if ctx.Err() != nil {
					return
				}
				if err := r.refreshOne(ctx, ticker); err != nil {
					r.log.Warn("refresh failed", "ticker", ticker, "error", err)
					failed.Add(1)
					continue
				}
				ok.Add(1)
			}
		}()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.log.Info("refresh complete",
		"ok", ok.Load(),
		"failed", failed.Load(),
		"elapsed", time.Since(runStart).Round(time.Second),
	)
	return nil
}

func (r *Refresher) refreshOne(ctx context.Context, ticker string) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	bars, err := r.prices.History(ctx, ticker, r.period, r.interval)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return nil
	}
	return r.cache.WriteBars(ctx, bars)
}
