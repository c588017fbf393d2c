// Package summary assembles the per-ticker dashboard payload: price
// history, alias resolution, ranked news, and the dividend estimate.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kabudash/internal/alias"
	"kabudash/internal/aliasstore"
	"kabudash/internal/dividend"
	"kabudash/internal/domain"
	"kabudash/internal/jptext"
	"kabudash/internal/news"
	"kabudash/internal/provider"
	"kabudash/internal/store"
)

// Defaults mirror the dashboard's sidebar presets.
const (
	DefaultPeriod         = "3mo"
	DefaultInterval       = "1d"
	DefaultNewsWindowDays = 30
	DefaultMinScore       = 2
)

// Options selects the history range and news filtering for one summary.
// Zero values fall back to the dashboard defaults.
type Options struct {
	Period         string
	Interval       string
	NewsWindowDays int
	MaxItems       int
	StrictTitle    *bool // nil means strict
	MinScore       *int  // nil means DefaultMinScore
}

// merge backfills unset fields from the service-level defaults.
func (o Options) merge(d Options) Options {
	if o.Period == "" {
		o.Period = d.Period
	}
	if o.Interval == "" {
		o.Interval = d.Interval
	}
	if o.NewsWindowDays <= 0 {
		o.NewsWindowDays = d.NewsWindowDays
	}
	if o.MaxItems <= 0 {
		o.MaxItems = d.MaxItems
	}
	if o.StrictTitle == nil {
		o.StrictTitle = d.StrictTitle
	}
	if o.MinScore == nil {
		o.MinScore = d.MinScore
	}
	return o
}

func (o Options) withDefaults() Options {
	if o.Period == "" {
		o.Period = DefaultPeriod
	}
	if o.Interval == "" {
		o.Interval = DefaultInterval
	}
	if o.NewsWindowDays <= 0 {
		o.NewsWindowDays = DefaultNewsWindowDays
	}
	if o.MaxItems <= 0 {
		o.MaxItems = news.DefaultMaxItems
	}
	return o
}

// Config wires a Service. Prices and NewsFeed are required; the rest are
// optional and degrade the summary rather than disable it.
type Config struct {
	Prices   provider.PriceProvider
	NewsFeed provider.NewsProvider
	Aliases  *aliasstore.Syncer
	BarCache store.BarStore
	Resolver *alias.Resolver
	Dividend dividend.Options

	// Defaults backfill unset request options before the package-level
	// defaults apply; deployments override the dashboard presets here.
	Defaults Options

	// ExcludeTerms replaces the built-in news hard-filter list when set.
	ExcludeTerms []string

	Logger *slog.Logger
}

// Service builds ticker summaries from the configured collaborators.
type Service struct {
	prices   provider.PriceProvider
	newsFeed provider.NewsProvider
	aliases  *aliasstore.Syncer
	barCache store.BarStore
	resolver *alias.Resolver
	divOpts  dividend.Options
	defaults Options
	exclude  []string
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a summary service.
func NewService(cfg Config) *Service {
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = alias.NewResolver(nil)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		prices:   cfg.Prices,
		newsFeed: cfg.NewsFeed,
		aliases:  cfg.Aliases,
		barCache: cfg.BarCache,
		resolver: resolver,
		divOpts:  cfg.Dividend,
		defaults: cfg.Defaults,
		exclude:  cfg.ExcludeTerms,
		log:      log,
		now:      time.Now,
	}
}

// Summarize assembles the full dashboard payload for one ticker. Upstream
// failures degrade the corresponding section to empty rather than failing
// the whole summary; the only error is an empty ticker.
func (s *Service) Summarize(ctx context.Context, ticker string, opts Options) (domain.Summary, error) {
	ticker = jptext.Normalize(ticker)
	if ticker == "" {
		return domain.Summary{}, fmt.Errorf("empty ticker")
	}
	opts = opts.merge(s.defaults).withDefaults()

	bars := s.fetchBars(ctx, ticker, opts)

	var info *domain.TickerInfo
	if s.prices != nil {
		if ti, err := s.prices.Info(ctx, ticker); err != nil {
			s.log.Warn("ticker info unavailable", "ticker", ticker, "error", err)
		} else {
			info = &ti
		}
	}

	var snapshot []domain.AliasRecord
	if s.aliases != nil {
		snapshot, _ = s.aliases.Load(ctx)
	}

	aliases := s.resolver.Resolve(ticker, snapshot, info)
	displayName := s.resolver.DisplayName(ticker, snapshot, info)

	out := domain.Summary{
		Ticker:      ticker,
		DisplayName: displayName,
		Aliases:     aliases,
		Bars:        bars,
		News:        s.fetchNews(ctx, ticker, aliases, opts),
	}

	if len(bars) > 0 {
		first := bars[0].Close
		last := bars[len(bars)-1].Close
		out.FirstClose = first
		out.LastClose = last
		if first > 0 {
			out.ChangePct = (last/first - 1) * 100
		}
	}

	out.Dividend = s.estimateDividend(ctx, ticker, out.LastClose)
	return out, nil
}

// fetchBars gets price history from the provider, falling back to the
// on-disk cache when the provider fails, and refreshing the cache on
// success.
func (s *Service) fetchBars(ctx context.Context, ticker string, opts Options) []domain.Bar {
	var bars []domain.Bar
	if s.prices != nil {
		var err error
		bars, err = s.prices.History(ctx, ticker, opts.Period, opts.Interval)
		if err != nil {
			s.log.Warn("price history unavailable", "ticker", ticker, "error", err)
		}
	}

	if len(bars) == 0 && s.barCache != nil {
		end := s.now().UTC()
		start := provider.PeriodStart(opts.Period, end)
		cached, err := s.barCache.ReadBars(ctx, ticker, start, end)
		if err != nil {
			s.log.Warn("bar cache read failed", "ticker", ticker, "error", err)
		} else if len(cached) > 0 {
			s.log.Info("serving bars from cache", "ticker", ticker, "bars", len(cached))
			bars = cached
		}
	} else if len(bars) > 0 && s.barCache != nil {
		if err := s.barCache.WriteBars(ctx, bars); err != nil {
			s.log.Warn("bar cache write failed", "ticker", ticker, "error", err)
		}
	}
	return bars
}

func (s *Service) fetchNews(ctx context.Context, ticker string, aliases []string, opts Options) []domain.NewsItem {
	if s.newsFeed == nil || len(aliases) == 0 {
		return nil
	}

	query := news.BuildQuery(aliases, opts.NewsWindowDays)
	raw, err := s.newsFeed.Search(ctx, query, 3*opts.MaxItems)
	if err != nil {
		s.log.Warn("news search failed", "ticker", ticker, "error", err)
		return nil
	}

	strict := true
	if opts.StrictTitle != nil {
		strict = *opts.StrictTitle
	}
	minScore := DefaultMinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	return news.Rank(ticker, aliases, raw, news.RankOptions{
		MaxItems:     opts.MaxItems,
		StrictTitle:  strict,
		MinScore:     minScore,
		ExcludeTerms: s.exclude,
	})
}

func (s *Service) estimateDividend(ctx context.Context, ticker string, lastClose float64) domain.DividendSummary {
	var events []domain.DividendEvent
	if s.prices != nil {
		var err error
		events, err = s.prices.Dividends(ctx, ticker)
		if err != nil {
			s.log.Warn("dividend history unavailable", "ticker", ticker, "error", err)
			events = nil
		}
	}
	opts := s.divOpts
	if opts.Now == nil {
		opts.Now = s.now
	}
	return dividend.Estimate(events, lastClose, opts)
}
