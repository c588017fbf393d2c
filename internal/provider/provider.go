// Package provider defines the data-provider boundary of the dashboard and
// its implementations: price history, dividend events, and ticker info come
// from an external market-data source; candidate news items come from a
// feed search. The core packages (alias, news, dividend) never call a
// provider — callers fetch here, convert failures to empty inputs, and pass
// plain values down.
package provider

import (
	"context"

	"kabudash/internal/domain"
)

// PriceProvider returns price history, dividend events, and the info record
// for a ticker. Implementations return errors; callers are expected to
// degrade them to absence-of-data before the core sees them.
type PriceProvider interface {
	// History returns ordered OHLCV bars for the period/interval selection
	// (e.g. "3mo"/"1d").
	History(ctx context.Context, ticker, period, interval string) ([]domain.Bar, error)

	// Dividends returns the raw dividend-event series, typically several
	// years deep. Entries may be non-positive; cleaning is the consumer's
	// concern.
	Dividends(ctx context.Context, ticker string) ([]domain.DividendEvent, error)

	// Info returns the provider's name record for the ticker, best effort.
	Info(ctx context.Context, ticker string) (domain.TickerInfo, error)
}

// NewsProvider searches a feed and returns raw candidate items in feed order.
type NewsProvider interface {
	Search(ctx context.Context, query string, limit int) ([]domain.RawNewsItem, error)
}
