// Package store persists daily bar history on disk so summaries degrade
// gracefully when the upstream price provider is unreachable.
package store

import (
	"context"
	"time"

	"kabudash/internal/domain"
)

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars to storage.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the given ticker within [start, end].
	ReadBars(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error)

	// ListTickers returns all distinct tickers with cached bars.
	ListTickers(ctx context.Context) ([]string, error)
}
