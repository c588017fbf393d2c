package provider

import (
	"context"
	"fmt"
	"time"

	alpacaapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"kabudash/internal/domain"
)

// Compile-time interface check.
var _ PriceProvider = (*AlpacaProvider)(nil)

// AlpacaProvider serves US-listed tickers from the Alpaca market-data API.
// Dividend events are not exposed by this API, so Dividends always returns
// an empty series and the estimator degrades to method "none".
type AlpacaProvider struct {
	md  *marketdata.Client
	api *alpacaapi.Client
}

// NewAlpacaProvider creates a provider using the given Alpaca credentials.
func NewAlpacaProvider(apiKey, apiSecret, dataURL, baseURL string) *AlpacaProvider {
	mdOpts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		mdOpts.BaseURL = dataURL
	}
	apiOpts := alpacaapi.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if baseURL != "" {
		apiOpts.BaseURL = baseURL
	}
	return &AlpacaProvider{
		md:  marketdata.NewClient(mdOpts),
		api: alpacaapi.NewClient(apiOpts),
	}
}

// PeriodStart converts a dashboard period selection into a start time.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "1mo":
		return now.AddDate(0, -1, 0)
	case "3mo":
		return now.AddDate(0, -3, 0)
	case "6mo":
		return now.AddDate(0, -6, 0)
	case "1y":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -3, 0)
	}
}

// intervalTimeFrame converts a dashboard interval selection into an Alpaca
// bar timeframe.
func intervalTimeFrame(interval string) marketdata.TimeFrame {
	switch interval {
	case "1wk":
		return marketdata.NewTimeFrame(1, marketdata.Week)
	case "1mo":
		return marketdata.NewTimeFrame(1, marketdata.Month)
	default:
		return marketdata.OneDay
	}
}

// History returns OHLCV bars from the Alpaca market-data API.
func (p *AlpacaProvider) History(ctx context.Context, ticker, period, interval string) ([]domain.Bar, error) {
	now := time.Now().UTC()
	mdBars, err := p.md.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame: intervalTimeFrame(interval),
		Start:     PeriodStart(period, now),
		End:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", ticker, err)
	}

	bars := make([]domain.Bar, 0, len(mdBars))
	for _, b := range mdBars {
		bars = append(bars, domain.Bar{
			Ticker:    ticker,
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    int64(b.Volume),
		})
	}
	return bars, nil
}

// Dividends is not available from the market-data API.
func (p *AlpacaProvider) Dividends(_ context.Context, _ string) ([]domain.DividendEvent, error) {
	return nil, nil
}

// Info returns the asset name as the long name.
func (p *AlpacaProvider) Info(_ context.Context, ticker string) (domain.TickerInfo, error) {
	asset, err := p.api.GetAsset(ticker)
	if err != nil {
		return domain.TickerInfo{}, fmt.Errorf("GetAsset %s: %w", ticker, err)
	}
	return domain.TickerInfo{
		Ticker:   ticker,
		LongName: asset.Name,
	}, nil
}
