package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"kabudash/internal/domain"
	"kabudash/internal/util"
)

// Compile-time interface check.
var _ PriceProvider = (*YahooProvider)(nil)

// DefaultYahooBaseURL is the public Yahoo Finance chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// dividendRange is how far back the dividend series is requested; five
// years covers the trailing window plus the last-two-payments fallback
// for annual payers.
const dividendRange = "5y"

// YahooProvider serves Tokyo-listed (and most other) tickers from the
// Yahoo Finance v8 chart API over plain HTTP.
type YahooProvider struct {
	BaseURL    string // defaults to DefaultYahooBaseURL
	httpClient *http.Client
}

// NewYahooProvider creates a provider for the given API host. An empty
// baseURL selects the public endpoint.
func NewYahooProvider(baseURL string) *YahooProvider {
	return &YahooProvider{
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ---------------------------------------------------------------------------
// Chart API response shapes
// ---------------------------------------------------------------------------

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		LongName           string  `json:"longName"`
		ShortName          string  `json:"shortName"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Open   []float64 `json:"open"`
			High   []float64 `json:"high"`
			Low    []float64 `json:"low"`
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// fetchChart performs one chart API call with retries.
func (p *YahooProvider) fetchChart(ctx context.Context, ticker, rng, interval string, withDividends bool) (*chartResult, error) {
	base := p.BaseURL
	if base == "" {
		base = DefaultYahooBaseURL
	}

	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", interval)
	if withDividends {
		params.Set("events", "div")
	}
	u := base + "/v8/finance/chart/" + url.PathEscape(ticker) + "?" + params.Encode()

	var body []byte
	err := util.Retry(ctx, 3, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("chart api status %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching chart for %s: %w", ticker, err)
	}

	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("decoding chart for %s: %w", ticker, err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error for %s: %s", ticker, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart api returned no result for %s", ticker)
	}
	return &cr.Chart.Result[0], nil
}

// History returns OHLCV bars for the given period ("1mo", "3mo", "6mo",
// "1y") and interval ("1d", "1wk", "1mo").
func (p *YahooProvider) History(ctx context.Context, ticker, period, interval string) ([]domain.Bar, error) {
	res, err := p.fetchChart(ctx, ticker, period, interval, false)
	if err != nil {
		return nil, err
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, nil
	}
	q := res.Indicators.Quote[0]

	bars := make([]domain.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(q.Close) || q.Close[i] == 0 {
			continue
		}
		bar := domain.Bar{
			Ticker:    ticker,
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     q.Close[i],
		}
		if i < len(q.Open) {
			bar.Open = q.Open[i]
		}
		if i < len(q.High) {
			bar.High = q.High[i]
		}
		if i < len(q.Low) {
			bar.Low = q.Low[i]
		}
		if i < len(q.Volume) {
			bar.Volume = q.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Dividends returns the dividend-event series for the past five years,
// sorted ascending by date. Amounts are passed through unfiltered.
func (p *YahooProvider) Dividends(ctx context.Context, ticker string) ([]domain.DividendEvent, error) {
	res, err := p.fetchChart(ctx, ticker, dividendRange, "1d", true)
	if err != nil {
		return nil, err
	}

	events := make([]domain.DividendEvent, 0, len(res.Events.Dividends))
	for _, d := range res.Events.Dividends {
		events = append(events, domain.DividendEvent{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// Info returns the long/short names from the chart metadata.
func (p *YahooProvider) Info(ctx context.Context, ticker string) (domain.TickerInfo, error) {
	res, err := p.fetchChart(ctx, ticker, "1mo", "1d", false)
	if err != nil {
		return domain.TickerInfo{}, err
	}
	return domain.TickerInfo{
		Ticker:    ticker,
		LongName:  res.Meta.LongName,
		ShortName: res.Meta.ShortName,
	}, nil
}
