// Package domain defines the shared data types for the kabudash platform:
// price bars, ticker info, alias records, news items, and dividend summaries.
package domain

import "time"

// Bar is a single OHLCV price bar for a ticker.
type Bar struct {
	Ticker    string    `json:"ticker"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// TickerInfo holds the optional provider-supplied names for a ticker.
// Either name may be empty when the provider does not know the ticker.
type TickerInfo struct {
	Ticker    string
	LongName  string
	ShortName string
}

// AliasRecord is one row of the alias table: a ticker and one alternate
// name or search term for it. A ticker may have many records.
type AliasRecord struct {
	Ticker string `json:"ticker"`
	Alias  string `json:"alias"`
}

// RawNewsItem is a candidate news item as returned by the feed provider,
// before scoring. Published is kept as the raw feed string and treated as
// an opaque sortable token.
type RawNewsItem struct {
	Title     string
	Link      string
	Published string
}

// NewsItem is a scored news item. Score is computed, never provided by
// the feed.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Score     int    `json:"score"`
}

// DividendEvent is a single dividend payment: ex-date and per-share amount.
// Dates are time-zone-naive by convention (see dividend.Estimate).
type DividendEvent struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DividendMethod identifies how a dividend total was estimated.
type DividendMethod string

const (
	// DividendMethodNone means no usable dividend data exists.
	DividendMethodNone DividendMethod = "none"
	// DividendMethodTTM means the total is the sum of payments inside the
	// trailing window.
	DividendMethodTTM DividendMethod = "ttm"
	// DividendMethodFallbackLast2 means no payment fell inside the trailing
	// window and the total is the sum of the two most recent payments.
	DividendMethodFallbackLast2 DividendMethod = "fallback_last2"
)

// DividendSummary is the result of the dividend estimation. Exactly one of
// TTMTotal/FallbackTotal is set when any positive dividend data exists;
// both are nil only when there is none. Yields are set only when a
// positive reference price was available.
type DividendSummary struct {
	TTMTotal         *float64        `json:"ttmTotal,omitempty"`
	TTMYieldPct      *float64        `json:"ttmYieldPct,omitempty"`
	FallbackTotal    *float64        `json:"fallbackTotal,omitempty"`
	FallbackYieldPct *float64        `json:"fallbackYieldPct,omitempty"`
	Method           DividendMethod  `json:"method"`
	Recent           []DividendEvent `json:"recent,omitempty"`
}

// Summary is the full dashboard payload for one ticker.
type Summary struct {
	Ticker      string          `json:"ticker"`
	DisplayName string          `json:"displayName"`
	Aliases     []string        `json:"aliases"`
	Bars        []Bar           `json:"bars"`
	FirstClose  float64         `json:"firstClose"`
	LastClose   float64         `json:"lastClose"`
	ChangePct   float64         `json:"changePct"`
	Dividend    DividendSummary `json:"dividend"`
	News        []NewsItem      `json:"news"`
}
