package kabudash

import "time"

// The payload types mirror the server's JSON responses field for field, so
// importing this package is enough to consume the API from another module.

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

// AliasRecord is one row of the alias table: a ticker and one alternate
// name or search term for it.
type AliasRecord struct {
	Ticker string `json:"ticker"`
	Alias  string `json:"alias"`
}

// NewsItem is a scored, ranked news item.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Score     int    `json:"score"`
}

// DividendEvent is a single dividend payment: ex-date and per-share amount.
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
	// DividendMethodFallbackLast2 means the total is the sum of the two
	// most recent payments.
	DividendMethodFallbackLast2 DividendMethod = "fallback_last2"
)

// DividendSummary is the dividend estimate for a ticker. Yields are set
// only when the server had a positive reference price.
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
