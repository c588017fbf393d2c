package httpapi

import (
	"kabudash/internal/domain"
)

// NewsResponse holds the ranked news for a ticker.
type NewsResponse struct {
	Ticker string            `json:"ticker"`
	Items  []domain.NewsItem `json:"items"`
}

// DividendsResponse holds the dividend estimate for a ticker.
type DividendsResponse struct {
	Ticker   string                 `json:"ticker"`
	Dividend domain.DividendSummary `json:"dividend"`
}

// AliasesResponse is the alias table with its origin.
type AliasesResponse struct {
	Source  string               `json:"source"`
	Records []domain.AliasRecord `json:"records"`
}

// ReplaceAliasesResponse reports the outcome of a wholesale replace.
type ReplaceAliasesResponse struct {
	Rows   int  `json:"rows"`
	Pushed bool `json:"pushed"`
}

// SyncResponse reports a completed pull or push.
type SyncResponse struct {
	Status string `json:"status"`
}

// ReloadResponse reports the table origin and size after a reload.
type ReloadResponse struct {
	Source string `json:"source"`
	Rows   int    `json:"rows"`
}
