// Package alias derives the search-term set and the preferred display name
// for a ticker from the alias table, provider info, and a manual override
// table. All functions are pure: they never fail and never touch I/O.
package alias

import (
	"strings"
	"unicode/utf8"

	"kabudash/internal/domain"
	"kabudash/internal/jptext"
)

// marketSuffix is the exchange qualifier stripped to obtain the ticker core
// (e.g. "5020.T" → "5020").
const marketSuffix = ".T"

// DefaultOverrides returns the built-in manual override table for tickers
// whose public long name is ambiguous or non-Japanese-dominant for search
// purposes. The table is injectable via NewResolver so tests can supply
// synthetic entries.
func DefaultOverrides() map[string][]string {
	return map[string][]string{
		"7611.T": {"ハイデイ日高", "日高屋"},
		"5020.T": {"ＥＮＥＯＳ", "ENEOS"},
	}
}

// Resolver computes alias sets and display names. The zero value works and
// uses no overrides.
type Resolver struct {
	overrides map[string][]string
}

// NewResolver creates a Resolver with the given manual override table,
// keyed by exact ticker.
func NewResolver(overrides map[string][]string) *Resolver {
	return &Resolver{overrides: overrides}
}

// Core returns the ticker with the market suffix stripped.
func Core(ticker string) string {
	return strings.TrimSuffix(ticker, marketSuffix)
}

// Resolve returns the full set of search terms for a ticker: the ticker
// itself, its core, the provider-supplied names, every matching alias-table
// row, and any manual overrides. Members are NFKC-normalized, non-empty,
// and deduplicated; order follows first insertion and is not part of the
// contract.
func (r *Resolver) Resolve(ticker string, snapshot []domain.AliasRecord, info *domain.TickerInfo) []string {
	ticker = jptext.Normalize(ticker)

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = jptext.Normalize(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	add(ticker)
	add(Core(ticker))
	if info != nil {
		add(info.LongName)
		add(info.ShortName)
	}
	for _, rec := range snapshot {
		if jptext.Normalize(rec.Ticker) == ticker {
			add(rec.Alias)
		}
	}
	for _, v := range r.overrides[ticker] {
		add(v)
	}
	return out
}

// DisplayName picks the preferred human-readable label for a ticker:
// the longest Japanese-script alias from the table, else the provider
// long name, else the short name, else the normalized ticker itself.
// When several Japanese aliases share the maximum length, which one wins
// is unspecified.
func (r *Resolver) DisplayName(ticker string, snapshot []domain.AliasRecord, info *domain.TickerInfo) string {
	ticker = jptext.Normalize(ticker)

	best := ""
	for _, rec := range snapshot {
		if jptext.Normalize(rec.Ticker) != ticker {
			continue
		}
		a := jptext.Normalize(rec.Alias)
		if jptext.HasJapanese(a) && utf8.RuneCountInString(a) > utf8.RuneCountInString(best) {
			best = a
		}
	}
	if best != "" {
		return best
	}
	if info != nil {
		if info.LongName != "" {
			return info.LongName
		}
		if info.ShortName != "" {
			return info.ShortName
		}
	}
	return ticker
}
