// Package aliasstore persists the alias table (ticker → display names and
// search terms) locally in SQLite and syncs it wholesale with a remote
// spreadsheet exported as CSV over HTTP. The table is only ever replaced as
// a whole, never edited row by row.
package aliasstore

import (
	"context"

	"kabudash/internal/domain"
	"kabudash/internal/jptext"
)

// Store is the local alias-table persistence boundary.
type Store interface {
	// Snapshot returns the full current table.
	Snapshot(ctx context.Context) ([]domain.AliasRecord, error)

	// Replace swaps the entire table for the given rows.
	Replace(ctx context.Context, records []domain.AliasRecord) error
}

// Clean normalizes records, drops rows with an empty ticker, and removes
// exact duplicate (ticker, alias) pairs while preserving order.
func Clean(records []domain.AliasRecord) []domain.AliasRecord {
	seen := make(map[domain.AliasRecord]bool, len(records))
	out := make([]domain.AliasRecord, 0, len(records))
	for _, r := range records {
		r.Ticker = jptext.Normalize(r.Ticker)
		r.Alias = jptext.Normalize(r.Alias)
		if r.Ticker == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
