package news

import (
	"sort"
	"strings"

	"kabudash/internal/domain"
)

// DefaultExcludeTerms returns the built-in hard-filter list of
// entertainment-franchise terms that collide with brand names. Applied
// after the query-level exclusions as defense in depth against feed
// query misses.
func DefaultExcludeTerms() []string {
	return []string{"ゲーム", "スプラ", "splatoon", "ギア", "フェス", "OCEANS", "オーシャンズ"}
}

// RankOptions controls filtering and truncation of the ranked list.
type RankOptions struct {
	MaxItems     int  // result cap; 0 means DefaultMaxItems
	StrictTitle  bool // when true, drop items scoring below MinScore
	MinScore     int
	ExcludeTerms []string // nil means DefaultExcludeTerms
}

// DefaultMaxItems is the ranked-list cap when the caller does not set one.
const DefaultMaxItems = 8

// Rank scores, filters, and orders raw feed items for a ticker. At most
// 3×MaxItems raw items are considered; items with empty titles or titles
// containing an exclusion term are dropped; survivors are sorted
// descending by (score, published) with published compared as an opaque
// string, then truncated to MaxItems. Rank performs no I/O and does not
// mutate its inputs.
func Rank(ticker string, aliases []string, raw []domain.RawNewsItem, opts RankOptions) []domain.NewsItem {
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	exclude := opts.ExcludeTerms
	if exclude == nil {
		exclude = DefaultExcludeTerms()
	}

	if limit := 3 * maxItems; len(raw) > limit {
		raw = raw[:limit]
	}

	pool := make([]domain.NewsItem, 0, len(raw))
	for _, it := range raw {
		if it.Title == "" {
			continue
		}
		low := strings.ToLower(it.Title)
		if containsAny(low, exclude) {
			continue
		}
		score := ScoreTitle(it.Title, aliases, ticker)
		if opts.StrictTitle && score < opts.MinScore {
			continue
		}
		pool = append(pool, domain.NewsItem{
			Title:     it.Title,
			Link:      it.Link,
			Published: it.Published,
			Score:     score,
		})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		return pool[i].Published > pool[j].Published
	})

	if len(pool) > maxItems {
		pool = pool[:maxItems]
	}
	return pool
}

func containsAny(lowTitle string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(lowTitle, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
