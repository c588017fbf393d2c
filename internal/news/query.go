package news

import (
	"fmt"
	"strings"
)

// requiredKeywords is the fixed finance-relevance group every query demands:
// share price, earnings, investor relations, business results, new store
// openings, same-store sales, monthly sales, revenue.
const requiredKeywords = "(株価 OR 決算 OR IR OR 業績 OR 出店 OR 既存店 OR 月次 OR 売上)"

// queryExclusions filters entertainment-brand collisions at query level.
const queryExclusions = "-ゲーム -スプラ -Splatoon -ギア -eスポーツ -フェス -OCEANS"

// BuildQuery forms the feed search expression: the OR of all quoted alias
// terms, the required-keyword group, the exclusion group, and a recency
// qualifier, in that order. The resulting string is submitted verbatim to
// the feed endpoint.
func BuildQuery(aliases []string, windowDays int) string {
	quoted := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if a != "" {
			quoted = append(quoted, `"`+a+`"`)
		}
	}
	return fmt.Sprintf("(%s) %s %s when:%dd",
		strings.Join(quoted, " OR "), requiredKeywords, queryExclusions, windowDays)
}
