package news

import (
	"strings"
	"unicode/utf8"

	"kabudash/internal/alias"
	"kabudash/internal/jptext"
)

// ScoreTitle computes the relevance score of a news title for a ticker:
// +2 for every alias term found in the title, +2 when the ticker core
// appears bracketed, +1 when the core appears anywhere. The core bonuses
// are independent and may both fire. An empty alias set with no core match
// scores 0.
func ScoreTitle(title string, aliases []string, ticker string) int {
	t := strings.ToLower(jptext.Normalize(title))
	score := 0

	for _, a := range aliases {
		an := strings.ToLower(jptext.Normalize(a))
		if an != "" && strings.Contains(t, an) {
			score += 2
		}
	}

	core := alias.Core(jptext.Normalize(ticker))
	if core != "" {
		if coreBracketed(t, core) {
			score += 2
		}
		if strings.Contains(t, core) {
			score++
		}
	}
	return score
}

// coreBracketed reports whether core occurs in t immediately surrounded by
// an opening and a closing bracket of the (), （）, 【】 families. The
// opener and closer need not be the same family.
func coreBracketed(t, core string) bool {
	for i := 0; i <= len(t)-len(core); {
		j := strings.Index(t[i:], core)
		if j < 0 {
			return false
		}
		j += i
		before, _ := utf8.DecodeLastRuneInString(t[:j])
		after, _ := utf8.DecodeRuneInString(t[j+len(core):])
		if isBracketOpen(before) && isBracketClose(after) {
			return true
		}
		i = j + len(core)
	}
	return false
}

func isBracketOpen(r rune) bool {
	return r == '(' || r == '（' || r == '【'
}

func isBracketClose(r rune) bool {
	return r == ')' || r == '）' || r == '】'
}
