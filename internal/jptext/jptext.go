// Package jptext provides text normalization and Japanese-script detection
// for ticker aliases and news titles.
package jptext

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies Unicode NFKC compatibility normalization and trims
// surrounding whitespace. Full-width Latin letters and digits collapse to
// their ASCII forms, which keeps alias matching stable across input sources.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// HasJapanese reports whether s contains at least one Japanese-script rune.
// Detection is by code point range so it survives mojibake in surrounding
// text: hiragana, katakana, CJK unified ideographs, half-width katakana,
// plus the middle dot and prolonged sound marks used in brand names.
// Full-width Latin letters are not Japanese script.
func HasJapanese(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x3040 && r <= 0x309F: // hiragana
			return true
		case r >= 0x30A0 && r <= 0x30FF: // katakana (includes ・ and ー)
			return true
		case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
			return true
		case r >= 0xFF66 && r <= 0xFF9D: // half-width katakana
			return true
		case r == 0xFF70: // half-width prolonged sound mark
			return true
		}
	}
	return false
}
