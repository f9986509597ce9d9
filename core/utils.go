package core

import (
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// TimestampLayout renders record timestamps for humans, eg. "3/14/2025, 9:05:00 AM".
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ClosestMatch returns the candidate most similar to `word` (ratio >= 0.6), ignoring case.
func ClosestMatch(word string, candidates []string) (string, bool) {
	const cutoff = 0.6

	word = CleanString(word, true)
	if word == "" {
		return "", false
	}
	a := strings.Split(word, "")

	var (
		best      string
		bestRatio float64
	)
	for _, c := range candidates {
		m := difflib.NewMatcher(a, strings.Split(strings.ToLower(c), ""))
		if r := m.Ratio(); r >= cutoff && r > bestRatio {
			best, bestRatio = c, r
		}
	}
	return best, best != ""
}
