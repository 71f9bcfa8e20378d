package search

import (
	"strings"
	"unicode/utf8"
)

// Scoring policy. The values are tunable ranking weights, kept as named
// constants so the ordering contract stays visible:
// exact > prefix > word prefix > substring, and group-derived person matches
// count at a discount.
const (
	scoreExact = 1000
	// Prefix matches score scorePrefix plus a bonus of up to
	// prefixLengthBonus when the candidate is close in length to the query.
	scorePrefix       = 800
	prefixLengthBonus = 50
	scoreWordPrefix   = 700
	// Substring matches score scoreContains minus the match position, so
	// earlier occurrences rank higher.
	scoreContains = 400
	// groupBoost discounts a person's score when the match came from one of
	// their groups rather than their own name.
	groupBoost = 0.6
)

// ScoreText rates how well a candidate matches a query. Both must already be
// normalized. The result is 0 when the candidate does not contain the query
// at all, and positive otherwise.
func ScoreText(candidate, query string) int {
	if candidate == "" || query == "" {
		return 0
	}
	if candidate == query {
		return scoreExact
	}
	if strings.HasPrefix(candidate, query) {
		// Length difference in runes, so multi-byte characters such as ß
		// don't deflate the bonus.
		diff := utf8.RuneCountInString(candidate) - utf8.RuneCountInString(query)
		bonus := prefixLengthBonus - diff
		if bonus < 0 {
			bonus = 0
		}
		return scorePrefix + bonus
	}
	for _, word := range strings.Fields(candidate) {
		if strings.HasPrefix(word, query) {
			return scoreWordPrefix
		}
	}
	if idx := strings.Index(candidate, query); idx >= 0 {
		s := scoreContains - idx
		if s < 1 {
			s = 1
		}
		return s
	}
	return 0
}

// boostedScore applies the group discount to a matching group's score.
func boostedScore(groupScore int) int {
	return int(float64(groupScore) * groupBoost)
}
