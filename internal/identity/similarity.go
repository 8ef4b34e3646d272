package identity

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// TokenSetRatio scores two strings on a 0-100 scale by comparing their sets of
// whitespace-separated tokens. Shared tokens are factored out and the remainders are
// compared with an insertion/deletion edit ratio, so word order and repeated words do
// not matter. One set being a subset of the other (with a non-empty overlap) scores 100.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	if len(shared) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	diffA := strings.Join(onlyA, " ")
	diffB := strings.Join(onlyB, " ")
	best := indelRatio(diffA, diffB)

	sectLen := utf8.RuneCountInString(strings.Join(shared, " "))
	if sectLen == 0 {
		return best
	}

	// "shared + rest" against "shared" differs only by the rest and one separator.
	lenA := utf8.RuneCountInString(diffA)
	lenB := utf8.RuneCountInString(diffB)
	withA := normalizedSimilarity(1+lenA, sectLen+sectLen+1+lenA)
	withB := normalizedSimilarity(1+lenB, sectLen+sectLen+1+lenB)

	return max(best, withA, withB)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// indelRatio is 100 * (1 - indelDistance / (len(a)+len(b))), counted in runes.
func indelRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := total - 2*longestCommonSubsequence(ra, rb)
	return normalizedSimilarity(dist, total)
}

func normalizedSimilarity(dist, total int) float64 {
	if total == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(total))
}

func longestCommonSubsequence(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
