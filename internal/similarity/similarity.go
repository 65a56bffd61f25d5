// Package similarity scores how related two conflicts are: identifier overlap
// between corresponding sides and line-wise textual similarity.
package similarity

import (
	"math"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// dice is the bigram Sørensen–Dice metric used for single-string comparison.
var dice = metrics.NewSorensenDice()

// Round4 rounds x to four decimal places.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// Jaccard returns |A∩B| / |A∪B| over the distinct strings of a and b, or 0
// when both are empty.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	inter := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// CompareStrings returns the bigram similarity of a and b in [0,1], ignoring
// whitespace. Equal strings score 1; strings shorter than two characters
// score 0 otherwise.
func CompareStrings(a, b string) float64 {
	a = stripSpace(a)
	b = stripSpace(b)
	if a == b {
		return 1
	}
	if len([]rune(a)) < 2 || len([]rune(b)) < 2 {
		return 0
	}
	return strutil.Similarity(a, b, dice)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// CompareLineByLine sums CompareStrings over trimmed corresponding lines and
// divides by the longer length, so unmatched trailing lines dilute the score.
// Either sequence being empty scores 0. The result is rounded to four places.
func CompareLineByLine(lines1, lines2 []string) float64 {
	n := min(len(lines1), len(lines2))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += CompareStrings(strings.TrimSpace(lines1[i]), strings.TrimSpace(lines2[i]))
	}
	return Round4(sum / float64(max(len(lines1), len(lines2))))
}

// Dependency averages the Jaccard index of the identifier sets of
// corresponding sides, over the sides both conflicts have.
func Dependency(c1, c2 *conflict.Conflict) float64 {
	k := min(c1.SideCount(), c2.SideCount())
	if k == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += Jaccard(c1.Sides[i].IdentifierTexts(), c2.Sides[i].IdentifierTexts())
	}
	return Round4(sum / float64(k))
}

// Similarity averages CompareLineByLine of corresponding sides' content.
func Similarity(c1, c2 *conflict.Conflict) float64 {
	k := min(c1.SideCount(), c2.SideCount())
	if k == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += CompareLineByLine(c1.SideContent(i), c2.SideContent(i))
	}
	return Round4(sum / float64(k))
}
