package strategy

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/similarity"
)

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// Classification is the outcome of Classify.
type Classification struct {
	Strategy int `json:"strategy"`

	// Exact is set when the text matched a side, all sides, or was blank.
	Exact bool `json:"exact"`

	// Scores holds the similarity of the text to each side followed by the
	// concatenation of all sides. It is empty for blank text.
	Scores []float64 `json:"scores,omitempty"`
}

// Classify infers which strategy produced newText from conflict c. Blank
// text is Accept None. A perfect match with a side accepts that side (the
// first such side wins); a perfect match with all sides concatenated is
// Accept All. Otherwise the most similar candidate is chosen, ties keeping
// the earliest.
func Classify(c *conflict.Conflict, newText string) Classification {
	n := c.SideCount()
	if isBlank(newText) {
		return Classification{Strategy: AcceptNone(n), Exact: true}
	}

	edited := []string{newText}
	scores := make([]float64, 0, n+1)
	var all strings.Builder
	for i := 0; i < n; i++ {
		joined := strings.Join(c.SideContent(i), "")
		all.WriteString(joined)
		score := similarity.CompareLineByLine(edited, []string{joined})
		if score == 1.0 {
			return Classification{Strategy: AcceptSide(i), Exact: true, Scores: append(scores, score)}
		}
		scores = append(scores, score)
	}

	score := similarity.CompareLineByLine(edited, []string{all.String()})
	scores = append(scores, score)
	if score == 1.0 {
		return Classification{Strategy: AcceptAll(n), Exact: true, Scores: scores}
	}

	best := 0
	for i, s := range scores {
		if similarity.Round4(s) > similarity.Round4(scores[best]) {
			best = i
		}
	}
	if best < n {
		return Classification{Strategy: AcceptSide(best), Scores: scores}
	}
	return Classification{Strategy: AcceptAll(n), Scores: scores}
}

func isBlank(text string) bool {
	for _, line := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
