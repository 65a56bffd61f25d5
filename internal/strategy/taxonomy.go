// Package strategy classifies how a conflict was resolved and spreads that
// belief to related conflicts.
//
// The taxonomy for a conflict with n sides has n+3 entries:
//
//	0        Unknown
//	1..n     Accept Side i
//	n+1      Accept None
//	n+2      Accept All
package strategy

import (
	"fmt"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// Naming selects how side strategies are displayed.
type Naming string

const (
	// NamingJJ displays "Accept Side i".
	NamingJJ Naming = "jj-native"
	// NamingGit displays "Accept Current"/"Accept Incoming" for 2-sided
	// conflicts and falls back to NamingJJ otherwise.
	NamingGit Naming = "git-friendly"
)

// Valid reports whether n is a known naming convention.
func (n Naming) Valid() bool {
	return n == NamingJJ || n == NamingGit
}

// Unknown is the index of the "no signal yet" strategy.
const Unknown = 0

// Strategy is one labeled entry of the taxonomy.
type Strategy struct {
	Index   int    `json:"index"`
	Display string `json:"display"`
}

// Count returns the taxonomy size for sideCount sides.
func Count(sideCount int) int {
	return conflict.StrategyCount(sideCount)
}

// AcceptSide returns the index of "accept side i" for a zero-based side.
func AcceptSide(side int) int {
	return side + 1
}

// AcceptNone returns the Accept None index.
func AcceptNone(sideCount int) int {
	return sideCount + 1
}

// AcceptAll returns the Accept All index.
func AcceptAll(sideCount int) int {
	return sideCount + 2
}

// Side returns the zero-based side an index accepts, or ok=false when the
// index is not a side strategy.
func Side(index, sideCount int) (side int, ok bool) {
	if index >= 1 && index <= sideCount {
		return index - 1, true
	}
	return 0, false
}

// Build returns the full taxonomy in index order.
func Build(sideCount int, naming Naming) []Strategy {
	out := make([]Strategy, 0, Count(sideCount))
	for i := 0; i < Count(sideCount); i++ {
		out = append(out, Lookup(i, sideCount, naming))
	}
	return out
}

// Lookup returns the strategy at index.
func Lookup(index, sideCount int, naming Naming) Strategy {
	s := Strategy{Index: index}
	switch {
	case index == Unknown:
		s.Display = "Unknown"
	case index == AcceptNone(sideCount):
		s.Display = "Accept None"
	case index == AcceptAll(sideCount):
		s.Display = "Accept All"
	case index >= 1 && index <= sideCount:
		s.Display = sideDisplay(index-1, sideCount, naming)
	default:
		s.Display = fmt.Sprintf("Invalid(%d)", index)
	}
	return s
}

func sideDisplay(side, sideCount int, naming Naming) string {
	if naming == NamingGit && sideCount == 2 {
		if side == 0 {
			return "Accept Current"
		}
		return "Accept Incoming"
	}
	return fmt.Sprintf("Accept Side %d", side+1)
}

// Recommend returns the index with the highest probability; ties keep the
// earliest index. An empty vector recommends Unknown.
func Recommend(probs []float64) int {
	best := Unknown
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}

// OneHot returns a vector of size n with all mass on index.
func OneHot(n, index int) []float64 {
	v := make([]float64, n)
	if index >= 0 && index < n {
		v[index] = 1
	}
	return v
}
