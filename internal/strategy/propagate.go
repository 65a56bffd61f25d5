package strategy

import (
	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/graph"
)

// Sections resolves graph node ids to conflict sections.
type Sections interface {
	Section(id string) (*conflict.ConflictSection, bool)
}

// SectionMap is a Sections backed by a map.
type SectionMap map[string]*conflict.ConflictSection

// Section implements Sections.
func (m SectionMap) Section(id string) (*conflict.ConflictSection, bool) {
	cs, ok := m[id]
	return cs, ok
}

// Signal is the vector a section spreads to its neighbors: all mass on its
// strategy once resolved, its own belief otherwise.
func Signal(cs *conflict.ConflictSection) []float64 {
	if cs.Resolved {
		return OneHot(len(cs.Probabilities), cs.Strategy)
	}
	return append([]float64(nil), cs.Probabilities...)
}

// Propagate spreads signal from origin breadth-first. Every other reachable
// node is updated exactly once, with the weight w of the edge it was first
// reached by: v[k] += signal[k]*w, then v is renormalized to sum to 1
// unless the sum is 0. It returns the ids updated, in visit order.
func Propagate(g *graph.Graph, sections Sections, origin string, signal []float64) []string {
	return traverse(g, sections, origin, func(v []float64, w float64) {
		forward(v, signal, w)
	})
}

// Unpropagate applies the reverse update along the same traversal:
// v[k] = v[k]*(1+w) - signal[k]*w, without renormalization. It is skipped
// for a node when the weighted signal sums to 0. Unpropagate is not an
// exact inverse of Propagate.
func Unpropagate(g *graph.Graph, sections Sections, origin string, signal []float64) []string {
	return traverse(g, sections, origin, func(v []float64, w float64) {
		reverse(v, signal, w)
	})
}

func traverse(g *graph.Graph, sections Sections, origin string, update func([]float64, float64)) []string {
	if !g.HasNode(origin) {
		return nil
	}
	visited := map[string]bool{origin: true}
	queue := []string{origin}
	var updated []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, nb := range g.Neighbors(node) {
			if visited[nb.ID] {
				continue
			}
			visited[nb.ID] = true
			queue = append(queue, nb.ID)
			if cs, ok := sections.Section(nb.ID); ok {
				update(cs.Probabilities, nb.Weight)
				updated = append(updated, nb.ID)
			}
		}
	}
	return updated
}

// forward adds the weighted signal and renormalizes. Vectors of different
// lengths are combined over their common prefix.
func forward(v, signal []float64, w float64) {
	n := min(len(v), len(signal))
	for k := 0; k < n; k++ {
		v[k] += signal[k] * w
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum == 0 {
		return
	}
	for k := range v {
		v[k] /= sum
	}
}

// reverse undoes the weighted addition without renormalizing.
func reverse(v, signal []float64, w float64) {
	n := min(len(v), len(signal))
	var sum float64
	for k := 0; k < n; k++ {
		sum += signal[k] * w
	}
	if sum == 0 {
		return
	}
	for k := 0; k < n; k++ {
		v[k] = v[k]*(1+w) - signal[k]*w
	}
}

// Resolve classifies text as the resolution of cs, seeds cs with all mass on
// the inferred strategy and spreads that signal to cs's neighbors. It
// returns the classification and the ids Propagate updated.
func Resolve(g *graph.Graph, sections Sections, cs *conflict.ConflictSection, text string) (Classification, []string) {
	cl := Classify(cs.Conflict, text)
	cs.MarkResolved(cl.Strategy, text)
	return cl, Propagate(g, sections, cs.Index, Signal(cs))
}

// Undo withdraws a previous resolution of cs: the signal is reversed across
// the graph while cs still holds it, then cs returns to Unknown. Undo on an
// unresolved section does nothing. It returns the ids Unpropagate updated.
func Undo(g *graph.Graph, sections Sections, cs *conflict.ConflictSection) []string {
	if !cs.Resolved {
		return nil
	}
	updated := Unpropagate(g, sections, cs.Index, Signal(cs))
	cs.Unresolve()
	return updated
}
