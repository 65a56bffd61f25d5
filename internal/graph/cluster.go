package graph

import (
	"errors"
	"sort"
)

// ErrCycle is returned by TopoSort when the oriented graph has a cycle.
var ErrCycle = errors.New("graph has a cycle")

// Components returns the undirected connected components. Components are
// discovered in node insertion order and each lists its members in BFS
// order from its first node.
//
// Algorithm:
//  1. Visit nodes in insertion order.
//  2. BFS from each unvisited node over edges in insertion order.
func (g *Graph) Components() [][]string {
	visited := make(map[string]bool, len(g.nodes))
	var out [][]string
	for _, n := range g.nodes {
		if visited[n.ID] {
			continue
		}
		out = append(out, g.bfsComponent(n.ID, visited))
	}
	return out
}

// bfsComponent performs BFS from start and returns all reachable nodes. It
// marks visited nodes as it goes.
func (g *Graph) bfsComponent(start string, visited map[string]bool) []string {
	var component []string
	queue := []string{start}
	visited[start] = true

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		component = append(component, node)
		for _, nb := range g.Neighbors(node) {
			if !visited[nb.ID] {
				visited[nb.ID] = true
				queue = append(queue, nb.ID)
			}
		}
	}
	return component
}

// FindCycles returns the strongly connected components of the oriented graph
// that contain more than one node. Members are in insertion order; cycles
// are ordered by their first member. An empty result means the graph is
// acyclic.
func (g *Graph) FindCycles() [][]string {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int, len(g.nodes)),
		low:     make(map[string]int, len(g.nodes)),
		onStack: make(map[string]bool, len(g.nodes)),
	}
	for _, n := range g.nodes {
		if _, seen := t.index[n.ID]; !seen {
			t.strongConnect(n.ID)
		}
	}
	for _, c := range t.sccs {
		g.sortByPosition(c)
	}
	sort.SliceStable(t.sccs, func(i, j int) bool {
		return g.position(t.sccs[i][0]) < g.position(t.sccs[j][0])
	})
	return t.sccs
}

type tarjan struct {
	g       *Graph
	next    int
	index   map[string]int
	low     map[string]int
	stack   []string
	onStack map[string]bool
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.successors(v) {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] != t.index[v] {
		return
	}
	var scc []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	if len(scc) > 1 {
		t.sccs = append(t.sccs, scc)
	}
}

// IsAcyclic reports whether the oriented graph has no cycles.
func (g *Graph) IsAcyclic() bool {
	return len(g.FindCycles()) == 0
}

// TopoSort returns a topological order of the oriented graph. Among nodes
// that are ready at the same time, the earliest inserted comes first. It
// returns ErrCycle when no order exists.
func (g *Graph) TopoSort() ([]string, error) {
	indeg := make(map[string]int, len(g.nodes))
	for _, e := range g.edges {
		indeg[e.TargetID]++
	}

	var ready []string
	for _, n := range g.nodes {
		if indeg[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		order = append(order, v)
		for _, w := range g.successors(v) {
			indeg[w]--
			if indeg[w] == 0 {
				ready = g.insertByPosition(ready, w)
			}
		}
	}
	if len(order) != len(g.nodes) {
		return nil, ErrCycle
	}
	return order, nil
}

// insertByPosition inserts id into ids, which is sorted by position.
func (g *Graph) insertByPosition(ids []string, id string) []string {
	p := g.position(id)
	i := sort.Search(len(ids), func(i int) bool { return g.position(ids[i]) > p })
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
