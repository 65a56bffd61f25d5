package graph

import "sort"

// Graph is the weighted relation graph over the conflicts of one scan. Nodes
// and edges keep insertion order so every traversal is deterministic.
//
// Edges are undirected for weights and neighbors. Each edge also remembers
// the orientation it was first added with; FindCycles and TopoSort work on
// that orientation.
type Graph struct {
	nodes []ConflictNode
	index map[string]int

	edges   []Edge
	edgeIdx map[pairKey]int
	adj     map[string][]int // node id -> edge positions, insertion order
}

type pairKey struct{ a, b string }

func keyOf(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index:   make(map[string]int),
		edgeIdx: make(map[pairKey]int),
		adj:     make(map[string][]int),
	}
}

// AddNode inserts n. Adding an id twice replaces the payload and keeps the
// original position.
func (g *Graph) AddNode(n ConflictNode) {
	if i, ok := g.index[n.ID]; ok {
		g.nodes[i] = n
		return
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// HasNode reports whether id is a node.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the payload for id.
func (g *Graph) Node(id string) (ConflictNode, bool) {
	i, ok := g.index[id]
	if !ok {
		return ConflictNode{}, false
	}
	return g.nodes[i], true
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []ConflictNode {
	out := make([]ConflictNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeIDs returns the node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.ID
	}
	return out
}

// AddWeight accumulates w onto the edge between a and b, creating it
// oriented a->b if needed. Non-positive weights, self loops and unknown
// nodes are ignored, so no edge ever has weight 0.
func (g *Graph) AddWeight(a, b string, w float64) {
	if w <= 0 || a == b || !g.HasNode(a) || !g.HasNode(b) {
		return
	}
	k := keyOf(a, b)
	if i, ok := g.edgeIdx[k]; ok {
		g.edges[i].Weight += w
		return
	}
	g.edgeIdx[k] = len(g.edges)
	g.adj[a] = append(g.adj[a], len(g.edges))
	g.adj[b] = append(g.adj[b], len(g.edges))
	g.edges = append(g.edges, Edge{SourceID: a, TargetID: b, Weight: w})
}

// Weight returns the accumulated weight between a and b in either
// direction, or 0 when they are not adjacent.
func (g *Graph) Weight(a, b string) float64 {
	if i, ok := g.edgeIdx[keyOf(a, b)]; ok {
		return g.edges[i].Weight
	}
	return 0
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.edgeIdx[keyOf(a, b)]
	return ok
}

// Neighbors returns the nodes adjacent to id in edge insertion order.
func (g *Graph) Neighbors(id string) []Neighbor {
	positions := g.adj[id]
	out := make([]Neighbor, 0, len(positions))
	for _, p := range positions {
		e := g.edges[p]
		other := e.TargetID
		if other == id {
			other = e.SourceID
		}
		out = append(out, Neighbor{ID: other, Weight: e.Weight})
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Stats summarizes the graph.
func (g *Graph) Stats() GraphStats {
	var total float64
	for _, e := range g.edges {
		total += e.Weight
	}
	return GraphStats{
		NodeCount:      len(g.nodes),
		EdgeCount:      len(g.edges),
		ComponentCount: len(g.Components()),
		TotalWeight:    total,
	}
}

// successors returns the targets of edges oriented away from id, in
// insertion order.
func (g *Graph) successors(id string) []string {
	var out []string
	for _, p := range g.adj[id] {
		if e := g.edges[p]; e.SourceID == id {
			out = append(out, e.TargetID)
		}
	}
	return out
}

// position returns the insertion position of id, or -1.
func (g *Graph) position(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// sortByPosition orders ids by node insertion position.
func (g *Graph) sortByPosition(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return g.position(ids[i]) < g.position(ids[j])
	})
}
