package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGraph creates a graph with the given node ids and weighted edges.
func newGraph(t *testing.T, ids []string, edges []Edge) *Graph {
	t.Helper()
	g := New()
	for _, id := range ids {
		g.AddNode(ConflictNode{ID: id, Path: "f.go"})
	}
	for _, e := range edges {
		g.AddWeight(e.SourceID, e.TargetID, e.Weight)
	}
	return g
}

// ---------------------------------------------------------------------------
// Edges
// ---------------------------------------------------------------------------

func TestAddWeight_Accumulates(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, nil)
	g.AddWeight("a", "b", 0.25)
	g.AddWeight("b", "a", 0.5)

	require.Equal(t, 1, g.EdgeCount(), "signals for one pair share an edge")
	assert.InDelta(t, 0.75, g.Weight("a", "b"), 1e-9)
	assert.InDelta(t, 0.75, g.Weight("b", "a"), 1e-9)
	assert.Equal(t, Edge{SourceID: "a", TargetID: "b", Weight: 0.75}, g.Edges()[0])
}

func TestAddWeight_IgnoresNonPositive(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, nil)
	g.AddWeight("a", "b", 0)
	g.AddWeight("a", "b", -1)
	g.AddWeight("a", "a", 1)
	g.AddWeight("a", "missing", 1)

	assert.Equal(t, 0, g.EdgeCount())
	assert.False(t, g.HasEdge("a", "b"))
	assert.Equal(t, 0.0, g.Weight("a", "b"))
}

func TestNeighbors_EdgeOrder(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d"}, []Edge{
		{SourceID: "a", TargetID: "c", Weight: 1},
		{SourceID: "b", TargetID: "a", Weight: 2},
		{SourceID: "a", TargetID: "d", Weight: 3},
	})
	assert.Equal(t, []Neighbor{{ID: "c", Weight: 1}, {ID: "b", Weight: 2}, {ID: "d", Weight: 3}}, g.Neighbors("a"))
	assert.Equal(t, []Neighbor{{ID: "a", Weight: 2}}, g.Neighbors("b"))
	assert.Empty(t, g.Neighbors("missing"))
}

func TestAddNode_Replace(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, nil)
	g.AddNode(ConflictNode{ID: "a", Path: "other.go"})
	assert.Equal(t, []string{"a", "b"}, g.NodeIDs())
	n, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, "other.go", n.Path)
	_, ok = g.Node("z")
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// Components
// ---------------------------------------------------------------------------

func TestComponents(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d", "e"}, []Edge{
		{SourceID: "d", TargetID: "b", Weight: 1},
		{SourceID: "a", TargetID: "e", Weight: 1},
	})
	assert.Equal(t, [][]string{{"a", "e"}, {"b", "d"}, {"c"}}, g.Components())
}

func TestComponents_Empty(t *testing.T) {
	assert.Empty(t, New().Components())
}

// ---------------------------------------------------------------------------
// Cycles and topological order
// ---------------------------------------------------------------------------

func TestFindCycles_Acyclic(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c"}, []Edge{
		{SourceID: "a", TargetID: "b", Weight: 1},
		{SourceID: "b", TargetID: "c", Weight: 1},
		{SourceID: "a", TargetID: "c", Weight: 1},
	})
	assert.Empty(t, g.FindCycles())
	assert.True(t, g.IsAcyclic())
}

func TestFindCycles_Cycle(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d"}, []Edge{
		{SourceID: "a", TargetID: "b", Weight: 1},
		{SourceID: "b", TargetID: "c", Weight: 1},
		{SourceID: "c", TargetID: "a", Weight: 1},
		{SourceID: "c", TargetID: "d", Weight: 1},
	})
	assert.Equal(t, [][]string{{"a", "b", "c"}}, g.FindCycles())
	assert.False(t, g.IsAcyclic())
}

func TestTopoSort(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d"}, []Edge{
		{SourceID: "c", TargetID: "a", Weight: 1},
		{SourceID: "d", TargetID: "b", Weight: 1},
	})
	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "d", "b"}, order)
	assertTopological(t, g, order)
}

func TestTopoSort_Cycle(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, []Edge{
		{SourceID: "a", TargetID: "b", Weight: 1},
	})
	// Reverse edge would merge into a->b; build a 3-cycle instead.
	g.AddNode(ConflictNode{ID: "c"})
	g.AddWeight("b", "c", 1)
	g.AddWeight("c", "a", 1)

	_, err := g.TopoSort()
	assert.ErrorIs(t, err, ErrCycle)
}

// assertTopological checks every edge points forward in order.
func assertTopological(t *testing.T, g *Graph, order []string) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges() {
		assert.Less(t, pos[e.SourceID], pos[e.TargetID], "%s -> %s", e.SourceID, e.TargetID)
	}
}

func TestStats(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c"}, []Edge{
		{SourceID: "a", TargetID: "b", Weight: 0.5},
		{SourceID: "a", TargetID: "b", Weight: 1},
	})
	assert.Equal(t, GraphStats{NodeCount: 3, EdgeCount: 1, ComponentCount: 2, TotalWeight: 1.5}, g.Stats())
}
