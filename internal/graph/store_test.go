package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// sampleGraph returns a small graph with ranges and mixed edge orientation.
func sampleGraph() *Graph {
	g := New()
	g.AddNode(ConflictNode{ID: "0", Path: "a.go", Range: conflict.LineRange(1, 9)})
	g.AddNode(ConflictNode{ID: "1", Path: "a.go", Range: conflict.LineRange(12, 20)})
	g.AddNode(ConflictNode{ID: "2", Path: "b.go", Range: conflict.Range{
		Start: conflict.Position{Line: 3},
		End:   conflict.Position{Line: 7, Character: 28},
	}})
	g.AddWeight("0", "1", 1.5)
	g.AddWeight("2", "0", 0.25)
	return g
}

// storeContract exercises any Store implementation.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx))

	empty, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NodeCount())

	want := sampleGraph()
	require.NoError(t, s.SaveGraph(ctx, want))

	got, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Nodes(), got.Nodes())
	assert.Equal(t, want.Edges(), got.Edges())

	nbs, err := s.Neighbors(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{ID: "1", Weight: 1.5}, {ID: "2", Weight: 0.25}}, nbs)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, 2, stats.EdgeCount)
	assert.Equal(t, 1, stats.ComponentCount)

	// Saving again replaces the snapshot.
	small := New()
	small.AddNode(ConflictNode{ID: "x", Path: "c.go"})
	require.NoError(t, s.SaveGraph(ctx, small))
	got, err = s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.NodeIDs())
	assert.Equal(t, 0, got.EdgeCount())
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	t.Cleanup(func() { _ = s.Close() })
	storeContract(t, s)
}
