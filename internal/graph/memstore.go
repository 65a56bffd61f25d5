package graph

import (
	"context"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store in memory. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	nodes []ConflictNode
	edges []Edge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// SaveGraph copies the nodes and edges of g.
func (m *MemStore) SaveGraph(_ context.Context, g *Graph) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = g.Nodes()
	m.edges = g.Edges()
	return nil
}

// LoadGraph rebuilds a graph from the stored snapshot.
func (m *MemStore) LoadGraph(_ context.Context) (*Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return assemble(m.nodes, m.edges), nil
}

// Neighbors returns the stored neighbors of id in edge order.
func (m *MemStore) Neighbors(_ context.Context, id string) ([]Neighbor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Neighbor
	for _, e := range m.edges {
		switch id {
		case e.SourceID:
			out = append(out, Neighbor{ID: e.TargetID, Weight: e.Weight})
		case e.TargetID:
			out = append(out, Neighbor{ID: e.SourceID, Weight: e.Weight})
		}
	}
	return out, nil
}

// Stats summarizes the stored snapshot.
func (m *MemStore) Stats(ctx context.Context) (*GraphStats, error) {
	g, err := m.LoadGraph(ctx)
	if err != nil {
		return nil, err
	}
	stats := g.Stats()
	return &stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}

// assemble builds a Graph from stored rows, preserving their order.
func assemble(nodes []ConflictNode, edges []Edge) *Graph {
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		g.AddWeight(e.SourceID, e.TargetID, e.Weight)
	}
	return g
}
