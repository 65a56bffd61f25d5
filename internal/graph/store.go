package graph

import (
	"context"
	"io"
)

// Store persists relation graph snapshots.
// Implementations: KuzuStore (on-disk, cgo), MemStore (testing and the
// default when no database path is configured).
type Store interface {
	io.Closer

	// InitSchema is called once before any data is written.
	InitSchema(ctx context.Context) error

	// SaveGraph replaces the stored snapshot with g.
	SaveGraph(ctx context.Context, g *Graph) error

	// LoadGraph returns the stored snapshot, or an empty graph.
	LoadGraph(ctx context.Context) (*Graph, error)

	// Neighbors returns the stored neighbors of id.
	Neighbors(ctx context.Context, id string) ([]Neighbor, error)

	// Stats summarizes the stored snapshot.
	Stats(ctx context.Context) (*GraphStats, error)
}
