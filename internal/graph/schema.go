package graph

import "github.com/dusk-indust/untangle/internal/conflict"

// --- Models ---

// ConflictNode is the payload of one graph node: where the conflict lives.
type ConflictNode struct {
	ID    string         `json:"id"`
	Path  string         `json:"path"`
	Range conflict.Range `json:"range"`
}

// Edge is an undirected weighted relation between two conflicts. Source and
// Target record the order in which the pair was first related.
type Edge struct {
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId"`
	Weight   float64 `json:"weight"`
}

// Neighbor is an adjacent node together with the weight of the shared edge.
type Neighbor struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// GraphStats summarizes a relation graph.
type GraphStats struct {
	NodeCount      int     `json:"nodeCount"`
	EdgeCount      int     `json:"edgeCount"`
	ComponentCount int     `json:"componentCount"`
	TotalWeight    float64 `json:"totalWeight"`
}
