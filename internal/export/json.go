package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/untangle/internal/graph"
	"github.com/dusk-indust/untangle/internal/workspace"
)

// WorkspaceExport is the top-level JSON export structure.
type WorkspaceExport struct {
	Root       string              `json:"root"`
	ScanID     string              `json:"scanId"`
	ExportedAt string              `json:"exportedAt"`
	Conflicts  []workspace.Entry   `json:"conflicts"`
	Edges      []graph.Edge        `json:"edges"`
	Stats      graph.GraphStats    `json:"stats"`
	Plan       *workspace.PlanView `json:"plan"`
}

// ExportWorkspace snapshots the current scan of w.
func ExportWorkspace(ctx context.Context, w *workspace.Workspace) (*WorkspaceExport, error) {
	scanID, err := w.ScanID(ctx)
	if err != nil {
		return nil, err
	}
	conflicts, err := w.Conflicts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	g, err := w.Graph(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := w.Plan(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	edges := g.Edges()
	if edges == nil {
		edges = []graph.Edge{}
	}
	return &WorkspaceExport{
		Root:       w.Root(),
		ScanID:     scanID,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Conflicts:  conflicts,
		Edges:      edges,
		Stats:      g.Stats(),
		Plan:       plan,
	}, nil
}
