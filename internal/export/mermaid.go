package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dusk-indust/untangle/internal/graph"
	"github.com/dusk-indust/untangle/internal/planner"
)

// GenerateMermaid produces a Mermaid flowchart of the graph held by store.
func GenerateMermaid(ctx context.Context, store graph.Store) (string, error) {
	g, err := store.LoadGraph(ctx)
	if err != nil {
		return "", fmt.Errorf("load graph: %w", err)
	}
	return Mermaid(g), nil
}

// Mermaid renders g as a flowchart. Each planner group becomes a subgraph,
// listed in resolution order; edges are labeled with their weight.
func Mermaid(g *graph.Graph) string {
	plan := planner.Suggest(g)

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	getID := func(id string) string {
		if m, ok := nodeIDs[id]; ok {
			return m
		}
		m := fmt.Sprintf("N%d", len(nodeIDs))
		nodeIDs[id] = m
		return m
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, group := range plan.Groups {
		sb.WriteString(fmt.Sprintf("  subgraph G%d[\"group %d\"]\n", i, i+1))
		for rank, id := range group {
			n, _ := g.Node(id)
			label := fmt.Sprintf("%d. %s%s", rank+1, shortPath(n.Path), n.Range)
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(id), label))
		}
		sb.WriteString("  end\n")
	}

	for _, e := range g.Edges() {
		sb.WriteString(fmt.Sprintf("  %s ---|%s| %s\n", getID(e.SourceID), formatWeight(e.Weight), getID(e.TargetID)))
	}
	return sb.String()
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
