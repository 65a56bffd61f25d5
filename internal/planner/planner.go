// Package planner proposes an order in which to resolve related conflicts.
package planner

import (
	"sort"

	"github.com/dusk-indust/untangle/internal/graph"
)

// Plan is a suggested resolution order: groups of related conflicts, the
// most entangled group first, each internally ordered.
type Plan struct {
	Groups [][]string `json:"groups"`

	// Ordered is true when members were ordered topologically. When the
	// relation graph has cycles, members keep discovery order instead.
	Ordered bool       `json:"ordered"`
	Cycles  [][]string `json:"cycles,omitempty"`
}

// Suggest groups the graph's nodes by connected component, largest first
// (ties keep discovery order). On an acyclic graph each group is sorted by
// one topological order of the whole graph; otherwise groups keep their
// discovery order and no error is reported.
func Suggest(g *graph.Graph) Plan {
	components := g.Components()
	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})

	plan := Plan{Groups: components}
	cycles := g.FindCycles()
	if len(cycles) > 0 {
		plan.Cycles = cycles
		return plan
	}

	order, err := g.TopoSort()
	if err != nil {
		return plan
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, group := range plan.Groups {
		sort.SliceStable(group, func(i, j int) bool {
			return pos[group[i]] < pos[group[j]]
		})
	}
	plan.Ordered = true
	return plan
}

// Flatten returns every conflict id in plan order.
func (p Plan) Flatten() []string {
	var out []string
	for _, g := range p.Groups {
		out = append(out, g...)
	}
	return out
}

// Position returns the group and rank of id within the plan, or ok=false.
func (p Plan) Position(id string) (group, rank int, ok bool) {
	for gi, g := range p.Groups {
		for ri, member := range g {
			if member == id {
				return gi, ri, true
			}
		}
	}
	return 0, 0, false
}
