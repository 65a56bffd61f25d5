package workspace

import (
	"context"
	"fmt"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/strategy"
)

// PlanView is the suggested resolution order with conflict details.
type PlanView struct {
	Groups  [][]Entry  `json:"groups"`
	Ordered bool       `json:"ordered"`
	Cycles  [][]string `json:"cycles,omitempty"`
}

// Plan returns the suggested resolution order of the current scan.
func (w *Workspace) Plan(ctx context.Context) (*PlanView, error) {
	var out *PlanView
	err := w.withState(ctx, func(s *state) error {
		out = &PlanView{Ordered: s.plan.Ordered, Cycles: s.plan.Cycles}
		for _, group := range s.plan.Groups {
			entries := make([]Entry, 0, len(group))
			for _, id := range group {
				entries = append(entries, w.entry(s.byID[id]))
			}
			out.Groups = append(out.Groups, entries)
		}
		return nil
	})
	return out, err
}

// Suggestion is the recommended strategy for a conflict.
type Suggestion struct {
	ConflictID  string            `json:"conflictId"`
	Strategy    strategy.Strategy `json:"strategy"`
	Probability float64           `json:"probability"`

	// Highlights are the side ranges the strategy keeps.
	Highlights []conflict.Range `json:"highlights"`
}

// Suggest recommends a strategy for conflict id. It returns ErrNoSuggestion
// while the conflict's belief still favors Unknown.
func (w *Workspace) Suggest(ctx context.Context, id string) (*Suggestion, error) {
	var out *Suggestion
	err := w.withState(ctx, func(s *state) error {
		ref, ok := s.byID[id]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownConflict, id)
		}
		cs := ref.cs
		best := strategy.Recommend(cs.Probabilities)
		if best == strategy.Unknown {
			return ErrNoSuggestion
		}
		c := cs.Conflict
		n := c.SideCount()
		out = &Suggestion{
			ConflictID:  id,
			Strategy:    strategy.Lookup(best, n, w.opts.Naming),
			Probability: cs.Probabilities[best],
			Highlights:  []conflict.Range{},
		}
		switch {
		case best == strategy.AcceptAll(n):
			for _, side := range c.Sides {
				out.Highlights = append(out.Highlights, side.Range)
			}
		default:
			if side, ok := strategy.Side(best, n); ok {
				out.Highlights = append(out.Highlights, c.Sides[side].Range)
			}
		}
		return nil
	})
	return out, err
}

// Related is a neighbor of a conflict in the relation graph.
type Related struct {
	ID     string  `json:"id"`
	Path   string  `json:"path"`
	Weight float64 `json:"weight"`

	// Location is the first side's range, or the conflict's range when it
	// has no sides.
	Location conflict.Range `json:"location"`
}

// Related lists the neighbors of conflict id in edge order.
func (w *Workspace) Related(ctx context.Context, id string) ([]Related, error) {
	var out []Related
	err := w.withState(ctx, func(s *state) error {
		if _, ok := s.byID[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownConflict, id)
		}
		for _, nb := range s.graph.Neighbors(id) {
			ref := s.byID[nb.ID]
			c := ref.cs.Conflict
			loc := c.Range
			if len(c.Sides) > 0 {
				loc = c.Sides[0].Range
			}
			out = append(out, Related{ID: nb.ID, Path: ref.file.path, Weight: nb.Weight, Location: loc})
		}
		if len(out) == 0 {
			return ErrNoRelated
		}
		return nil
	})
	return out, err
}
