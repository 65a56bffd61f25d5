package workspace

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/strategy"
)

// Edit replaces Range of a file with Text. Range follows editor
// conventions: zero-based lines, End is the position after the replaced
// text.
type Edit struct {
	Range conflict.Range `json:"range"`
	Text  string         `json:"text"`
}

// EditKind says how an edit affected a conflict.
type EditKind string

const (
	EditNone    EditKind = "none"
	EditResolve EditKind = "resolve"
	EditUndo    EditKind = "undo"
)

// EditResult describes the effect of ApplyEdit.
type EditResult struct {
	Kind       EditKind          `json:"kind"`
	ConflictID string            `json:"conflictId,omitempty"`
	Strategy   strategy.Strategy `json:"strategy"`
	Exact      bool              `json:"exact,omitempty"`

	// Updated lists the conflicts whose belief changed, in visit order.
	Updated []string `json:"updated,omitempty"`

	// LineDelta is how far conflicts below the edit moved.
	LineDelta int `json:"lineDelta"`
}

// ApplyEdit records an edit to path. An edit covering a conflict's range
// whose text holds both a start and an end marker undoes that conflict's
// resolution; any other edit covering it resolves it with the edited text.
// Conflicts below the edit are shifted by its line delta. Graph nodes keep
// the ranges of the scan that built them.
func (w *Workspace) ApplyEdit(ctx context.Context, path string, e Edit) (*EditResult, error) {
	var out *EditResult
	err := w.withState(ctx, func(s *state) error {
		f, ok := s.byPath[w.abs(path)]
		if !ok {
			return fmt.Errorf("%w: no conflicts in %s", ErrUnknownConflict, path)
		}
		out = w.applyEdit(s, f, e)
		return nil
	})
	return out, err
}

func (w *Workspace) applyEdit(s *state, f *fileState, e Edit) *EditResult {
	delta := lineBreaks(e.Text) - (e.Range.End.Line - e.Range.Start.Line)
	res := &EditResult{Kind: EditNone, LineDelta: delta}

	var target *conflict.ConflictSection
	for _, cs := range conflict.Conflicts(f.sections) {
		if e.Range.Contains(cs.Conflict.Range) {
			target = cs
			break
		}
	}

	if target != nil {
		c := target.Conflict
		n := c.SideCount()
		res.ConflictID = target.Index
		if strings.Contains(e.Text, conflict.MarkerStart) && strings.Contains(e.Text, conflict.MarkerEnd) {
			res.Kind = EditUndo
			res.Updated = strategy.Undo(s.graph, s, target)
			c.Relocate(e.Range.Start.Line)
		} else {
			res.Kind = EditResolve
			var cl strategy.Classification
			cl, res.Updated = strategy.Resolve(s.graph, s, target, e.Text)
			res.Exact = cl.Exact
			start := e.Range.Start.Line
			lines := len(conflict.SplitLines(e.Text))
			c.Range = conflict.LineRange(start, start+max(lines, 1)-1)
		}
		res.Strategy = strategy.Lookup(target.Strategy, n, w.opts.Naming)
		log.Printf("workspace: %s %s%s via %s", res.Kind, f.path, c.Range, res.Strategy.Display)
	}

	if delta != 0 {
		for _, cs := range conflict.Conflicts(f.sections) {
			if cs != target && cs.Conflict.Range.Start.Line > e.Range.End.Line {
				cs.Conflict.Shift(delta)
			}
		}
	}
	return res
}

// lineBreaks counts the line terminators in text.
func lineBreaks(text string) int {
	n := 0
	for _, line := range conflict.SplitLines(text) {
		if strings.HasSuffix(line, "\n") || strings.HasSuffix(line, "\r") {
			n++
		}
	}
	return n
}

// SqueezeFile returns the text of path with every conflict squeezed.
func SqueezeFile(path string) (string, error) {
	sections, err := parseFile(path)
	if err != nil {
		return "", err
	}
	return conflict.RenderSqueezed(sections), nil
}
