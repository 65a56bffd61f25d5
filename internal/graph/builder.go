package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/similarity"
)

// File is one parsed file: its path and section sequence. Conflict sections
// must carry their graph Index.
type File struct {
	Path     string
	Sections []conflict.Section
}

// BuildOptions tunes edge creation.
type BuildOptions struct {
	// SimilarityThreshold is the score a pair must exceed before its
	// similarity contributes weight.
	SimilarityThreshold float64
	// NestingWeight is added for each detected nesting relation.
	NestingWeight float64
}

// DefaultBuildOptions returns the standard thresholds.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{SimilarityThreshold: 0.5, NestingWeight: 1.0}
}

// Build constructs the relation graph over every conflict in files. Pairs
// are related by identifier dependency, textual similarity and brace
// nesting; all signals for a pair accumulate onto one edge. Build checks
// ctx between conflicts and returns ctx.Err() when cancelled. Every conflict
// needs a distinct, non-empty Index.
func Build(ctx context.Context, files []File, opts BuildOptions) (*Graph, error) {
	g := New()

	var all []*conflict.ConflictSection
	for _, f := range files {
		for _, cs := range conflict.Conflicts(f.Sections) {
			if cs.Index == "" {
				return nil, fmt.Errorf("conflict at %s%s has no index", f.Path, cs.Conflict.Range)
			}
			if g.HasNode(cs.Index) {
				return nil, fmt.Errorf("duplicate conflict index %q in %s", cs.Index, f.Path)
			}
			g.AddNode(ConflictNode{ID: cs.Index, Path: f.Path, Range: cs.Conflict.Range})
			all = append(all, cs)
		}
	}

	for i := 0; i < len(all); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c1 := all[i]
		for j := i + 1; j < len(all); j++ {
			c2 := all[j]
			if dep := similarity.Dependency(c1.Conflict, c2.Conflict); dep > 0 {
				g.AddWeight(c1.Index, c2.Index, dep)
			}
			if sim := similarity.Similarity(c1.Conflict, c2.Conflict); sim > opts.SimilarityThreshold {
				g.AddWeight(c1.Index, c2.Index, sim)
			}
		}
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		addNesting(g, f.Sections, opts.NestingWeight)
	}
	return g, nil
}

// addNesting relates a conflict that leaves braces open to the next conflict
// in the same file when the running balance, including the next conflict's
// own braces, is still positive there. Text in between only adjusts the
// balance.
func addNesting(g *Graph, sections []conflict.Section, weight float64) {
	for i, s := range sections {
		if s.Kind != conflict.KindConflict {
			continue
		}
		balance := BraceBalance(s.Lines())
		if balance <= 0 {
			continue
		}
		for _, next := range sections[i+1:] {
			balance += BraceBalance(next.Lines())
			if next.Kind == conflict.KindText {
				continue
			}
			if balance > 0 {
				g.AddWeight(s.Conflict.Index, next.Conflict.Index, weight)
			}
			break
		}
	}
}

// BraceBalance counts '{' minus '}' over lines.
func BraceBalance(lines []string) int {
	n := 0
	for _, line := range lines {
		n += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return n
}
