// Package workspace runs the scan pipeline over a directory and serves the
// resulting conflicts, relation graph and resolution plan. Scans, edits and
// queries are serialized through one FIFO lock, so a caller never observes
// a partially built state.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/graph"
	"github.com/dusk-indust/untangle/internal/ident"
	"github.com/dusk-indust/untangle/internal/lister"
	"github.com/dusk-indust/untangle/internal/planner"
	"github.com/dusk-indust/untangle/internal/strategy"
)

// Extractor is the identifier and symbol service consulted during a scan.
// *ident.TreeSitter implements it.
type Extractor interface {
	Extract(ctx context.Context, lang ident.Language, text string) ([]conflict.Identifier, error)
	Symbols(ctx context.Context, lang ident.Language, source []byte) ([]conflict.Symbol, error)
}

var _ Extractor = (*ident.TreeSitter)(nil)

// Options configures a Workspace. Lister is required; everything else has a
// usable zero value.
type Options struct {
	Lister lister.Lister

	// Extractor is optional; without it sides carry no identifiers.
	Extractor Extractor

	// Store, when set, receives a snapshot of every built graph.
	Store graph.Store

	Build          graph.BuildOptions
	Naming         strategy.Naming
	Workers        int
	ExtractTimeout time.Duration

	// OnProgress is called synchronously from the scanning goroutines.
	OnProgress func(ProgressEvent)
}

// Workspace holds the state of the most recent successful scan of Root.
type Workspace struct {
	root string
	opts Options
	lock *semaphore.Weighted
	st   *state
}

// state is replaced wholesale by each scan.
type state struct {
	scanID string
	files  []*fileState
	byPath map[string]*fileState
	byID   map[string]*entryRef
	graph  *graph.Graph
	plan   planner.Plan
}

type fileState struct {
	path     string
	lang     ident.Language
	sections []conflict.Section
}

type entryRef struct {
	file *fileState
	cs   *conflict.ConflictSection
}

// Section implements strategy.Sections.
func (s *state) Section(id string) (*conflict.ConflictSection, bool) {
	ref, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return ref.cs, true
}

// New returns a workspace rooted at root.
func New(root string, opts Options) (*Workspace, error) {
	if opts.Lister == nil {
		return nil, fmt.Errorf("workspace: lister is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve root: %w", err)
	}
	if opts.Build == (graph.BuildOptions{}) {
		opts.Build = graph.DefaultBuildOptions()
	}
	if opts.Naming == "" {
		opts.Naming = strategy.NamingJJ
	}
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	if opts.ExtractTimeout <= 0 {
		opts.ExtractTimeout = 2 * time.Second
	}
	return &Workspace{root: abs, opts: opts, lock: semaphore.NewWeighted(1)}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string { return w.root }

// withLock runs fn while holding the workspace lock. Waiters are served in
// arrival order; a cancelled ctx abandons the wait.
func (w *Workspace) withLock(ctx context.Context, fn func() error) error {
	if err := w.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer w.lock.Release(1)
	return fn()
}

// withState is withLock for operations that need a completed scan.
func (w *Workspace) withState(ctx context.Context, fn func(*state) error) error {
	return w.withLock(ctx, func() error {
		if w.st == nil {
			return ErrNotScanned
		}
		return fn(w.st)
	})
}

// Entry describes one conflict and its resolution state.
type Entry struct {
	ID            string            `json:"id"`
	Path          string            `json:"path"`
	Range         conflict.Range    `json:"range"`
	Sides         int               `json:"sides"`
	Resolved      bool              `json:"resolved"`
	Strategy      strategy.Strategy `json:"strategy"`
	Probabilities []float64         `json:"probabilities"`
}

func (w *Workspace) entry(ref *entryRef) Entry {
	cs := ref.cs
	n := cs.Conflict.SideCount()
	return Entry{
		ID:            cs.Index,
		Path:          ref.file.path,
		Range:         cs.Conflict.Range,
		Sides:         n,
		Resolved:      cs.Resolved,
		Strategy:      strategy.Lookup(cs.Strategy, n, w.opts.Naming),
		Probabilities: append([]float64(nil), cs.Probabilities...),
	}
}

// ScanID returns the id of the current scan.
func (w *Workspace) ScanID(ctx context.Context) (string, error) {
	var id string
	err := w.withState(ctx, func(s *state) error {
		id = s.scanID
		return nil
	})
	return id, err
}

// Graph returns the relation graph of the current scan. The graph is not
// modified after the scan that built it.
func (w *Workspace) Graph(ctx context.Context) (*graph.Graph, error) {
	var g *graph.Graph
	err := w.withState(ctx, func(s *state) error {
		g = s.graph
		return nil
	})
	return g, err
}

// Conflicts lists every conflict in scan order.
func (w *Workspace) Conflicts(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := w.withState(ctx, func(s *state) error {
		for _, id := range s.graph.NodeIDs() {
			out = append(out, w.entry(s.byID[id]))
		}
		return nil
	})
	return out, err
}

// Conflict returns the conflict with id.
func (w *Workspace) Conflict(ctx context.Context, id string) (Entry, error) {
	var out Entry
	err := w.withState(ctx, func(s *state) error {
		ref, ok := s.byID[id]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownConflict, id)
		}
		out = w.entry(ref)
		return nil
	})
	return out, err
}

// Locate returns the conflict in path whose range covers the zero-based
// line.
func (w *Workspace) Locate(ctx context.Context, path string, line int) (Entry, error) {
	var out Entry
	err := w.withState(ctx, func(s *state) error {
		f, ok := s.byPath[w.abs(path)]
		if !ok {
			return fmt.Errorf("%w: no conflicts in %s", ErrUnknownConflict, path)
		}
		for _, cs := range conflict.Conflicts(f.sections) {
			r := cs.Conflict.Range
			if r.Start.Line <= line && line <= r.End.Line {
				out = w.entry(&entryRef{file: f, cs: cs})
				return nil
			}
		}
		return fmt.Errorf("%w: no conflict at %s:%d", ErrUnknownConflict, path, line+1)
	})
	return out, err
}

// abs resolves path against the workspace root.
func (w *Workspace) abs(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	return filepath.Clean(path)
}
