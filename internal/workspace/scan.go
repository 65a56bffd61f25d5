package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/graph"
	"github.com/dusk-indust/untangle/internal/ident"
	"github.com/dusk-indust/untangle/internal/planner"
)

// ScanResult summarizes a completed scan.
type ScanResult struct {
	ScanID    string           `json:"scanId"`
	Root      string           `json:"root"`
	Files     []string         `json:"files"`
	Conflicts int              `json:"conflicts"`
	Errors    []FileError      `json:"errors,omitempty"`
	Stats     graph.GraphStats `json:"stats"`
	Duration  time.Duration    `json:"duration"`
}

// Scan lists the conflicted files, parses them, extracts identifiers, builds
// the relation graph and computes the plan. The new state replaces the old
// one only when every step succeeds; on error or cancellation the previous
// state is kept. Files that fail to parse are reported in ScanResult.Errors
// and left out.
func (w *Workspace) Scan(ctx context.Context) (*ScanResult, error) {
	var res *ScanResult
	err := w.withLock(ctx, func() error {
		var err error
		res, err = w.scan(ctx)
		return err
	})
	return res, err
}

func (w *Workspace) scan(ctx context.Context) (*ScanResult, error) {
	start := time.Now()
	scanID := uuid.NewString()
	log.Printf("workspace: scan %s started root=%s", scanID, w.root)

	w.emit(ProgressEvent{ScanID: scanID, Stage: StageListing})
	paths, err := w.opts.Lister.List(ctx, w.root)
	if err != nil {
		return nil, fmt.Errorf("list conflicted files: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoConflictingFiles
	}

	res := &ScanResult{ScanID: scanID, Root: w.root}
	st := &state{
		scanID: scanID,
		byPath: make(map[string]*fileState),
		byID:   make(map[string]*entryRef),
	}

	next := 0
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := w.abs(p)
		w.emit(ProgressEvent{ScanID: scanID, Stage: StageParsing, Path: path, Done: i, Total: len(paths)})
		if _, dup := st.byPath[path]; dup {
			continue
		}
		sections, err := parseFile(path)
		if err != nil {
			log.Printf("workspace: scan %s skipping %s: %v", scanID, path, err)
			res.Errors = append(res.Errors, newFileError(path, err))
			continue
		}
		f := &fileState{path: path, sections: sections}
		f.lang, _ = ident.DetectLanguage(path)
		for _, cs := range conflict.Conflicts(sections) {
			cs.Index = strconv.Itoa(next)
			next++
			st.byID[cs.Index] = &entryRef{file: f, cs: cs}
		}
		st.files = append(st.files, f)
		st.byPath[path] = f
		res.Files = append(res.Files, path)
	}

	if err := w.extract(ctx, scanID, st.files); err != nil {
		return nil, err
	}

	w.emit(ProgressEvent{ScanID: scanID, Stage: StageBuilding})
	files := make([]graph.File, len(st.files))
	for i, f := range st.files {
		files[i] = graph.File{Path: f.path, Sections: f.sections}
	}
	g, err := graph.Build(ctx, files, w.opts.Build)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrGraphBuild, err)
	}
	st.graph = g
	st.plan = planner.Suggest(g)

	if w.opts.Store != nil {
		if err := w.opts.Store.SaveGraph(ctx, g); err != nil {
			log.Printf("workspace: scan %s graph snapshot failed: %v", scanID, err)
		}
	}

	w.st = st
	res.Conflicts = g.NodeCount()
	res.Stats = g.Stats()
	res.Duration = time.Since(start)
	log.Printf("workspace: scan %s done files=%d conflicts=%d edges=%d errors=%d",
		scanID, len(res.Files), res.Conflicts, res.Stats.EdgeCount, len(res.Errors))
	w.emit(ProgressEvent{
		ScanID:  scanID,
		Stage:   StageDone,
		Done:    len(paths),
		Total:   len(paths),
		Message: fmt.Sprintf("%d conflicts in %d files", res.Conflicts, len(res.Files)),
	})
	return res, nil
}

func parseFile(path string) ([]conflict.Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return conflict.ParseReader(path, f)
}

// extract attaches identifiers and symbols to every side, fanning out over
// files. Extraction failures degrade to empty results; only cancellation
// fails the scan.
func (w *Workspace) extract(ctx context.Context, scanID string, files []*fileState) error {
	if w.opts.Extractor == nil {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Workers)

	var done atomic.Int64
	for _, f := range files {
		if f.lang == "" {
			done.Add(1)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w.extractFile(gctx, f)
			n := int(done.Add(1))
			w.emit(ProgressEvent{ScanID: scanID, Stage: StageExtracting, Path: f.path, Done: n, Total: len(files)})
			return gctx.Err()
		})
	}
	return g.Wait()
}

func (w *Workspace) extractFile(ctx context.Context, f *fileState) {
	conflicts := conflict.Conflicts(f.sections)
	for _, cs := range conflicts {
		for i, side := range cs.Conflict.Sides {
			text := strings.Join(side.ContentLines(), "")
			ids, err := w.callExtract(ctx, f.lang, text)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("workspace: extract identifiers %s%s side %d: %v", f.path, cs.Conflict.Range, i+1, err)
				continue
			}
			side.Identifiers = ids
		}
	}

	symbols, err := w.callSymbols(ctx, f.lang, []byte(conflict.Render(f.sections)))
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("workspace: symbols %s: %v", f.path, err)
		}
		return
	}
	attachSymbols(conflicts, symbols)
}

// attachSymbols adds each symbol to every side whose range holds it.
func attachSymbols(conflicts []*conflict.ConflictSection, symbols []conflict.Symbol) {
	for _, sym := range symbols {
		for _, cs := range conflicts {
			if !cs.Conflict.Range.Contains(sym.Range) {
				continue
			}
			for i, side := range cs.Conflict.Sides {
				if side.Range.Contains(sym.Range) {
					cs.Conflict.AddSymbol(i, sym)
				}
			}
		}
	}
}

var errExtractPanic = errors.New("extractor panicked")

// callExtract runs one extraction under ExtractTimeout, turning a panic in
// the extractor into an error.
func (w *Workspace) callExtract(ctx context.Context, lang ident.Language, text string) (ids []conflict.Identifier, err error) {
	defer func() {
		if r := recover(); r != nil {
			ids, err = nil, fmt.Errorf("%w: %v", errExtractPanic, r)
		}
	}()
	callCtx, cancel := context.WithTimeout(ctx, w.opts.ExtractTimeout)
	defer cancel()
	return w.opts.Extractor.Extract(callCtx, lang, text)
}

func (w *Workspace) callSymbols(ctx context.Context, lang ident.Language, source []byte) (syms []conflict.Symbol, err error) {
	defer func() {
		if r := recover(); r != nil {
			syms, err = nil, fmt.Errorf("%w: %v", errExtractPanic, r)
		}
	}()
	callCtx, cancel := context.WithTimeout(ctx, w.opts.ExtractTimeout)
	defer cancel()
	return w.opts.Extractor.Symbols(callCtx, lang, source)
}

func (w *Workspace) emit(ev ProgressEvent) {
	if w.opts.OnProgress != nil {
		w.opts.OnProgress(ev)
	}
}
