package workspace

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/graph"
	"github.com/dusk-indust/untangle/internal/ident"
	"github.com/dusk-indust/untangle/internal/lister"
)

const blockA0 = "<<<<<<< Conflict 1 of 2\n+++++++\nfoo()\n+++++++\nbar()\n>>>>>>> Conflict 1 of 2 ends\n"

// Lines: 0 package, 1..6 conflict 0, 7 between, 8..13 conflict 1.
const fileA = "package a\n" + blockA0 +
	"between\n" +
	"<<<<<<< Conflict 2 of 2\n+++++++\nfoo()\n+++++++\nbar()\n>>>>>>> Conflict 2 of 2 ends\n"

const fileB = "<<<<<<< Conflict 1 of 1\n+++++++\nx = 1\n+++++++\ny = 2\n>>>>>>> Conflict 1 of 1 ends\n"

const broken = "<<<<<<< Conflict 1 of 1\n+++++++\nnever closed\n"

func setup(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newWorkspace(t *testing.T, root string, opts Options) *Workspace {
	t.Helper()
	if opts.Lister == nil {
		opts.Lister = lister.NewScanLister()
	}
	w, err := New(root, opts)
	require.NoError(t, err)
	return w
}

func scanned(t *testing.T, opts Options) (*Workspace, string) {
	t.Helper()
	root := setup(t, map[string]string{"a.go": fileA, "b.py": fileB})
	w := newWorkspace(t, root, opts)
	_, err := w.Scan(context.Background())
	require.NoError(t, err)
	return w, root
}

// wordExtractor reports every word as a use and a fixed symbol set.
type wordExtractor struct {
	symbols []conflict.Symbol
	panics  bool
}

var word = regexp.MustCompile(`[A-Za-z_]+`)

func (e *wordExtractor) Extract(_ context.Context, _ ident.Language, text string) ([]conflict.Identifier, error) {
	if e.panics {
		panic("boom")
	}
	var out []conflict.Identifier
	for _, w := range word.FindAllString(text, -1) {
		out = append(out, conflict.Identifier{Kind: ident.CaptureUse, Text: w})
	}
	return out, nil
}

func (e *wordExtractor) Symbols(context.Context, ident.Language, []byte) ([]conflict.Symbol, error) {
	return e.symbols, nil
}

// ---------------------------------------------------------------------------
// Scan
// ---------------------------------------------------------------------------

func TestScan(t *testing.T) {
	root := setup(t, map[string]string{"a.go": fileA, "b.py": fileB})
	var mu sync.Mutex
	var events []ProgressEvent
	store := graph.NewMemStore()
	w := newWorkspace(t, root, Options{
		Store: store,
		OnProgress: func(ev ProgressEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	})

	res, err := w.Scan(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.ScanID)
	assert.Equal(t, []string{filepath.Join(root, "a.go"), filepath.Join(root, "b.py")}, res.Files)
	assert.Equal(t, 3, res.Conflicts)
	assert.Empty(t, res.Errors)
	assert.Equal(t, graph.GraphStats{NodeCount: 3, EdgeCount: 1, ComponentCount: 2, TotalWeight: 1}, res.Stats)

	id, err := w.ScanID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.ScanID, id)

	entries, err := w.Conflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "0", entries[0].ID)
	assert.Equal(t, conflict.LineRange(1, 6).Start, entries[0].Range.Start)
	assert.Equal(t, 8, entries[1].Range.Start.Line)
	assert.Equal(t, filepath.Join(root, "b.py"), entries[2].Path)
	assert.Equal(t, "Unknown", entries[2].Strategy.Display)

	stored, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stored.NodeCount)

	require.NotEmpty(t, events)
	assert.Equal(t, StageListing, events[0].Stage)
	assert.Equal(t, StageDone, events[len(events)-1].Stage)
}

func TestScan_NoFiles(t *testing.T) {
	w := newWorkspace(t, setup(t, map[string]string{"clean.go": "package a\n"}), Options{})
	_, err := w.Scan(context.Background())
	assert.ErrorIs(t, err, ErrNoConflictingFiles)

	_, err = w.Plan(context.Background())
	assert.ErrorIs(t, err, ErrNotScanned)
}

func TestScan_ParseErrorsAreCollected(t *testing.T) {
	root := setup(t, map[string]string{"a.go": fileA, "bad.go": broken})
	w := newWorkspace(t, root, Options{})

	res, err := w.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Conflicts)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, filepath.Join(root, "bad.go"), res.Errors[0].Path)
	assert.ErrorIs(t, &res.Errors[0], conflict.ErrConflictStillOpen)
	assert.Contains(t, res.Errors[0].Message, "conflict still open")
}

func TestScan_CancelledKeepsPreviousState(t *testing.T) {
	w, _ := scanned(t, Options{})
	before, err := w.ScanID(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	after, err := w.ScanID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestScan_Extraction(t *testing.T) {
	sym := conflict.Symbol{Name: "foo", Kind: ident.SymbolKindFunction, Range: conflict.LineRange(3, 3)}
	w, _ := scanned(t, Options{Extractor: &wordExtractor{symbols: []conflict.Symbol{sym}}})

	g, err := w.Graph(context.Background())
	require.NoError(t, err)
	// Dependency 1.0 plus similarity 1.0.
	assert.InDelta(t, 2.0, g.Weight("0", "1"), 1e-9)

	w.lock.Acquire(context.Background(), 1)
	defer w.lock.Release(1)
	c := w.st.byID["0"].cs.Conflict
	assert.Equal(t, []conflict.Identifier{{Kind: ident.CaptureUse, Text: "foo"}}, c.Sides[0].Identifiers)
	assert.Equal(t, []conflict.Symbol{sym}, c.Sides[0].Symbols)
	assert.Empty(t, c.Sides[1].Symbols)
}

func TestScan_ExtractorPanicDegrades(t *testing.T) {
	w, _ := scanned(t, Options{Extractor: &wordExtractor{panics: true}})
	g, err := w.Graph(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, g.Weight("0", "1"), 1e-9)
}

func TestScan_Concurrent(t *testing.T) {
	root := setup(t, map[string]string{"a.go": fileA, "b.py": fileB})
	w := newWorkspace(t, root, Options{})

	var wg sync.WaitGroup
	ids := make([]string, 4)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := w.Scan(context.Background())
			if assert.NoError(t, err) {
				ids[i] = res.ScanID
			}
		}()
	}
	wg.Wait()

	entries, err := w.Conflicts(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	id, err := w.ScanID(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ids, id)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestPlan(t *testing.T) {
	w, _ := scanned(t, Options{})
	plan, err := w.Plan(context.Background())
	require.NoError(t, err)
	assert.True(t, plan.Ordered)
	require.Len(t, plan.Groups, 2)
	assert.Equal(t, "0", plan.Groups[0][0].ID)
	assert.Equal(t, "1", plan.Groups[0][1].ID)
	assert.Equal(t, "2", plan.Groups[1][0].ID)
}

func TestRelated(t *testing.T) {
	w, root := scanned(t, Options{})
	rel, err := w.Related(context.Background(), "0")
	require.NoError(t, err)
	require.Len(t, rel, 1)
	assert.Equal(t, "1", rel[0].ID)
	assert.Equal(t, filepath.Join(root, "a.go"), rel[0].Path)
	assert.InDelta(t, 1.0, rel[0].Weight, 1e-9)
	assert.Equal(t, 10, rel[0].Location.Start.Line)

	_, err = w.Related(context.Background(), "2")
	assert.ErrorIs(t, err, ErrNoRelated)
	_, err = w.Related(context.Background(), "99")
	assert.ErrorIs(t, err, ErrUnknownConflict)
}

func TestLocate(t *testing.T) {
	w, _ := scanned(t, Options{})
	e, err := w.Locate(context.Background(), "a.go", 9)
	require.NoError(t, err)
	assert.Equal(t, "1", e.ID)

	_, err = w.Locate(context.Background(), "a.go", 7)
	assert.ErrorIs(t, err, ErrUnknownConflict)
	_, err = w.Locate(context.Background(), "missing.go", 0)
	assert.ErrorIs(t, err, ErrUnknownConflict)
}

func TestSuggest_NoSignal(t *testing.T) {
	w, _ := scanned(t, Options{})
	_, err := w.Suggest(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoSuggestion)
	_, err = w.Suggest(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownConflict)
}

// ---------------------------------------------------------------------------
// Edits
// ---------------------------------------------------------------------------

func resolveFirst(t *testing.T, w *Workspace) *EditResult {
	t.Helper()
	res, err := w.ApplyEdit(context.Background(), "a.go", Edit{
		Range: conflict.Range{Start: conflict.Position{Line: 1}, End: conflict.Position{Line: 7}},
		Text:  "bar()\n",
	})
	require.NoError(t, err)
	return res
}

func TestApplyEdit_Resolve(t *testing.T) {
	w, _ := scanned(t, Options{})
	res := resolveFirst(t, w)

	assert.Equal(t, EditResolve, res.Kind)
	assert.Equal(t, "0", res.ConflictID)
	assert.Equal(t, "Accept Side 2", res.Strategy.Display)
	assert.True(t, res.Exact)
	assert.Equal(t, []string{"1"}, res.Updated)
	assert.Equal(t, -5, res.LineDelta)

	first, err := w.Conflict(context.Background(), "0")
	require.NoError(t, err)
	assert.True(t, first.Resolved)
	assert.Equal(t, conflict.LineRange(1, 1), first.Range)

	second, err := w.Conflict(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 3, second.Range.Start.Line)
	assert.Equal(t, 8, second.Range.End.Line)

	sug, err := w.Suggest(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Accept Side 2", sug.Strategy.Display)
	assert.InDelta(t, 0.6, sug.Probability, 1e-9)
	require.Len(t, sug.Highlights, 1)
	assert.Equal(t, 7, sug.Highlights[0].Start.Line)
}

func TestApplyEdit_GitNaming(t *testing.T) {
	w, _ := scanned(t, Options{Naming: "git-friendly"})
	res := resolveFirst(t, w)
	assert.Equal(t, "Accept Incoming", res.Strategy.Display)
}

func TestApplyEdit_Undo(t *testing.T) {
	w, _ := scanned(t, Options{})
	resolveFirst(t, w)

	res, err := w.ApplyEdit(context.Background(), "a.go", Edit{
		Range: conflict.Range{Start: conflict.Position{Line: 1}, End: conflict.Position{Line: 2}},
		Text:  blockA0,
	})
	require.NoError(t, err)
	assert.Equal(t, EditUndo, res.Kind)
	assert.Equal(t, "Unknown", res.Strategy.Display)
	assert.Equal(t, 5, res.LineDelta)

	first, err := w.Conflict(context.Background(), "0")
	require.NoError(t, err)
	assert.False(t, first.Resolved)
	assert.Equal(t, 1, first.Range.Start.Line)
	assert.Equal(t, 6, first.Range.End.Line)

	second, err := w.Conflict(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 8, second.Range.Start.Line)

	_, err = w.Suggest(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoSuggestion)
}

func TestApplyEdit_OutsideConflicts(t *testing.T) {
	w, _ := scanned(t, Options{})
	res, err := w.ApplyEdit(context.Background(), "a.go", Edit{
		Range: conflict.Range{Start: conflict.Position{Line: 7}, End: conflict.Position{Line: 7, Character: 7}},
		Text:  "one\ntwo",
	})
	require.NoError(t, err)
	assert.Equal(t, EditNone, res.Kind)
	assert.Equal(t, 1, res.LineDelta)

	first, err := w.Conflict(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Range.Start.Line)
	second, err := w.Conflict(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 9, second.Range.Start.Line)
}

func TestApplyEdit_UnknownFile(t *testing.T) {
	w, _ := scanned(t, Options{})
	_, err := w.ApplyEdit(context.Background(), "c.go", Edit{Text: "x"})
	assert.ErrorIs(t, err, ErrUnknownConflict)
}

func TestSqueezeFile(t *testing.T) {
	root := setup(t, map[string]string{
		"same.go": "<<<<<<< Conflict 1 of 1\n+++++++\nx\n+++++++\nx\n>>>>>>> Conflict 1 of 1 ends\ntail\n",
	})
	out, err := SqueezeFile(filepath.Join(root, "same.go"))
	require.NoError(t, err)
	assert.Equal(t, "x\ntail\n", out)

	_, err = SqueezeFile(filepath.Join(root, "missing.go"))
	assert.Error(t, err)
}

func TestNew_RequiresLister(t *testing.T) {
	_, err := New(t.TempDir(), Options{})
	assert.Error(t, err)
}
