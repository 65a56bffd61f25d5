package lister

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conflicted = "a\n<<<<<<< Conflict 1 of 1\n+++++++\nx\n+++++++\ny\n>>>>>>> Conflict 1 of 1 ends\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// stubLister returns fixed results.
type stubLister struct {
	paths []string
	err   error
	calls int
}

func (s *stubLister) List(context.Context, string) ([]string, error) {
	s.calls++
	return s.paths, s.err
}

func TestScanLister(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), conflicted)
	writeFile(t, filepath.Join(root, "clean.go"), "package a\n")
	writeFile(t, filepath.Join(root, "git.txt"), "<<<<<<< HEAD\nx\n=======\ny\n>>>>>>> other\n")
	writeFile(t, filepath.Join(root, "sub", "b.py"), conflicted)
	writeFile(t, filepath.Join(root, ".jj", "c.go"), conflicted)
	writeFile(t, filepath.Join(root, ".hidden.go"), conflicted)
	writeFile(t, filepath.Join(root, "node_modules", "d.js"), conflicted)

	paths, err := NewScanLister("node_modules").List(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.go"),
		filepath.Join(root, "sub", "b.py"),
	}, paths)
}

func TestScanLister_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), conflicted)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanLister().List(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJJLister(t *testing.T) {
	var gotDir string
	var gotArgs []string
	l := &JJLister{run: func(_ context.Context, dir, name string, args ...string) ([]byte, error) {
		gotDir = dir
		gotArgs = append([]string{name}, args...)
		return []byte("src/a.go    2-sided conflict\r\nb c.txt    3-sided conflict including 1 deletion\n\n"), nil
	}}

	paths, err := l.List(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "/repo", gotDir)
	assert.Equal(t, []string{"jj", "resolve", "--list"}, gotArgs)
	assert.Equal(t, []string{filepath.Join("/repo", "src", "a.go"), filepath.Join("/repo", "b c.txt")}, paths)
}

func TestParseResolveList_PlainPaths(t *testing.T) {
	assert.Equal(t, []string{filepath.Join("r", "x.go")}, parseResolveList("r", "  x.go  \n"))
	assert.Empty(t, parseResolveList("r", ""))
}

func TestFallbackLister(t *testing.T) {
	t.Run("primary ok", func(t *testing.T) {
		fallback := &stubLister{}
		l := &FallbackLister{Primary: &stubLister{paths: []string{"a"}}, Fallback: fallback}
		paths, err := l.List(context.Background(), "/r")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, paths)
		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("primary fails", func(t *testing.T) {
		l := &FallbackLister{
			Primary:  &stubLister{err: errors.New("jj: not found")},
			Fallback: &stubLister{paths: []string{"b"}},
		}
		paths, err := l.List(context.Background(), "/r")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, paths)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fallback := &stubLister{}
		l := &FallbackLister{Primary: &stubLister{err: context.Canceled}, Fallback: fallback}
		_, err := l.List(ctx, "/r")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, fallback.calls)
	})
}

func TestNew(t *testing.T) {
	l, err := New(ModeJJ, nil)
	require.NoError(t, err)
	assert.IsType(t, &FallbackLister{}, l)

	l, err = New(ModeScan, []string{"vendor"})
	require.NoError(t, err)
	assert.Equal(t, &ScanLister{ExcludeDirs: []string{"vendor"}}, l)

	_, err = New("svn", nil)
	assert.Error(t, err)
}
