// Package lister finds files that hold jj conflict markers.
package lister

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// Lister returns the absolute paths of conflicted files under root.
type Lister interface {
	List(ctx context.Context, root string) ([]string, error)
}

// Compile-time checks.
var (
	_ Lister = (*JJLister)(nil)
	_ Lister = (*ScanLister)(nil)
	_ Lister = (*FallbackLister)(nil)
)

// RunFunc runs a command in dir and returns its standard output.
type RunFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// JJLister asks jj for the conflicted paths of the working copy.
type JJLister struct {
	// Binary is the jj executable; "jj" when empty.
	Binary string
	run    RunFunc
}

// NewJJLister returns a JJLister that runs the jj binary on PATH.
func NewJJLister() *JJLister {
	return &JJLister{Binary: "jj", run: runCommand}
}

// conflictSuffix matches the "2-sided conflict" column jj prints after each
// path.
var conflictSuffix = regexp.MustCompile(`\s{2,}\d+-sided conflict.*$`)

// List runs `jj resolve --list` in root.
func (l *JJLister) List(ctx context.Context, root string) ([]string, error) {
	bin := l.Binary
	if bin == "" {
		bin = "jj"
	}
	run := l.run
	if run == nil {
		run = runCommand
	}
	out, err := run(ctx, root, bin, "resolve", "--list")
	if err != nil {
		return nil, err
	}
	return parseResolveList(root, string(out)), nil
}

func parseResolveList(root, out string) []string {
	var paths []string
	for _, line := range conflict.SplitLines(out) {
		line = strings.TrimSpace(conflictSuffix.ReplaceAllString(strings.TrimRight(line, "\r\n"), ""))
		if line == "" {
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(line)))
	}
	return paths
}

// ScanLister walks the directory tree and keeps files that contain a
// conflict start marker. Entries whose name starts with "." are skipped, as
// are directories named in ExcludeDirs.
type ScanLister struct {
	ExcludeDirs []string
}

// NewScanLister returns a ScanLister skipping excludeDirs.
func NewScanLister(excludeDirs ...string) *ScanLister {
	return &ScanLister{ExcludeDirs: excludeDirs}
}

// List walks root in lexical order.
func (l *ScanLister) List(ctx context.Context, root string) ([]string, error) {
	exclude := make(map[string]bool, len(l.ExcludeDirs))
	for _, d := range l.ExcludeDirs {
		exclude[d] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || (d.IsDir() && exclude[name]) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if conflict.ContainsConflict(string(data)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return paths, nil
}

// FallbackLister tries Primary and, when it fails, logs the failure and
// returns Fallback's result instead.
type FallbackLister struct {
	Primary  Lister
	Fallback Lister
}

// List implements Lister.
func (l *FallbackLister) List(ctx context.Context, root string) ([]string, error) {
	paths, err := l.Primary.List(ctx, root)
	if err == nil {
		return paths, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	log.Printf("lister: primary listing failed, falling back to file scan: %v", err)
	return l.Fallback.List(ctx, root)
}

// Mode selects how conflicted files are found.
type Mode string

const (
	// ModeJJ uses `jj resolve --list`, falling back to a file scan.
	ModeJJ Mode = "jj-cli"
	// ModeScan only scans files.
	ModeScan Mode = "file-scan"
)

// New returns the Lister for mode.
func New(mode Mode, excludeDirs []string) (Lister, error) {
	scan := NewScanLister(excludeDirs...)
	switch mode {
	case ModeJJ, "":
		return &FallbackLister{Primary: NewJJLister(), Fallback: scan}, nil
	case ModeScan:
		return scan, nil
	default:
		return nil, fmt.Errorf("lister: unknown scan mode %q", mode)
	}
}
