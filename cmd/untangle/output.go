package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/dusk-indust/untangle/internal/workspace"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	idColor     = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)
)

// dotRelative returns a display path relative to the project root, prefixed
// with "./".
func dotRelative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return "./" + rel
}

// printEntry writes one conflict as "[id] ./path (start-end) strategy".
func printEntry(w io.Writer, root string, rank int, e workspace.Entry) {
	fmt.Fprintf(w, "  %2d. ", rank)
	idColor.Fprintf(w, "[%s]", e.ID)
	fmt.Fprintf(w, " %s%s", dotRelative(root, e.Path), e.Range)
	if e.Resolved {
		okColor.Fprintf(w, " %s", e.Strategy.Display)
	}
	fmt.Fprintln(w)
}
