//go:build cgo

package main

import (
	"fmt"

	"github.com/dusk-indust/untangle/internal/graph"
)

func openGraphStore(path string) (graph.Store, error) {
	store, err := graph.NewKuzuFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	return store, nil
}
