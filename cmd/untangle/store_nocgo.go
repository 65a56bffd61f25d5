//go:build !cgo

package main

import (
	"fmt"

	"github.com/dusk-indust/untangle/internal/graph"
)

func openGraphStore(path string) (graph.Store, error) {
	return nil, fmt.Errorf("graph database %s requires a cgo build", path)
}
