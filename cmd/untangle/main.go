package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "untangle",
		Short: "Plan and propagate resolutions of jj merge conflicts",
		Long: `untangle scans a working copy for jj conflict markers, relates the
conflicts to each other by shared identifiers, textual similarity and brace
nesting, and suggests an order in which to resolve them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root)

	root.AddCommand(
		newInitCommand(&flags),
		newScanCommand(&flags),
		newPlanCommand(&flags),
		newRelatedCommand(&flags),
		newSqueezeCommand(),
		newGraphCommand(&flags),
		newServeCommand(&flags),
		newVersionCommand(),
	)
	return root
}
