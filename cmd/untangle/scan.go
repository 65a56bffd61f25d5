package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/untangle/internal/workspace"
)

func newScanCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the working copy for conflicts and summarize the relation graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, flags)
		},
	}
}

func runScan(cmd *cobra.Command, flags *globalFlags) error {
	progress := workspace.NewProgressReporter()
	s, err := flags.openSession(cmd, progress.Emit)
	if err != nil {
		return err
	}
	defer s.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		renderProgress(cmd, progress.Subscribe(), s.cfg.Verbose)
	}()

	res, err := s.ws.Scan(cmd.Context())
	progress.Close()
	wg.Wait()
	if err != nil {
		return err
	}
	reportFileErrors(cmd, res)

	out := cmd.OutOrStdout()
	headerColor.Fprintf(out, "Scan %s\n", res.ScanID)
	for _, path := range res.Files {
		fmt.Fprintf(out, "  %s\n", dotRelative(s.ws.Root(), path))
	}
	fmt.Fprintf(out, "%d conflicts in %d files, %d relations (%d groups) in %s\n",
		res.Conflicts, len(res.Files), res.Stats.EdgeCount, res.Stats.ComponentCount, res.Duration.Round(time.Millisecond))
	return nil
}

// renderProgress drives a progress bar over the extraction stage. In verbose
// mode every event is also printed as a status line.
func renderProgress(cmd *cobra.Command, events <-chan workspace.ProgressEvent, verbose bool) {
	var bar *pb.ProgressBar
	for ev := range events {
		if verbose {
			fmt.Fprintln(cmd.ErrOrStderr(), workspace.FormatProgress(ev))
		}
		switch ev.Stage {
		case workspace.StageExtracting:
			if bar == nil {
				bar = pb.New(ev.Total)
				bar.SetWriter(cmd.ErrOrStderr())
				bar.Set("prefix", "extracting ")
				bar.Start()
			}
			bar.SetCurrent(int64(ev.Done))
		case workspace.StageBuilding, workspace.StageDone:
			if bar != nil {
				bar.Finish()
				bar = nil
			}
		}
	}
	if bar != nil {
		bar.Finish()
	}
}
