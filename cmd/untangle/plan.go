package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlanCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Suggest an order in which to resolve the conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, flags)
		},
	}
}

func runPlan(cmd *cobra.Command, flags *globalFlags) error {
	s, _, err := flags.scanned(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := s.ws.Plan(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rank := 1
	for i, group := range plan.Groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		headerColor.Fprintf(out, "Group %d", i+1)
		dimColor.Fprintf(out, " (%d conflicts)\n", len(group))
		for _, e := range group {
			printEntry(out, s.ws.Root(), rank, e)
			rank++
		}
	}
	if !plan.Ordered {
		fmt.Fprintln(out)
		for _, cycle := range plan.Cycles {
			warnColor.Fprintf(out, "cycle: %s\n", strings.Join(cycle, " -> "))
		}
		fmt.Fprintln(out, "Groups with cycles keep discovery order.")
	}
	return nil
}
