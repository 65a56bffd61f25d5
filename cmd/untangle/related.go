package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/untangle/internal/workspace"
)

func newRelatedCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "related ID|FILE:LINE",
		Short: "List the conflicts related to one conflict",
		Long: `related lists the neighbors of a conflict in the relation graph with
their edge weights. The conflict is named by its id from "untangle plan" or by
a file and a 1-based line inside it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelated(cmd, flags, args[0])
		},
	}
}

func runRelated(cmd *cobra.Command, flags *globalFlags, ref string) error {
	s, _, err := flags.scanned(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := resolveRef(cmd.Context(), s.ws, ref)
	if err != nil {
		return err
	}
	related, err := s.ws.Related(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	headerColor.Fprintf(out, "Related to [%s]\n", id)
	for _, r := range related {
		idColor.Fprintf(out, "  [%s]", r.ID)
		fmt.Fprintf(out, " %s%s", dotRelative(s.ws.Root(), r.Path), r.Location)
		dimColor.Fprintf(out, " weight %.4g\n", r.Weight)
	}
	return nil
}

// resolveRef accepts a conflict id or FILE:LINE with a 1-based line.
func resolveRef(ctx context.Context, ws *workspace.Workspace, ref string) (string, error) {
	i := strings.LastIndex(ref, ":")
	if i < 0 {
		return ref, nil
	}
	line, err := strconv.Atoi(ref[i+1:])
	if err != nil || line < 1 {
		return "", fmt.Errorf("invalid line in %q", ref)
	}
	e, err := ws.Locate(ctx, ref[:i], line-1)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}
