package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/untangle/internal/export"
)

func newGraphCommand(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the relation graph as a Mermaid diagram or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, flags, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "output format: mermaid or json")
	return cmd
}

func runGraph(cmd *cobra.Command, flags *globalFlags, format string) error {
	if format != "mermaid" && format != "json" {
		return fmt.Errorf("unknown format %q (want mermaid or json)", format)
	}
	s, _, err := flags.scanned(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if format == "mermaid" {
		// Rendered from the stored snapshot the scan just saved.
		mermaid, err := export.GenerateMermaid(cmd.Context(), s.store)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, mermaid)
		return err
	}

	data, err := export.ExportWorkspace(cmd.Context(), s.ws)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = out.Write(append(raw, '\n'))
	return err
}
