package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/untangle/internal/workspace"
)

func newSqueezeCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "squeeze FILE",
		Short: "Drop the lines all sides of a conflict share",
		Long: `squeeze prints FILE with every two-sided conflict reduced to the lines
that differ. Conflicts whose sides are identical are replaced by their text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSqueeze(cmd, args[0], write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite FILE in place instead of printing it")
	return cmd
}

func runSqueeze(cmd *cobra.Command, path string, write bool) error {
	text, err := workspace.SqueezeFile(path)
	if err != nil {
		return err
	}
	if !write {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  squeezed %s\n", path)
	return nil
}
