package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/untangle/internal/mcptools"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run as an MCP server over stdio, or HTTP with --http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "serve streamable HTTP on this address instead of stdio")
	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, addr string) error {
	s, err := flags.openSession(cmd, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	// Tools work without it; scan_conflicts retries.
	if res, err := s.ws.Scan(ctx); err != nil {
		log.Printf("untangle: initial scan: %v", err)
	} else {
		log.Printf("untangle: initial scan found %d conflicts in %d files", res.Conflicts, len(res.Files))
	}

	server := mcptools.NewUntangleMCPServer(mcptools.NewConflictService(s.ws))
	if addr != "" {
		log.Printf("untangle: serving MCP on %s", addr)
		return mcptools.RunHTTP(ctx, server, addr)
	}
	return mcptools.RunStdio(ctx, server)
}
