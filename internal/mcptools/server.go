package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewUntangleMCPServer creates an MCP server with the conflict tools
// registered.
func NewUntangleMCPServer(svc *ConflictService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "untangle",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_conflicts",
		Description: "Scan the workspace for jj conflict markers, extract identifiers and build the relation graph between conflicts. Replaces the previous scan.",
	}, svc.Scan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_order",
		Description: "Return groups of related conflicts, largest first, each in the suggested resolution order.",
	}, svc.Plan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_strategy",
		Description: "Recommend how to resolve a conflict (accept a side, accept none, accept all) from how related conflicts were resolved.",
	}, svc.Suggest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "related_conflicts",
		Description: "List the conflicts related to a conflict by shared identifiers, similar text or nesting, with edge weights.",
	}, svc.Related)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_edit",
		Description: "Report an edit to a conflicted file. Replacing a conflict block resolves it and updates the suggestions of related conflicts; restoring the block undoes that.",
	}, svc.RecordEdit)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "squeeze_conflict",
		Description: "Move the lines shared by both sides of each 2-sided conflict in a file outside the markers. Identical sides collapse to their content.",
	}, svc.Squeeze)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts an HTTP server exposing the MCP tools.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
