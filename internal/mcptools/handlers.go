package mcptools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/untangle/internal/conflict"
	"github.com/dusk-indust/untangle/internal/workspace"
)

// ConflictService holds the workspace used by MCP tool handlers.
type ConflictService struct {
	ws *workspace.Workspace
}

// NewConflictService creates a ConflictService over ws.
func NewConflictService(ws *workspace.Workspace) *ConflictService {
	return &ConflictService{ws: ws}
}

// Scan rescans the workspace.
func (s *ConflictService) Scan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	res, err := s.ws.Scan(ctx)
	if err != nil {
		return nil, ScanOutput{}, err
	}
	return nil, ScanOutput{Result: *res}, nil
}

// Plan returns the suggested resolution order.
func (s *ConflictService) Plan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ PlanInput,
) (*mcp.CallToolResult, PlanOutput, error) {
	plan, err := s.ws.Plan(ctx)
	if err != nil {
		return nil, PlanOutput{}, err
	}
	return nil, PlanOutput{Plan: *plan}, nil
}

// Suggest recommends a strategy for one conflict.
func (s *ConflictService) Suggest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, SuggestOutput, error) {
	id, err := s.resolveRef(ctx, ConflictRef(input))
	if err != nil {
		return nil, SuggestOutput{}, err
	}
	sug, err := s.ws.Suggest(ctx, id)
	if err != nil {
		return nil, SuggestOutput{}, err
	}
	return nil, SuggestOutput{Suggestion: *sug}, nil
}

// Related lists the neighbors of one conflict.
func (s *ConflictService) Related(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedInput,
) (*mcp.CallToolResult, RelatedOutput, error) {
	id, err := s.resolveRef(ctx, ConflictRef(input))
	if err != nil {
		return nil, RelatedOutput{}, err
	}
	related, err := s.ws.Related(ctx, id)
	if err != nil {
		return nil, RelatedOutput{}, err
	}
	return nil, RelatedOutput{Related: related}, nil
}

// RecordEdit reports an edit so resolutions and undos are classified and
// propagated.
func (s *ConflictService) RecordEdit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditInput,
) (*mcp.CallToolResult, EditOutput, error) {
	if input.Path == "" {
		return nil, EditOutput{}, fmt.Errorf("path is required")
	}
	if input.EndLine < input.StartLine {
		return nil, EditOutput{}, fmt.Errorf("endLine %d precedes startLine %d", input.EndLine, input.StartLine)
	}
	res, err := s.ws.ApplyEdit(ctx, input.Path, workspace.Edit{
		Range: conflict.Range{
			Start: conflict.Position{Line: input.StartLine, Character: input.StartCharacter},
			End:   conflict.Position{Line: input.EndLine, Character: input.EndCharacter},
		},
		Text: input.Text,
	})
	if err != nil {
		return nil, EditOutput{}, err
	}
	return nil, EditOutput{Result: *res}, nil
}

// Squeeze renders a file with its conflicts squeezed, optionally writing the
// result back.
func (s *ConflictService) Squeeze(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SqueezeInput,
) (*mcp.CallToolResult, SqueezeOutput, error) {
	if input.Path == "" {
		return nil, SqueezeOutput{}, fmt.Errorf("path is required")
	}
	path := input.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.ws.Root(), path)
	}

	before, err := os.ReadFile(path)
	if err != nil {
		return nil, SqueezeOutput{}, fmt.Errorf("cannot read %s: %w", input.Path, err)
	}
	text, err := workspace.SqueezeFile(path)
	if err != nil {
		return nil, SqueezeOutput{}, err
	}

	out := SqueezeOutput{Text: text, Changed: text != string(before)}
	if input.Write && out.Changed {
		info, err := os.Stat(path)
		if err != nil {
			return nil, SqueezeOutput{}, err
		}
		if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
			return nil, SqueezeOutput{}, fmt.Errorf("write %s: %w", input.Path, err)
		}
		out.Written = true
	}
	return nil, out, nil
}

// resolveRef turns a ConflictRef into a conflict id.
func (s *ConflictService) resolveRef(ctx context.Context, ref ConflictRef) (string, error) {
	if ref.ConflictID != "" {
		return ref.ConflictID, nil
	}
	if ref.Path == "" {
		return "", fmt.Errorf("conflictId or path is required")
	}
	e, err := s.ws.Locate(ctx, ref.Path, ref.Line)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}
