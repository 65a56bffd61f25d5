package mcptools

import "github.com/dusk-indust/untangle/internal/workspace"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// ScanInput is the input for the scan_conflicts MCP tool.
type ScanInput struct{}

// ScanOutput is the result of the scan_conflicts MCP tool.
type ScanOutput struct {
	Result workspace.ScanResult `json:"result"`
}

// PlanInput is the input for the suggest_order MCP tool.
type PlanInput struct{}

// PlanOutput is the result of the suggest_order MCP tool.
type PlanOutput struct {
	Plan workspace.PlanView `json:"plan"`
}

// ConflictRef selects a conflict by id, or by file and line.
type ConflictRef struct {
	ConflictID string `json:"conflictId,omitempty" jsonschema:"conflict id as reported by scan_conflicts or suggest_order"`
	Path       string `json:"path,omitempty" jsonschema:"file path, absolute or relative to the workspace root; used with line when conflictId is empty"`
	Line       int    `json:"line,omitempty" jsonschema:"zero-based line inside the conflict block"`
}

// SuggestInput is the input for the suggest_strategy MCP tool.
type SuggestInput ConflictRef

// SuggestOutput is the result of the suggest_strategy MCP tool.
type SuggestOutput struct {
	Suggestion workspace.Suggestion `json:"suggestion"`
}

// RelatedInput is the input for the related_conflicts MCP tool.
type RelatedInput ConflictRef

// RelatedOutput is the result of the related_conflicts MCP tool.
type RelatedOutput struct {
	Related []workspace.Related `json:"related"`
}

// EditInput is the input for the record_edit MCP tool.
type EditInput struct {
	Path           string `json:"path" jsonschema:"file the edit was applied to"`
	StartLine      int    `json:"startLine" jsonschema:"zero-based first line of the replaced range"`
	StartCharacter int    `json:"startCharacter,omitempty" jsonschema:"zero-based character on startLine"`
	EndLine        int    `json:"endLine" jsonschema:"zero-based line of the position after the replaced range"`
	EndCharacter   int    `json:"endCharacter,omitempty" jsonschema:"zero-based character on endLine"`
	Text           string `json:"text" jsonschema:"replacement text"`
}

// EditOutput is the result of the record_edit MCP tool.
type EditOutput struct {
	Result workspace.EditResult `json:"result"`
}

// SqueezeInput is the input for the squeeze_conflict MCP tool.
type SqueezeInput struct {
	Path  string `json:"path" jsonschema:"file whose conflicts should be squeezed"`
	Write bool   `json:"write,omitempty" jsonschema:"write the squeezed text back to the file"`
}

// SqueezeOutput is the result of the squeeze_conflict MCP tool.
type SqueezeOutput struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed"`
	Written bool   `json:"written"`
}
