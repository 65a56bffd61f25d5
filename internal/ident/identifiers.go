package ident

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// collectIdentifiers walks the tree in source order and returns every node
// whose kind is in identKind.
func collectIdentifiers(root *tree_sitter.Node, source []byte, identKind map[string]bool) []Occurrence {
	var out []Occurrence
	cursor := root.Walk()
	defer cursor.Close()
	walkIdentifiers(cursor, source, identKind, &out)
	return out
}

func walkIdentifiers(cursor *tree_sitter.TreeCursor, source []byte, identKind map[string]bool, out *[]Occurrence) {
	node := cursor.Node()
	if identKind[node.Kind()] {
		if text := node.Utf8Text(source); text != "" {
			kind := CaptureUse
			if isDeclarationName(node) {
				kind = CaptureDef
			}
			*out = append(*out, Occurrence{
				Identifier: conflict.Identifier{Kind: kind, Text: text},
				Range:      nodeRange(node),
			})
		}
	}

	if cursor.GotoFirstChild() {
		walkIdentifiers(cursor, source, identKind, out)
		for cursor.GotoNextSibling() {
			walkIdentifiers(cursor, source, identKind, out)
		}
		cursor.GotoParent()
	}
}

// isDeclarationName reports whether node is the "name" field of its parent.
func isDeclarationName(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	name := parent.ChildByFieldName("name")
	return name != nil && name.StartByte() == node.StartByte() && name.EndByte() == node.EndByte()
}
