package ident

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// rsExtractor extracts symbols from Rust source.
type rsExtractor struct{}

func (e *rsExtractor) Extract(root *tree_sitter.Node, source []byte) []conflict.Symbol {
	var symbols []conflict.Symbol

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, &symbols)
	return symbols
}

func (e *rsExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, symbols *[]conflict.Symbol) {
	node := cursor.Node()

	var kind string
	switch node.Kind() {
	case "function_item":
		kind = SymbolKindFunction
		if isRustImplMember(node) {
			kind = SymbolKindMethod
		}
	case "struct_item", "type_item", "union_item":
		kind = SymbolKindType
	case "enum_item":
		kind = SymbolKindEnum
	case "trait_item":
		kind = SymbolKindInterface
	}
	if kind != "" {
		if sym := namedSymbol(node, source, kind); sym != nil {
			*symbols = append(*symbols, *sym)
		}
	}

	if cursor.GotoFirstChild() {
		e.walk(cursor, source, symbols)
		for cursor.GotoNextSibling() {
			e.walk(cursor, source, symbols)
		}
		cursor.GotoParent()
	}
}

// isRustImplMember reports whether a function item is declared in the body
// of an impl block.
func isRustImplMember(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "declaration_list" {
		return false
	}
	owner := parent.Parent()
	return owner != nil && owner.Kind() == "impl_item"
}
