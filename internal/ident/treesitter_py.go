package ident

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// pyExtractor extracts symbols from Python source.
type pyExtractor struct{}

func (e *pyExtractor) Extract(root *tree_sitter.Node, source []byte) []conflict.Symbol {
	var symbols []conflict.Symbol

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, &symbols)
	return symbols
}

func (e *pyExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, symbols *[]conflict.Symbol) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_definition":
		kind := SymbolKindFunction
		if isPyMethod(node) {
			kind = SymbolKindMethod
		}
		if sym := namedSymbol(node, source, kind); sym != nil {
			*symbols = append(*symbols, *sym)
		}

	case "class_definition":
		if sym := namedSymbol(node, source, SymbolKindClass); sym != nil {
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

// isPyMethod reports whether a function definition sits directly in a class
// body, possibly behind decorators.
func isPyMethod(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent != nil && parent.Kind() == "decorated_definition" {
		parent = parent.Parent()
	}
	if parent == nil || parent.Kind() != "block" {
		return false
	}
	owner := parent.Parent()
	return owner != nil && owner.Kind() == "class_definition"
}
