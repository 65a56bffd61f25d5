package ident

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// tsExtractor extracts symbols from TypeScript and JavaScript source.
type tsExtractor struct{}

func (e *tsExtractor) Extract(root *tree_sitter.Node, source []byte) []conflict.Symbol {
	var symbols []conflict.Symbol

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, &symbols)
	return symbols
}

func (e *tsExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, symbols *[]conflict.Symbol) {
	node := cursor.Node()

	var kind string
	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		kind = SymbolKindFunction
	case "method_definition":
		kind = SymbolKindMethod
	case "class_declaration":
		kind = SymbolKindClass
	case "interface_declaration":
		kind = SymbolKindInterface
	case "type_alias_declaration":
		kind = SymbolKindType
	case "enum_declaration":
		kind = SymbolKindEnum
	case "lexical_declaration", "variable_declaration":
		*symbols = append(*symbols, e.extractArrowFunctions(node, source)...)
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

// extractArrowFunctions looks for function values inside a declaration
// (e.g., "const foo = () => { ... }").
func (e *tsExtractor) extractArrowFunctions(node *tree_sitter.Node, source []byte) []conflict.Symbol {
	var result []conflict.Symbol

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		valueNode := child.ChildByFieldName("value")
		if valueNode == nil {
			continue
		}
		switch valueNode.Kind() {
		case "arrow_function", "function_expression", "function":
		default:
			continue
		}
		if sym := namedSymbol(child, source, SymbolKindFunction); sym != nil {
			result = append(result, *sym)
		}
	}
	return result
}
