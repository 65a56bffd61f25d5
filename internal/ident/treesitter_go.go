package ident

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// goExtractor extracts symbols from Go source.
type goExtractor struct{}

func (e *goExtractor) Extract(root *tree_sitter.Node, source []byte) []conflict.Symbol {
	var symbols []conflict.Symbol

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, &symbols)
	return symbols
}

func (e *goExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, symbols *[]conflict.Symbol) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_declaration":
		if sym := namedSymbol(node, source, SymbolKindFunction); sym != nil {
			*symbols = append(*symbols, *sym)
		}

	case "method_declaration":
		if sym := namedSymbol(node, source, SymbolKindMethod); sym != nil {
			*symbols = append(*symbols, *sym)
		}

	case "type_spec":
		kind := SymbolKindType
		if typeNode := node.ChildByFieldName("type"); typeNode != nil && typeNode.Kind() == "interface_type" {
			kind = SymbolKindInterface
		}
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

// namedSymbol builds a symbol from a node that has a "name" field child.
// The range spans the whole declaration.
func namedSymbol(node *tree_sitter.Node, source []byte, kind string) *conflict.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Utf8Text(source)
	if name == "" {
		return nil
	}
	return &conflict.Symbol{
		Name:  name,
		Kind:  kind,
		Range: nodeRange(node),
	}
}
