package ident

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("ident: registry closed")

// symbolExtractor extracts document symbols from a parsed tree-sitter AST.
type symbolExtractor interface {
	Extract(root *tree_sitter.Node, source []byte) []conflict.Symbol
}

// grammar describes one supported language.
type grammar struct {
	load      func() *tree_sitter.Language
	symbols   symbolExtractor
	identKind map[string]bool // node kinds reported as identifiers
}

var grammars = map[Language]grammar{
	LangGo: {
		load:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_go.Language()) },
		symbols:   &goExtractor{},
		identKind: kinds("identifier", "type_identifier", "field_identifier", "package_identifier"),
	},
	LangTypeScript: {
		load:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()) },
		symbols:   &tsExtractor{},
		identKind: kinds("identifier", "type_identifier", "property_identifier", "shorthand_property_identifier"),
	},
	LangTSX: {
		load:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()) },
		symbols:   &tsExtractor{},
		identKind: kinds("identifier", "type_identifier", "property_identifier", "shorthand_property_identifier"),
	},
	LangPython: {
		load:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_python.Language()) },
		symbols:   &pyExtractor{},
		identKind: kinds("identifier"),
	},
	LangRust: {
		load:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_rust.Language()) },
		symbols:   &rsExtractor{},
		identKind: kinds("identifier", "type_identifier", "field_identifier"),
	},
}

func kinds(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// entry is a lazily created parser for one language. A tree-sitter parser
// is not safe for concurrent use, so calls for the same language are
// serialized; different languages parse in parallel.
type entry struct {
	once   sync.Once
	mu     sync.Mutex
	parser *tree_sitter.Parser
	err    error
}

// TreeSitter is the parser registry. Parsers are created on first use and
// released by Close.
type TreeSitter struct {
	mu      sync.Mutex
	enabled map[Language]bool
	entries map[Language]*entry
	closed  bool
}

// NewTreeSitter returns a registry for langs, or for every supported
// language when langs is empty.
func NewTreeSitter(langs ...Language) *TreeSitter {
	if len(langs) == 0 {
		langs = AllLanguages
	}
	enabled := make(map[Language]bool, len(langs))
	for _, l := range langs {
		if _, ok := grammars[l]; ok {
			enabled[l] = true
		}
	}
	return &TreeSitter{enabled: enabled, entries: make(map[Language]*entry)}
}

// Supports reports whether lang is enabled in this registry.
func (ts *TreeSitter) Supports(lang Language) bool {
	return ts.enabled[lang]
}

// SupportedLanguages returns the enabled languages in a stable order.
func (ts *TreeSitter) SupportedLanguages() []Language {
	var out []Language
	for _, l := range AllLanguages {
		if ts.enabled[l] {
			out = append(out, l)
		}
	}
	return out
}

// Extract returns the identifiers in text in source order. A node is
// captured as CaptureDef when it is the name of its parent declaration and
// as CaptureUse otherwise. Unsupported languages yield no identifiers and
// no error.
func (ts *TreeSitter) Extract(ctx context.Context, lang Language, text string) ([]conflict.Identifier, error) {
	occ, err := ts.Occurrences(ctx, lang, []byte(text))
	if err != nil || len(occ) == 0 {
		return nil, err
	}
	out := make([]conflict.Identifier, len(occ))
	for i, o := range occ {
		out[i] = o.Identifier
	}
	return out, nil
}

// Occurrences is Extract with the location of every identifier.
func (ts *TreeSitter) Occurrences(ctx context.Context, lang Language, source []byte) ([]Occurrence, error) {
	var out []Occurrence
	err := ts.withTree(ctx, lang, source, func(root *tree_sitter.Node, g grammar) {
		out = collectIdentifiers(root, source, g.identKind)
	})
	return out, err
}

// Symbols returns the document symbols declared in source, each with the
// references found in the same document.
func (ts *TreeSitter) Symbols(ctx context.Context, lang Language, source []byte) ([]conflict.Symbol, error) {
	var symbols []conflict.Symbol
	var occ []Occurrence
	err := ts.withTree(ctx, lang, source, func(root *tree_sitter.Node, g grammar) {
		symbols = g.symbols.Extract(root, source)
		occ = collectIdentifiers(root, source, g.identKind)
	})
	if err != nil {
		return nil, err
	}
	return References(symbols, occ), nil
}

// Close releases every parser. Later calls return ErrClosed.
func (ts *TreeSitter) Close() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return nil
	}
	ts.closed = true
	for _, e := range ts.entries {
		e.mu.Lock()
		if e.parser != nil {
			e.parser.Close()
			e.parser = nil
		}
		e.mu.Unlock()
	}
	return nil
}

// lookup returns the entry for lang, creating it on first use.
func (ts *TreeSitter) lookup(lang Language) (*entry, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return nil, ErrClosed
	}
	e, ok := ts.entries[lang]
	if !ok {
		e = &entry{}
		ts.entries[lang] = e
	}
	return e, nil
}

// withTree parses source with the parser for lang and calls fn with the
// root node while holding the language's lock.
func (ts *TreeSitter) withTree(ctx context.Context, lang Language, source []byte, fn func(*tree_sitter.Node, grammar)) error {
	if !ts.enabled[lang] {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g := grammars[lang]
	e, err := ts.lookup(lang)
	if err != nil {
		return err
	}

	e.once.Do(func() {
		p := tree_sitter.NewParser()
		if err := p.SetLanguage(g.load()); err != nil {
			p.Close()
			e.err = fmt.Errorf("set language %s: %w", lang, err)
			return
		}
		e.parser = p
	})
	if e.err != nil {
		return e.err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.parser == nil {
		return ErrClosed
	}
	tree := e.parser.Parse(source, nil)
	if tree == nil {
		return fmt.Errorf("tree-sitter returned nil tree for %s", lang)
	}
	defer tree.Close()

	fn(tree.RootNode(), g)
	return nil
}

// nodeRange converts a node's span to a zero-based Range.
func nodeRange(node *tree_sitter.Node) conflict.Range {
	start, end := node.StartPosition(), node.EndPosition()
	return conflict.Range{
		Start: conflict.Position{Line: int(start.Row), Character: int(start.Column)},
		End:   conflict.Position{Line: int(end.Row), Character: int(end.Column)},
	}
}
