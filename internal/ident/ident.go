// Package ident extracts identifiers and document symbols from source text
// with tree-sitter. It serves two collaborators of a scan: the identifier
// extractor used for dependency scoring and the symbol service used to
// enrich conflict sides.
package ident

import (
	"path/filepath"
	"strings"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// Language identifies a grammar.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangPython     Language = "python"
	LangRust       Language = "rust"
)

// AllLanguages lists every supported grammar.
var AllLanguages = []Language{LangGo, LangTypeScript, LangTSX, LangPython, LangRust}

// Symbol kinds reported by Symbols.
const (
	SymbolKindFunction  = "function"
	SymbolKindMethod    = "method"
	SymbolKindType      = "type"
	SymbolKindInterface = "interface"
	SymbolKindClass     = "class"
	SymbolKindEnum      = "enum"
)

// Capture kinds reported by Extract.
const (
	CaptureDef = "def"
	CaptureUse = "use"
)

// DetectLanguage maps a file extension to a grammar. ok is false for files
// no grammar handles.
func DetectLanguage(path string) (lang Language, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return LangGo, true
	case ".ts", ".mts", ".cts", ".js", ".mjs", ".cjs":
		return LangTypeScript, true
	case ".tsx", ".jsx":
		return LangTSX, true
	case ".py", ".pyi":
		return LangPython, true
	case ".rs":
		return LangRust, true
	default:
		return "", false
	}
}

// ParseLanguage accepts a language name as written in configuration.
func ParseLanguage(name string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "go", "golang":
		return LangGo, true
	case "typescript", "ts", "javascript", "js":
		return LangTypeScript, true
	case "tsx", "jsx":
		return LangTSX, true
	case "python", "py":
		return LangPython, true
	case "rust", "rs":
		return LangRust, true
	default:
		return "", false
	}
}

// References fills in each symbol's references: the ranges of every
// identifier occurrence in occurrences with the symbol's name.
func References(symbols []conflict.Symbol, occurrences []Occurrence) []conflict.Symbol {
	byName := make(map[string][]conflict.Range)
	for _, o := range occurrences {
		byName[o.Text] = append(byName[o.Text], o.Range)
	}
	for i := range symbols {
		symbols[i].References = byName[symbols[i].Name]
	}
	return symbols
}

// Occurrence is one identifier with its location in the parsed text.
type Occurrence struct {
	conflict.Identifier
	Range conflict.Range
}
