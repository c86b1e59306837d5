// Package findrefs is the reference-search surface every symbol kind plugs
// into. A Finder answers four questions about a symbol; the engine asks them
// in order and merges the answers.
package findrefs

import (
	"context"

	"localfn/internal/source"
	"localfn/internal/symbols"
)

// Options tune a search.
type Options struct {
	// Cascade follows linked symbols (partial counterparts, re-created
	// wrappers of the same declaration).
	Cascade bool
}

// Document is a candidate file to search.
type Document struct {
	File source.FileID
	Path string
}

// Project is a candidate project to search.
type Project struct {
	Name string
}

// Location is one reference found in a document.
type Location struct {
	Span   source.Span
	Symbol symbols.Symbol
}

// Finder is implemented once per symbol kind.
type Finder interface {
	CanFind(sym symbols.Symbol) bool
	CascadeSymbols(ctx context.Context, sym symbols.Symbol, opts Options) ([]symbols.Symbol, error)
	ProjectsToSearch(ctx context.Context, sym symbols.Symbol, opts Options) ([]Project, error)
	DocumentsToSearch(ctx context.Context, sym symbols.Symbol, project Project, opts Options) ([]Document, error)
	FindReferencesInDocument(ctx context.Context, sym symbols.Symbol, doc Document, opts Options) ([]Location, error)
}

// Linker finds symbols that denote the same entity as sym.
type Linker interface {
	LinkedSymbols(ctx context.Context, sym symbols.Symbol) ([]symbols.Symbol, error)
}
