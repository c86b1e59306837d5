package findrefs

import (
	"context"

	"localfn/internal/symbols"
)

// LocalFunctionFinder serves local functions. They are visible only inside
// the enclosing body, so there is nothing to search across documents or
// projects; cascading is left to the linker.
type LocalFunctionFinder struct {
	Linker Linker
}

var _ Finder = (*LocalFunctionFinder)(nil)

func (f *LocalFunctionFinder) CanFind(sym symbols.Symbol) bool {
	return sym != nil && sym.Kind() == symbols.SymbolLocalFunction
}

func (f *LocalFunctionFinder) CascadeSymbols(ctx context.Context, sym symbols.Symbol, opts Options) ([]symbols.Symbol, error) {
	if !opts.Cascade || f.Linker == nil {
		return nil, nil
	}
	return f.Linker.LinkedSymbols(ctx, sym)
}

func (f *LocalFunctionFinder) ProjectsToSearch(context.Context, symbols.Symbol, Options) ([]Project, error) {
	return nil, nil
}

func (f *LocalFunctionFinder) DocumentsToSearch(context.Context, symbols.Symbol, Project, Options) ([]Document, error) {
	return nil, nil
}

func (f *LocalFunctionFinder) FindReferencesInDocument(context.Context, symbols.Symbol, Document, Options) ([]Location, error) {
	return nil, nil
}
