package findrefs

import (
	"context"
	"fmt"

	"localfn/internal/symbols"
)

// Result is what one search produced.
type Result struct {
	Symbol    symbols.Symbol
	Cascaded  []symbols.Symbol
	Projects  []Project
	Documents []Document
	Locations []Location
}

// Engine dispatches searches to the first finder that accepts a symbol.
type Engine struct {
	finders []Finder
}

func NewEngine(finders ...Finder) *Engine {
	return &Engine{finders: finders}
}

// Search asks the four questions for sym and for every cascaded symbol.
func (e *Engine) Search(ctx context.Context, sym symbols.Symbol, opts Options) (*Result, error) {
	if sym == nil {
		return nil, fmt.Errorf("findrefs: nil symbol")
	}
	f := e.finderFor(sym)
	if f == nil {
		return nil, fmt.Errorf("no finder for %s %q", sym.Kind(), sym.Name())
	}
	res := &Result{Symbol: sym}
	cascaded, err := f.CascadeSymbols(ctx, sym, opts)
	if err != nil {
		return nil, fmt.Errorf("cascade %q: %w", sym.Name(), err)
	}
	res.Cascaded = cascaded

	for _, target := range append([]symbols.Symbol{sym}, cascaded...) {
		tf := e.finderFor(target)
		if tf == nil {
			continue
		}
		if err := e.searchOne(ctx, tf, target, opts, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (e *Engine) searchOne(ctx context.Context, f Finder, sym symbols.Symbol, opts Options, res *Result) error {
	projects, err := f.ProjectsToSearch(ctx, sym, opts)
	if err != nil {
		return fmt.Errorf("projects for %q: %w", sym.Name(), err)
	}
	res.Projects = append(res.Projects, projects...)
	for _, p := range projects {
		docs, err := f.DocumentsToSearch(ctx, sym, p, opts)
		if err != nil {
			return fmt.Errorf("documents for %q in %s: %w", sym.Name(), p.Name, err)
		}
		res.Documents = append(res.Documents, docs...)
		for _, d := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			locs, err := f.FindReferencesInDocument(ctx, sym, d, opts)
			if err != nil {
				return fmt.Errorf("references to %q in %s: %w", sym.Name(), d.Path, err)
			}
			res.Locations = append(res.Locations, locs...)
		}
	}
	return nil
}

func (e *Engine) finderFor(sym symbols.Symbol) Finder {
	if sym == nil {
		return nil
	}
	for _, f := range e.finders {
		if f.CanFind(sym) {
			return f
		}
	}
	return nil
}
