package driver

import (
	"localfn/internal/ast"
	"localfn/internal/diag"
	"localfn/internal/findrefs"
	"localfn/internal/observ"
	"localfn/internal/project"
	"localfn/internal/sema"
	"localfn/internal/source"
	"localfn/internal/symbols"
	"localfn/internal/types"
)

// BindOptions содержит опции прогона
type BindOptions struct {
	MaxDiagnostics int
	// Jobs bounds how many symbols are bound at once; <= 0 means GOMAXPROCS.
	Jobs int
	// Race is the number of goroutines forcing each symbol at the same time.
	Race          int
	EnableTimings bool
	Cache         *DiskCache
	Phases        PhaseObserver
	Progress      ProgressSink
}

// Fixture is one loaded declaration file.
type Fixture struct {
	Path   string
	FileID source.FileID
	Hash   project.Digest
}

// SymbolResult holds a bound local function and the diagnostics drained from it.
type SymbolResult struct {
	Path        string
	Method      *symbols.OuterMethod
	Symbol      *symbols.LocalFunctionSymbol
	Signature   string
	Diagnostics []diag.Diagnostic
}

// QualifiedName is "Method.Local".
func (r *SymbolResult) QualifiedName() string {
	return r.Method.Name() + "." + r.Symbol.Name()
}

// HasErrors reports whether any drained diagnostic is an error.
func (r *SymbolResult) HasErrors() bool {
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// BindResult is the outcome of Bind.
type BindResult struct {
	FileSet  *source.FileSet
	Builder  *ast.Builder
	Types    *types.Interner
	Binder   *sema.SignatureBinder
	Linker   *findrefs.DeclarationLinker
	Fixtures []Fixture
	Methods  []*symbols.OuterMethod
	Symbols  []SymbolResult
	Bag      *diag.Bag
	Timing   *observ.Report
	Key      project.Digest
	// CacheHit is set when every symbol's Signature and Diagnostics came from
	// the disk cache. Their lazy facts are then not forced by Bind.
	CacheHit bool
}

// Signatures returns the display signature of every symbol in declaration order.
func (r *BindResult) Signatures() []string {
	out := make([]string, 0, len(r.Symbols))
	for i := range r.Symbols {
		out = append(out, r.Symbols[i].Signature)
	}
	return out
}
