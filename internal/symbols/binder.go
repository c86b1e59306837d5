package symbols

import (
	"localfn/internal/ast"
	"localfn/internal/diag"
	"localfn/internal/types"
)

// Binder resolves declaration syntax to semantic entities. Implementations
// may be called from many goroutines at once and must only report through r.
// A local function never calls its Binder from NewLocalFunction.
type Binder interface {
	// BindParameters binds a parameter list. The `__arglist` marker is not
	// returned as a parameter; it sets vararg instead.
	BindParameters(ids []ast.FnParamID, r diag.Reporter) (params []*ParameterSymbol, vararg bool)
	// BindType binds a type expression.
	BindType(id ast.TypeID, r diag.Reporter) types.TypeID
	// WithTypeParameters returns a binder that also sees tps.
	WithTypeParameters(tps []*TypeParameterSymbol) Binder
	Types() *types.Interner
}
