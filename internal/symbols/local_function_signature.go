package symbols

import (
	"fmt"
	"strings"

	"localfn/internal/diag"
	"localfn/internal/types"
)

// paramGroup is published as a unit so the parameter list and the vararg
// flag are always observed together.
type paramGroup struct {
	params []*ParameterSymbol
	vararg bool
}

// Parameters returns the bound parameter list, binding it on first use.
//
// Concurrent first callers may each bind; the first published result wins
// and every caller's diagnostics reach the accumulator. Consumers dedup by
// code and span.
func (s *LocalFunctionSymbol) Parameters() []*ParameterSymbol {
	return s.paramGroup().params
}

// IsVararg reports whether the list ends with `__arglist`.
func (s *LocalFunctionSymbol) IsVararg() bool {
	return s.paramGroup().vararg
}

// ParameterTypes lists parameter types in declaration order.
func (s *LocalFunctionSymbol) ParameterTypes() []types.TypeID {
	params := s.Parameters()
	out := make([]types.TypeID, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

func (s *LocalFunctionSymbol) paramGroup() *paramGroup {
	if g := s.params.Load(); g != nil {
		return g
	}
	scratch := diag.NewBag(diag.Unlimited)
	g := s.bindParameters(diag.BagReporter{Bag: scratch})
	if !s.params.CompareAndSwap(nil, g) {
		g = s.params.Load()
	}
	s.diags.Push(scratch.Items()...)
	return g
}

func (s *LocalFunctionSymbol) bindParameters(r diag.Reporter) *paramGroup {
	ids := s.builder.Items.GetFnParamIDs(s.decl)
	params, vararg := s.signatureBinder().BindParameters(ids, r)
	if params == nil {
		params = []*ParameterSymbol{}
	}
	return &paramGroup{params: params, vararg: vararg}
}

// ReturnType returns the bound return type, binding it on first use with the
// same publication rules as Parameters. `var` is rejected: the result is the
// error placeholder and a diagnostic is reported.
func (s *LocalFunctionSymbol) ReturnType() types.TypeID {
	if t := s.returnType.Load(); t != nil {
		return *t
	}
	scratch := diag.NewBag(diag.Unlimited)
	t := s.bindReturnType(diag.BagReporter{Bag: scratch})
	if !s.returnType.CompareAndSwap(nil, &t) {
		t = *s.returnType.Load()
	}
	s.diags.Push(scratch.Items()...)
	return t
}

func (s *LocalFunctionSymbol) bindReturnType(r diag.Reporter) types.TypeID {
	errType := s.binder.Types().Builtins().Error
	expr := s.builder.Types.Get(s.decl.ReturnType)
	if expr == nil {
		diag.ReportError(r, diag.SynExpectType, s.decl.NameSpan,
			fmt.Sprintf("local function '%s' has no return type", s.name)).Emit()
		return errType
	}
	if s.builder.Types.IsInferred(s.decl.ReturnType) {
		diag.ReportError(r, diag.SemaLocalFnInferredReturn, expr.Span,
			fmt.Sprintf("'var' is not a valid return type for local function '%s'", s.name)).Emit()
		return errType
	}
	return s.signatureBinder().BindType(s.decl.ReturnType, r)
}

// ReturnsVoid reports whether the bound return type is void.
func (s *LocalFunctionSymbol) ReturnsVoid() bool {
	return s.binder.Types().IsVoid(s.ReturnType())
}

func (s *LocalFunctionSymbol) signatureBinder() Binder {
	if len(s.typeParams) == 0 {
		return s.binder
	}
	return s.binder.WithTypeParameters(s.typeParams)
}

// Signature renders the bound signature, e.g. `F<T>(T x, __arglist) -> void`.
func (s *LocalFunctionSymbol) Signature() string {
	in := s.binder.Types()
	var sb strings.Builder
	sb.WriteString(s.name)
	if len(s.typeParams) > 0 {
		sb.WriteByte('<')
		for i, tp := range s.typeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tp.Name())
		}
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	params := s.Parameters()
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.IsThis {
			sb.WriteString("this ")
		}
		if p.IsParams {
			sb.WriteString("params ")
		}
		if p.RefKind != RefNone {
			sb.WriteString(p.RefKind.String())
			sb.WriteByte(' ')
		}
		sb.WriteString(types.Label(in, p.Type))
		if p.Label != "" {
			sb.WriteByte(' ')
			sb.WriteString(p.Label)
		}
	}
	if s.IsVararg() {
		if len(params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("__arglist")
	}
	sb.WriteString(") -> ")
	sb.WriteString(types.Label(in, s.ReturnType()))
	return sb.String()
}
