package sema

import (
	"fmt"

	"fortio.org/safecast"

	"localfn/internal/ast"
	"localfn/internal/diag"
	"localfn/internal/source"
	"localfn/internal/symbols"
	"localfn/internal/types"
)

// SignatureBinder binds local function signatures: parameter lists and type
// expressions. It is read-only after construction apart from the types
// interner, which is safe for concurrent use, so one binder may serve many
// goroutines.
type SignatureBinder struct {
	builder    *ast.Builder
	types      *types.Interner
	named      map[source.StringID]types.TypeID
	typeParams map[source.StringID]types.TypeID
}

var _ symbols.Binder = (*SignatureBinder)(nil)

// NewSignatureBinder creates a binder that knows the builtin types and the
// user-declared named types.
func NewSignatureBinder(b *ast.Builder, in *types.Interner, named []string) *SignatureBinder {
	sb := &SignatureBinder{
		builder: b,
		types:   in,
		named:   make(map[source.StringID]types.TypeID, len(builtinNames)+len(named)),
	}
	for name, desc := range builtinNames {
		sb.named[b.StringsInterner.Intern(name)] = in.Intern(desc)
	}
	for _, name := range named {
		id := b.StringsInterner.Intern(name)
		if _, exists := sb.named[id]; exists {
			continue
		}
		sb.named[id] = in.Intern(types.MakeNamed(id))
	}
	return sb
}

var builtinNames = map[string]types.Type{
	"void":    {Kind: types.KindVoid},
	"bool":    {Kind: types.KindBool},
	"string":  {Kind: types.KindString},
	"object":  {Kind: types.KindObject},
	"int":     types.MakeInt(types.WidthAny),
	"int8":    types.MakeInt(types.Width8),
	"int16":   types.MakeInt(types.Width16),
	"int32":   types.MakeInt(types.Width32),
	"int64":   types.MakeInt(types.Width64),
	"uint":    types.MakeUint(types.WidthAny),
	"uint8":   types.MakeUint(types.Width8),
	"uint16":  types.MakeUint(types.Width16),
	"uint32":  types.MakeUint(types.Width32),
	"uint64":  types.MakeUint(types.Width64),
	"float":   types.MakeFloat(types.WidthAny),
	"float32": types.MakeFloat(types.Width32),
	"float64": types.MakeFloat(types.Width64),
}

func (sb *SignatureBinder) Types() *types.Interner { return sb.types }

// WithTypeParameters returns a copy that resolves tps by name before any
// other type. When names repeat, the first declaration wins.
func (sb *SignatureBinder) WithTypeParameters(tps []*symbols.TypeParameterSymbol) symbols.Binder {
	if len(tps) == 0 {
		return sb
	}
	next := *sb
	next.typeParams = make(map[source.StringID]types.TypeID, len(sb.typeParams)+len(tps))
	for name, id := range sb.typeParams {
		next.typeParams[name] = id
	}
	for _, tp := range tps {
		if _, exists := next.typeParams[tp.NameID()]; exists {
			continue
		}
		next.typeParams[tp.NameID()] = sb.types.Intern(types.MakeTypeParam(tp.NameID(), tp.Ordinal(), tp.Owner()))
	}
	return &next
}

// BindType resolves a type expression. Failures are reported and yield the
// error placeholder.
func (sb *SignatureBinder) BindType(id ast.TypeID, r diag.Reporter) types.TypeID {
	errType := sb.types.Builtins().Error
	expr := sb.builder.Types.Get(id)
	if expr == nil {
		return errType
	}
	switch expr.Kind {
	case ast.TypeExprPath:
		if ty, ok := sb.typeParams[expr.Name]; ok {
			return ty
		}
		if ty, ok := sb.named[expr.Name]; ok {
			return ty
		}
		diag.ReportError(r, diag.SemaUnresolvedSymbol, expr.Span,
			fmt.Sprintf("type '%s' could not be found", sb.builder.Name(expr.Name))).Emit()
		return errType
	case ast.TypeExprInferred:
		diag.ReportError(r, diag.SynExpectType, expr.Span, "'var' is not valid in this position").Emit()
		return errType
	case ast.TypeExprArray, ast.TypeExprNullable:
		elem := sb.BindType(expr.Elem, r)
		if elem == errType {
			return errType
		}
		if sb.types.IsVoid(elem) {
			diag.ReportError(r, diag.SemaError, expr.Span, "'void' cannot be used as an element type").Emit()
			return errType
		}
		if expr.Kind == ast.TypeExprArray {
			return sb.types.Intern(types.MakeArray(elem))
		}
		return sb.types.Intern(types.MakeNullable(elem))
	default:
		return errType
	}
}

// BindParameters binds a parameter list in declaration order.
func (sb *SignatureBinder) BindParameters(ids []ast.FnParamID, r diag.Reporter) ([]*symbols.ParameterSymbol, bool) {
	if len(ids) == 0 {
		return nil, false
	}
	params := make([]*symbols.ParameterSymbol, 0, len(ids))
	seen := make(map[source.StringID]source.Span, len(ids))
	vararg := false
	for idx, id := range ids {
		syn := sb.builder.Items.FnParam(id)
		if syn == nil {
			continue
		}
		if syn.ArgList {
			if idx != len(ids)-1 {
				diag.ReportError(r, diag.SynVariadicMustBeLast, syn.Span, "'__arglist' must be the last parameter").Emit()
			}
			vararg = true
			continue
		}
		ordinal, err := safecast.Conv[uint32](len(params))
		if err != nil {
			panic(fmt.Errorf("param ordinal overflow: %w", err))
		}
		p := &symbols.ParameterSymbol{
			Name:    syn.Name,
			Label:   sb.builder.Name(syn.Name),
			Ordinal: ordinal,
			Type:    sb.BindType(syn.Type, r),
			Span:    syn.Span,
		}
		sb.applyParamModifiers(p, syn, idx, r)
		if sb.types.IsVoid(p.Type) {
			diag.ReportError(r, diag.SemaError, syn.Span,
				fmt.Sprintf("parameter '%s' cannot have type 'void'", p.Label)).Emit()
			p.Type = sb.types.Builtins().Error
		}
		if syn.Name != source.NoStringID {
			if prev, dup := seen[syn.Name]; dup {
				diag.ReportError(r, diag.SemaDuplicateParam, syn.NameSpan,
					fmt.Sprintf("duplicate parameter name '%s'", p.Label)).
					WithNote(prev, "previous parameter here").
					Emit()
			} else {
				seen[syn.Name] = syn.NameSpan
			}
		}
		params = append(params, p)
	}
	return params, vararg
}

func (sb *SignatureBinder) applyParamModifiers(p *symbols.ParameterSymbol, syn *ast.FnParam, idx int, r diag.Reporter) {
	for _, m := range syn.Modifiers {
		switch m.Kind {
		case ast.ParamModThis:
			if idx != 0 {
				diag.ReportError(r, diag.SemaThisParamNotFirst, m.Span,
					"'this' modifier is only valid on the first parameter").Emit()
				continue
			}
			p.IsThis = true
		case ast.ParamModParams:
			if tt, ok := sb.types.Lookup(p.Type); ok && tt.Kind != types.KindArray && !sb.types.IsError(p.Type) {
				diag.ReportError(r, diag.SemaError, m.Span, "'params' parameter must be an array").Emit()
			}
			p.IsParams = true
		case ast.ParamModRef, ast.ParamModOut, ast.ParamModIn:
			if p.RefKind != symbols.RefNone {
				diag.ReportError(r, diag.SynModifierNotAllowed, m.Span,
					fmt.Sprintf("modifier '%s' conflicts with '%s'", m.Kind, p.RefKind)).Emit()
				continue
			}
			p.RefKind = refKindOf(m.Kind)
		}
	}
}

func refKindOf(k ast.ParamModifierKind) symbols.RefKind {
	switch k {
	case ast.ParamModRef:
		return symbols.RefRef
	case ast.ParamModOut:
		return symbols.RefOut
	case ast.ParamModIn:
		return symbols.RefIn
	default:
		return symbols.RefNone
	}
}
