package symbols

import (
	"fmt"
	"sync/atomic"

	"localfn/internal/ast"
	"localfn/internal/diag"
	"localfn/internal/source"
	"localfn/internal/types"
)

// LocalFunctionSymbol is a function declared inside another function's body.
//
// Only the type parameters and modifiers are computed by NewLocalFunction.
// Parameters and the return type are bound on first access, because binding
// needs the binder of the enclosing body, which may still be under
// construction when the symbol is created. Accessors are safe for concurrent
// use; diagnostics go to an accumulator that the owner drains once.
type LocalFunctionSymbol struct {
	builder   *ast.Builder
	id        ast.ItemID
	decl      *ast.LocalFnItem
	container Container
	binder    Binder

	name       string
	modifiers  DeclModifiers
	typeParams []*TypeParameterSymbol
	extension  bool

	params     atomic.Pointer[paramGroup]
	returnType atomic.Pointer[types.TypeID]
	iterElem   atomic.Uint32

	diags *diag.Accumulator
}

// allowedModifiers maps the modifiers a local function may carry.
var allowedModifiers = map[ast.ModifierKind]DeclModifiers{
	ast.ModAsync:  DeclAsync,
	ast.ModUnsafe: DeclUnsafe,
	ast.ModStatic: DeclStatic,
	ast.ModExtern: DeclExtern,
}

// NewLocalFunction creates the symbol for the local function item id.
// It never calls binder; construction diagnostics are pushed to the
// symbol's accumulator before it returns.
func NewLocalFunction(b *ast.Builder, id ast.ItemID, container Container, binder Binder) (*LocalFunctionSymbol, error) {
	if b == nil {
		return nil, fmt.Errorf("local function %d: nil builder", id)
	}
	if binder == nil {
		return nil, fmt.Errorf("local function %d: nil binder", id)
	}
	decl, ok := b.Items.LocalFn(id)
	if !ok || decl == nil {
		return nil, fmt.Errorf("item %d is not a local function", id)
	}
	s := &LocalFunctionSymbol{
		builder:   b,
		id:        id,
		decl:      decl,
		container: container,
		binder:    binder,
		name:      b.Name(decl.Name),
		diags:     diag.NewAccumulator(),
	}

	scratch := diag.NewBag(diag.Unlimited)
	r := diag.BagReporter{Bag: scratch}
	s.modifiers = s.makeModifiers(r)
	s.typeParams = makeTypeParameters(b, id, decl, container, r)
	s.extension = s.checkExtension(r)
	s.diags.Push(scratch.Items()...)
	return s, nil
}

func (s *LocalFunctionSymbol) makeModifiers(r diag.Reporter) DeclModifiers {
	mods := DeclPrivate
	for _, m := range s.decl.Modifiers {
		flag, ok := allowedModifiers[m.Kind]
		if !ok {
			diag.ReportError(r, diag.SynModifierNotAllowed, m.Span,
				fmt.Sprintf("modifier '%s' is not valid on local function '%s'", m.Kind, s.name)).Emit()
			continue
		}
		mods |= flag
	}
	if s.container != nil && s.container.IsStatic() {
		mods |= DeclStatic
	}
	return mods
}

// checkExtension looks at the syntax only: parameters are not bound yet.
func (s *LocalFunctionSymbol) checkExtension(r diag.Reporter) bool {
	ids := s.builder.Items.GetFnParamIDs(s.decl)
	if len(ids) == 0 {
		return false
	}
	first := s.builder.Items.FnParam(ids[0])
	if first == nil || first.ArgList {
		return false
	}
	sp, ok := first.HasModifier(ast.ParamModThis)
	if !ok {
		return false
	}
	diag.ReportError(r, diag.SemaLocalFnExtension, sp,
		fmt.Sprintf("local function '%s' cannot be an extension method", s.name)).
		WithNote(s.decl.NameSpan, "local function declared here").
		Emit()
	return true
}

func (s *LocalFunctionSymbol) Kind() SymbolKind { return SymbolLocalFunction }
func (s *LocalFunctionSymbol) Name() string     { return s.name }

// Location is the span of the declared name.
func (s *LocalFunctionSymbol) Location() source.Span { return s.decl.NameSpan }

// DeclarationSpan covers the whole declaration.
func (s *LocalFunctionSymbol) DeclarationSpan() source.Span { return s.decl.Span }

func (s *LocalFunctionSymbol) Item() ast.ItemID            { return s.id }
func (s *LocalFunctionSymbol) Syntax() *ast.LocalFnItem    { return s.decl }
func (s *LocalFunctionSymbol) Builder() *ast.Builder       { return s.builder }
func (s *LocalFunctionSymbol) ContainingSymbol() Container { return s.container }

func (s *LocalFunctionSymbol) Modifiers() DeclModifiers { return s.modifiers }

// Accessibility of a local function is always private.
func (s *LocalFunctionSymbol) Accessibility() Accessibility { return AccessPrivate }

func (s *LocalFunctionSymbol) IsStatic() bool { return s.modifiers.Has(DeclStatic) }
func (s *LocalFunctionSymbol) IsAsync() bool  { return s.modifiers.Has(DeclAsync) }
func (s *LocalFunctionSymbol) IsUnsafe() bool { return s.modifiers.Has(DeclUnsafe) }
func (s *LocalFunctionSymbol) IsExtern() bool { return s.modifiers.Has(DeclExtern) }

// TypeParameters are fixed at construction.
func (s *LocalFunctionSymbol) TypeParameters() []*TypeParameterSymbol { return s.typeParams }

// Arity is the number of declared type parameters.
func (s *LocalFunctionSymbol) Arity() int { return len(s.typeParams) }

func (s *LocalFunctionSymbol) IsGeneric() bool { return len(s.typeParams) > 0 }

// IsExtensionMethod reports the structural truth even though the
// declaration is rejected.
func (s *LocalFunctionSymbol) IsExtensionMethod() bool { return s.extension }

// CallingConvention forces parameter binding.
func (s *LocalFunctionSymbol) CallingConvention() CallingConvention {
	conv := ConvDefault
	if !s.IsStatic() {
		conv |= ConvHasThis
	}
	if s.IsVararg() {
		conv |= ConvVarArgs
	}
	return conv
}

// IteratorElementType returns the element type recorded for iterator
// bodies, or NoTypeID.
func (s *LocalFunctionSymbol) IteratorElementType() types.TypeID {
	return types.TypeID(s.iterElem.Load())
}

// SetIteratorElementType records t once. Setting it again with the same type
// is a no-op; a different type panics.
func (s *LocalFunctionSymbol) SetIteratorElementType(t types.TypeID) {
	if t == types.NoTypeID {
		panic(fmt.Errorf("local function '%s': iterator element type must be valid", s.name))
	}
	if s.iterElem.CompareAndSwap(uint32(types.NoTypeID), uint32(t)) {
		return
	}
	if prev := types.TypeID(s.iterElem.Load()); prev != t {
		panic(fmt.Errorf("local function '%s': iterator element type already set to %d, got %d", s.name, prev, t))
	}
}

// SecurityMetadata is never available for local functions.
func (s *LocalFunctionSymbol) SecurityMetadata() any {
	panic(fmt.Errorf("local function '%s': security metadata is unreachable", s.name))
}

// ThisParameter is never available for local functions.
func (s *LocalFunctionSymbol) ThisParameter() *ParameterSymbol {
	panic(fmt.Errorf("local function '%s': explicit this parameter is unreachable", s.name))
}

// ForceComplete binds every lazy fact. Call it before DrainDiagnostics.
func (s *LocalFunctionSymbol) ForceComplete() {
	s.Parameters()
	s.ReturnType()
}

// DrainDiagnostics hands out everything accumulated so far. It is meant to be
// called once per symbol, after ForceComplete.
func (s *LocalFunctionSymbol) DrainDiagnostics() []diag.Diagnostic {
	return s.diags.Drain()
}

// PendingDiagnostics reports how many diagnostics wait for a drain.
func (s *LocalFunctionSymbol) PendingDiagnostics() int {
	return s.diags.Len()
}
