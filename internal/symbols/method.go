package symbols

import (
	"localfn/internal/ast"
	"localfn/internal/source"
)

// OuterMethod is the enclosing method of local functions. It is built once
// per method item by the driver and never changes afterwards.
type OuterMethod struct {
	builder    *ast.Builder
	id         ast.ItemID
	decl       *ast.MethodItem
	name       string
	typeParams []*TypeParameterSymbol
}

// NewOuterMethod wraps the method item id. ok is false when id is not a method.
func NewOuterMethod(b *ast.Builder, id ast.ItemID) (*OuterMethod, bool) {
	if b == nil {
		return nil, false
	}
	decl, ok := b.Items.Method(id)
	if !ok || decl == nil {
		return nil, false
	}
	ids := b.Items.GetTypeParamIDs(decl.OuterTypeParams, decl.OuterTypeNum)
	return &OuterMethod{
		builder:    b,
		id:         id,
		decl:       decl,
		name:       b.Name(decl.Name),
		typeParams: typeParametersFromSyntax(b, ids, id),
	}, true
}

func (m *OuterMethod) Kind() SymbolKind      { return SymbolMethod }
func (m *OuterMethod) Name() string          { return m.name }
func (m *OuterMethod) Location() source.Span { return m.decl.NameSpan }
func (m *OuterMethod) IsStatic() bool        { return m.decl.Static }
func (m *OuterMethod) Item() ast.ItemID      { return m.id }

// Locals lists the local functions declared in the method body.
func (m *OuterMethod) Locals() []ast.ItemID { return m.decl.Locals }

func (m *OuterMethod) EnclosingTypeParameters() []*TypeParameterSymbol {
	return m.typeParams
}

func (m *OuterMethod) Hash() uint64 {
	return hashNode(SymbolMethod, uint32(m.decl.Span.File), uint32(m.id))
}

// Equal holds for wrappers of the same method item.
func (m *OuterMethod) Equal(other Container) bool {
	o, ok := other.(*OuterMethod)
	if !ok || m == nil || o == nil {
		return ok && m == o
	}
	return m.builder == o.builder && m.id == o.id
}
