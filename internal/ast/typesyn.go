package ast

import (
	"localfn/internal/source"
)

type TypeExprKind uint8

const (
	// TypeExprPath is a named type: `int`, `void`, `List`, `T`.
	TypeExprPath TypeExprKind = iota
	// TypeExprInferred is the `var` placeholder asking for inference.
	TypeExprInferred
	// TypeExprArray is `Elem[]`.
	TypeExprArray
	// TypeExprNullable is `Elem?`.
	TypeExprNullable
)

func (k TypeExprKind) String() string {
	switch k {
	case TypeExprPath:
		return "path"
	case TypeExprInferred:
		return "inferred"
	case TypeExprArray:
		return "array"
	case TypeExprNullable:
		return "nullable"
	default:
		return "unknown"
	}
}

type TypeExpr struct {
	Kind TypeExprKind
	Name source.StringID // для TypeExprPath
	Elem TypeID          // для TypeExprArray / TypeExprNullable
	Span source.Span
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

func (t *TypeExprs) NewPath(name source.StringID, span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprPath, Name: name, Span: span}))
}

func (t *TypeExprs) NewInferred(span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprInferred, Span: span}))
}

func (t *TypeExprs) NewArray(elem TypeID, span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprArray, Elem: elem, Span: span}))
}

func (t *TypeExprs) NewNullable(elem TypeID, span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprNullable, Elem: elem, Span: span}))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	if !id.IsValid() {
		return nil
	}
	return t.Arena.Get(uint32(id))
}

// IsInferred reports whether id is the `var` placeholder.
func (t *TypeExprs) IsInferred(id TypeID) bool {
	expr := t.Get(id)
	return expr != nil && expr.Kind == TypeExprInferred
}
