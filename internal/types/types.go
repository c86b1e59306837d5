package types

import (
	"fmt"

	"localfn/internal/ast"
	"localfn/internal/source"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindError is the placeholder produced when binding fails.
	KindError
	KindVoid
	KindBool
	KindString
	KindInt
	KindUint
	KindFloat
	KindObject
	KindArray
	KindNullable
	KindNamed
	KindTypeParam
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindError:     "error",
	KindVoid:      "void",
	KindBool:      "bool",
	KindString:    "string",
	KindInt:       "int",
	KindUint:      "uint",
	KindFloat:     "float",
	KindObject:    "object",
	KindArray:     "array",
	KindNullable:  "nullable",
	KindNamed:     "named",
	KindTypeParam: "type param",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// HasElem reports whether types of this kind wrap another type in Elem.
func (k Kind) HasElem() bool { return k == KindArray || k == KindNullable }

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind  Kind
	Elem  TypeID          // for arrays and nullables
	Width Width           // for numeric primitives
	Name  source.StringID // for named types and type params
	Index uint32          // type param ordinal
	Owner ast.ItemID      // type param owner (declaring item)
}

// MakeInt describes a signed integer; WidthAny is plain "int".
func MakeInt(width Width) Type { return Type{Kind: KindInt, Width: width} }

func MakeUint(width Width) Type { return Type{Kind: KindUint, Width: width} }

func MakeFloat(width Width) Type { return Type{Kind: KindFloat, Width: width} }

// MakeArray describes T[].
func MakeArray(elem TypeID) Type { return Type{Kind: KindArray, Elem: elem} }

// MakeNullable describes T?.
func MakeNullable(elem TypeID) Type { return Type{Kind: KindNullable, Elem: elem} }

// MakeNamed describes a nominal type declared in the fixture's type list.
func MakeNamed(name source.StringID) Type { return Type{Kind: KindNamed, Name: name} }

// MakeTypeParam describes the index-th type parameter declared by owner.
func MakeTypeParam(name source.StringID, index uint32, owner ast.ItemID) Type {
	return Type{Kind: KindTypeParam, Name: name, Index: index, Owner: owner}
}
