package symbols

import (
	"localfn/internal/source"
	"localfn/internal/types"
)

// RefKind is the passing mode of a parameter.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefRef
	RefOut
	RefIn
)

func (k RefKind) String() string {
	switch k {
	case RefRef:
		return "ref"
	case RefOut:
		return "out"
	case RefIn:
		return "in"
	default:
		return ""
	}
}

// ParameterSymbol is one bound parameter.
type ParameterSymbol struct {
	Name     source.StringID
	Label    string
	Ordinal  uint32
	Type     types.TypeID
	RefKind  RefKind
	IsParams bool
	IsThis   bool
	Span     source.Span
}

func (p *ParameterSymbol) Kind() SymbolKind { return SymbolParam }
