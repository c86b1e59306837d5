package symbols

import (
	"strings"

	"localfn/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolMethod
	SymbolLocalFunction
	SymbolParam
	SymbolTypeParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolMethod:
		return "method"
	case SymbolLocalFunction:
		return "local function"
	case SymbolParam:
		return "param"
	case SymbolTypeParam:
		return "type param"
	default:
		return "invalid"
	}
}

// Symbol is the read-only contract every symbol kind exposes.
type Symbol interface {
	Kind() SymbolKind
	Name() string
	Location() source.Span
	// Hash never changes over the symbol's lifetime.
	Hash() uint64
}

// Accessibility of a declared member.
type Accessibility uint8

const (
	AccessNotApplicable Accessibility = iota
	AccessPrivate
	AccessInternal
	AccessProtected
	AccessPublic
)

func (a Accessibility) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessInternal:
		return "internal"
	case AccessProtected:
		return "protected"
	case AccessPublic:
		return "public"
	default:
		return "n/a"
	}
}

// DeclModifiers encode declaration modifiers for quick checks.
type DeclModifiers uint16

const (
	DeclPrivate DeclModifiers = 1 << iota
	DeclStatic
	DeclAsync
	DeclUnsafe
	DeclExtern
)

// Has reports whether every flag in m is set.
func (d DeclModifiers) Has(m DeclModifiers) bool {
	return d&m == m
}

// Strings returns a slice of textual modifier labels.
func (d DeclModifiers) Strings() []string {
	if d == 0 {
		return nil
	}
	labels := make([]string, 0, 5)
	if d&DeclPrivate != 0 {
		labels = append(labels, "private")
	}
	if d&DeclStatic != 0 {
		labels = append(labels, "static")
	}
	if d&DeclAsync != 0 {
		labels = append(labels, "async")
	}
	if d&DeclUnsafe != 0 {
		labels = append(labels, "unsafe")
	}
	if d&DeclExtern != 0 {
		labels = append(labels, "extern")
	}
	return labels
}

func (d DeclModifiers) String() string {
	return strings.Join(d.Strings(), " ")
}

// CallingConvention is derived from static-ness and the vararg flag.
type CallingConvention uint8

const (
	ConvDefault CallingConvention = 0
	ConvHasThis CallingConvention = 1 << (iota - 1)
	ConvVarArgs
)

func (c CallingConvention) String() string {
	switch c {
	case ConvDefault:
		return "default"
	case ConvHasThis:
		return "hasthis"
	case ConvVarArgs:
		return "vararg"
	case ConvHasThis | ConvVarArgs:
		return "hasthis vararg"
	default:
		return "unknown"
	}
}
