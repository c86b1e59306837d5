package symbols

import (
	"encoding/binary"
	"hash/fnv"
)

// Hash depends only on the declaration node, so it is the same before and
// after binding and never forces a lazy fact.
func (s *LocalFunctionSymbol) Hash() uint64 {
	return hashNode(SymbolLocalFunction, uint32(s.decl.Span.File), uint32(s.id))
}

// Equal holds when both symbols come from the same declaration node and agree
// on return type, parameter types, type parameters, vararg flag and
// container. It forces the lazy facts of both symbols.
func (s *LocalFunctionSymbol) Equal(other *LocalFunctionSymbol) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.builder != other.builder || s.id != other.id {
		return false
	}
	if s.ReturnType() != other.ReturnType() {
		return false
	}
	if s.IsVararg() != other.IsVararg() {
		return false
	}
	if !equalParamTypes(s.Parameters(), other.Parameters()) {
		return false
	}
	if !equalTypeParams(s.typeParams, other.typeParams) {
		return false
	}
	return equalContainers(s.container, other.container)
}

func equalParamTypes(a, b []*ParameterSymbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

func equalTypeParams(a, b []*TypeParameterSymbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalContainers(a, b Container) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// hashNode mixes a symbol kind with the coordinates of its declaration.
func hashNode(kind SymbolKind, file, node uint32) uint64 {
	var buf [9]byte
	buf[0] = byte(kind)
	binary.LittleEndian.PutUint32(buf[1:5], file)
	binary.LittleEndian.PutUint32(buf[5:], node)
	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
