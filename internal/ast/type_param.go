package ast

import (
	"fmt"

	"fortio.org/safecast"

	"localfn/internal/source"
)

// TypeParam is one declared type parameter of a method or local function.
// Span covers the whole parameter, NameSpan only its identifier.
type TypeParam struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
}

// TypeParamSpec is the input form of a TypeParam; Items stores it as is.
type TypeParamSpec = TypeParam

func (i *Items) TypeParam(id TypeParamID) *TypeParam {
	if !id.IsValid() {
		return nil
	}
	return i.TypeParams.Get(uint32(id))
}

// GetTypeParamIDs expands a contiguous run of count parameters.
func (i *Items) GetTypeParamIDs(start TypeParamID, count uint32) []TypeParamID {
	if !start.IsValid() || count == 0 {
		return nil
	}
	ids := make([]TypeParamID, 0, count)
	for n := range count {
		ids = append(ids, start+TypeParamID(n))
	}
	return ids
}

// allocateTypeParams stores params contiguously so one start ID plus a count
// addresses the whole clause.
func (i *Items) allocateTypeParams(params []TypeParamSpec) (start TypeParamID, count uint32) {
	if len(params) == 0 {
		return NoTypeParamID, 0
	}
	count, err := safecast.Conv[uint32](len(params))
	if err != nil {
		panic(fmt.Errorf("type params overflow: %w", err))
	}
	start = TypeParamID(i.TypeParams.Allocate(params[0]))
	for _, p := range params[1:] {
		i.TypeParams.Allocate(p)
	}
	return start, count
}
