package ast

import (
	"localfn/internal/source"
)

// MethodItem is the function whose body declares local functions.
// OuterTypeParams are the type parameters in scope from the enclosing
// generic type; local type parameters with the same names shadow them.
type MethodItem struct {
	Name            source.StringID
	NameSpan        source.Span
	Static          bool
	OuterTypeParams TypeParamID
	OuterTypeNum    uint32
	Locals          []ItemID
	Span            source.Span
}

// MethodSpec specifies an enclosing method during creation.
type MethodSpec struct {
	Name            source.StringID
	NameSpan        source.Span
	Static          bool
	OuterTypeParams []TypeParamSpec
	Span            source.Span
}

// Method returns the payload of a method item.
func (i *Items) Method(id ItemID) (*MethodItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemMethod {
		return nil, false
	}
	return i.Methods.Get(uint32(item.Payload)), true
}

// NewMethod allocates an enclosing method.
func (i *Items) NewMethod(spec MethodSpec) ItemID {
	tpStart, tpCount := i.allocateTypeParams(spec.OuterTypeParams)
	payload := i.Methods.Allocate(MethodItem{
		Name:            spec.Name,
		NameSpan:        spec.NameSpan,
		Static:          spec.Static,
		OuterTypeParams: tpStart,
		OuterTypeNum:    tpCount,
		Locals:          make([]ItemID, 0),
		Span:            spec.Span,
	})
	return i.New(ItemMethod, spec.Span, PayloadID(payload))
}
