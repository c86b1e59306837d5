package ast

import (
	"fmt"

	"fortio.org/safecast"

	"localfn/internal/source"
)

// FnParam is one entry of a parameter list. The `__arglist` marker is kept as
// a parameter with ArgList set so its position can be validated.
type FnParam struct {
	Name      source.StringID
	NameSpan  source.Span
	Type      TypeID
	Modifiers []ParamModifier
	ArgList   bool
	Span      source.Span
}

// HasModifier reports whether the parameter carries kind.
func (p *FnParam) HasModifier(kind ParamModifierKind) (source.Span, bool) {
	for _, m := range p.Modifiers {
		if m.Kind == kind {
			return m.Span, true
		}
	}
	return source.Span{}, false
}

// LocalFnItem is the syntax of a local function declaration.
type LocalFnItem struct {
	Name           source.StringID
	NameSpan       source.Span
	Owner          ItemID
	Modifiers      []Modifier
	TypeParams     TypeParamID
	TypeParamsNum  uint32
	TypeParamsSpan source.Span
	Params         FnParamID
	ParamsNum      uint32
	ParamsSpan     source.Span
	ReturnType     TypeID
	Span           source.Span
}

// LocalFnSpec specifies a local function during creation.
type LocalFnSpec struct {
	Name           source.StringID
	NameSpan       source.Span
	Modifiers      []Modifier
	TypeParams     []TypeParamSpec
	TypeParamsSpan source.Span
	Params         []FnParam
	ParamsSpan     source.Span
	ReturnType     TypeID
	Span           source.Span
}

// LocalFn returns the payload of a local function item.
func (i *Items) LocalFn(id ItemID) (*LocalFnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemLocalFn {
		return nil, false
	}
	return i.LocalFns.Get(uint32(item.Payload)), true
}

// FnParam returns the parameter for id.
func (i *Items) FnParam(id FnParamID) *FnParam {
	if !id.IsValid() {
		return nil
	}
	return i.FnParams.Get(uint32(id))
}

// GetFnParamIDs lists the parameter IDs of fn in declaration order.
func (i *Items) GetFnParamIDs(fn *LocalFnItem) []FnParamID {
	if fn == nil || !fn.Params.IsValid() || fn.ParamsNum == 0 {
		return nil
	}
	result := make([]FnParamID, fn.ParamsNum)
	for idx := range fn.ParamsNum {
		result[idx] = FnParamID(uint32(fn.Params) + idx)
	}
	return result
}

// GetLocalFnTypeParamIDs lists the type parameter IDs of fn in declaration order.
func (i *Items) GetLocalFnTypeParamIDs(fn *LocalFnItem) []TypeParamID {
	if fn == nil {
		return nil
	}
	return i.GetTypeParamIDs(fn.TypeParams, fn.TypeParamsNum)
}

func (i *Items) allocateFnParams(params []FnParam) (start FnParamID, count uint32) {
	if len(params) == 0 {
		return NoFnParamID, 0
	}
	for idx := range params {
		p := params[idx]
		p.Modifiers = append([]ParamModifier(nil), p.Modifiers...)
		id := FnParamID(i.FnParams.Allocate(p))
		if idx == 0 {
			start = id
		}
	}
	var err error
	count, err = safecast.Conv[uint32](len(params))
	if err != nil {
		panic(fmt.Errorf("fn params overflow: %w", err))
	}
	return start, count
}

// NewLocalFn allocates a local function declared inside owner.
func (i *Items) NewLocalFn(owner ItemID, spec LocalFnSpec) ItemID {
	tpStart, tpCount := i.allocateTypeParams(spec.TypeParams)
	paramStart, paramCount := i.allocateFnParams(spec.Params)
	payload := i.LocalFns.Allocate(LocalFnItem{
		Name:           spec.Name,
		NameSpan:       spec.NameSpan,
		Owner:          owner,
		Modifiers:      append([]Modifier(nil), spec.Modifiers...),
		TypeParams:     tpStart,
		TypeParamsNum:  tpCount,
		TypeParamsSpan: spec.TypeParamsSpan,
		Params:         paramStart,
		ParamsNum:      paramCount,
		ParamsSpan:     spec.ParamsSpan,
		ReturnType:     spec.ReturnType,
		Span:           spec.Span,
	})
	id := i.New(ItemLocalFn, spec.Span, PayloadID(payload))
	if m, ok := i.Method(owner); ok {
		m.Locals = append(m.Locals, id)
	}
	return id
}
