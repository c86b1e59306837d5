package ast

import (
	"localfn/internal/source"
)

type ItemKind uint8

const (
	// ItemMethod is an enclosing function or method that hosts local functions.
	ItemMethod ItemKind = iota
	// ItemLocalFn is a function declared inside another function's body.
	ItemLocalFn
)

func (k ItemKind) String() string {
	switch k {
	case ItemMethod:
		return "method"
	case ItemLocalFn:
		return "local fn"
	default:
		return "unknown"
	}
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type Items struct {
	Arena      *Arena[Item]
	Methods    *Arena[MethodItem]
	LocalFns   *Arena[LocalFnItem]
	FnParams   *Arena[FnParam]
	TypeParams *Arena[TypeParam]
}

// NewItems creates and returns an *Items with per-kind arenas initialized to capHint.
// If capHint is 0, NewItems uses a default initial capacity of 1<<8.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Items{
		Arena:      NewArena[Item](capHint),
		Methods:    NewArena[MethodItem](capHint),
		LocalFns:   NewArena[LocalFnItem](capHint),
		FnParams:   NewArena[FnParam](capHint),
		TypeParams: NewArena[TypeParam](capHint),
	}
}

// New allocates an Item record pointing at payload.
func (i *Items) New(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}
