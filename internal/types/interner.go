package types

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"localfn/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Error   TypeID
	Void    TypeID
	Bool    TypeID
	String  TypeID
	Int     TypeID
	Uint    TypeID
	Float   TypeID
	Object  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Lookups and interning are safe for concurrent use: signature binders
// intern array and nullable types from whichever goroutine forces them.
type Interner struct {
	mu       sync.RWMutex
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	strings  *source.Interner
}

// NewInterner seeds the primitives. strings resolves names of named types
// and type params for labels; it may be nil.
func NewInterner(strings *source.Interner) *Interner {
	in := &Interner{
		index:   make(map[Type]TypeID, 64),
		strings: strings,
	}
	// KindInvalid занимает ID 0 и не попадает в поиск через Intern
	in.types = append(in.types, Type{Kind: KindInvalid})
	bt := &in.builtins
	for _, seed := range []struct {
		id *TypeID
		t  Type
	}{
		{&bt.Error, Type{Kind: KindError}},
		{&bt.Void, Type{Kind: KindVoid}},
		{&bt.Bool, Type{Kind: KindBool}},
		{&bt.String, Type{Kind: KindString}},
		{&bt.Int, MakeInt(WidthAny)},
		{&bt.Uint, MakeUint(WidthAny)},
		{&bt.Float, MakeFloat(WidthAny)},
		{&bt.Object, Type{Kind: KindObject}},
	} {
		*seed.id = in.Intern(seed.t)
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Strings returns the identifier interner used for labels.
func (in *Interner) Strings() *source.Interner {
	return in.strings
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	in.mu.RLock()
	id, ok := in.index[t]
	in.mu.RUnlock()
	if ok {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.appendLocked(t)
}

func (in *Interner) appendLocked(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type table overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// IsVoid reports whether id denotes the void type.
func (in *Interner) IsVoid(id TypeID) bool {
	return id != NoTypeID && id == in.builtins.Void
}

// IsError reports whether id is the error placeholder.
func (in *Interner) IsError(id TypeID) bool {
	return id != NoTypeID && id == in.builtins.Error
}
