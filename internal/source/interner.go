package source

import (
	"slices"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// StringID is an interned identifier; NoStringID is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner maps identifiers to compact IDs. Strings are stored in NFC form,
// so two spellings of the same identifier share an ID and name comparisons
// elsewhere can be done on IDs.
//
// Safe for concurrent use: binders look names up while the loader may still
// intern new ones.
type Interner struct {
	mu    sync.RWMutex
	names []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		names: []string{""},
		ids:   map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, adding it on first sight.
func (in *Interner) Intern(s string) StringID {
	s = norm.NFC.String(s)
	if id, ok := in.find(s); ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[s]; ok {
		return id
	}
	// своя копия: s может ссылаться на буфер фикстуры
	s = string([]byte(s))
	id := StringID(len(in.names))
	in.names = append(in.names, s)
	in.ids[s] = id
	return id
}

// Find returns the ID of s without interning it.
func (in *Interner) Find(s string) (StringID, bool) {
	return in.find(norm.NFC.String(s))
}

func (in *Interner) find(normalized string) (StringID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.ids[normalized]
	return id, ok
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.names) {
		return "", false
	}
	return in.names[id], true
}

// MustLookup panics on an unknown ID.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: unknown string ID")
	}
	return s
}

// Len counts NoStringID too, so it is at least 1.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.names)
}

// Snapshot copies all interned strings in ID order.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return slices.Clone(in.names)
}
