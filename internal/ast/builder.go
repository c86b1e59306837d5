package ast

import (
	"localfn/internal/source"
)

type Hints struct{ Files, Items, Types uint }

// Builder owns every arena of one declaration forest. After loading finishes
// the builder is only read, so symbols may share it across goroutines.
type Builder struct {
	Files           *Files
	Items           *Items
	Types           *TypeExprs
	StringsInterner *source.Interner
}

func NewBuilder(hints Hints, stringsInterner *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Types == 0 {
		hints.Types = 1 << 8
	}
	if stringsInterner == nil {
		stringsInterner = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Items:           NewItems(hints.Items),
		Types:           NewTypeExprs(hints.Types),
		StringsInterner: stringsInterner,
	}
}

func (b *Builder) NewFile(sp source.Span, path string) FileID {
	return b.Files.New(sp, path)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	if f == nil {
		return
	}
	f.Items = append(f.Items, item)
}

// Name returns the identifier text for id ("" for NoStringID).
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.StringsInterner.Lookup(id)
	return s
}
