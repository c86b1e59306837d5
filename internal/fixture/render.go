package fixture

import (
	"bytes"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"localfn/internal/ast"
	"localfn/internal/source"
)

// The loader renders every fixture into declaration text so that symbols and
// diagnostics point at real line/column positions:
//
//	static method Outer<T>() {
//	    async int F<U>(this int x, __arglist);
//	}
//
// Rendering runs before the file has an ID, so offsets are recorded first
// and turned into spans once the text is registered.

type off struct{ start, end uint32 }

func (o off) span(file source.FileID) source.Span {
	return source.Span{File: file, Start: o.start, End: o.end}
}

type writer struct{ buf bytes.Buffer }

func (w *writer) pos() uint32 {
	n, err := safecast.Conv[uint32](w.buf.Len())
	if err != nil {
		panic(fmt.Errorf("rendered fixture overflow: %w", err))
	}
	return n
}

func (w *writer) emit(s string) off {
	start := w.pos()
	w.buf.WriteString(s)
	return off{start: start, end: w.pos()}
}

type methodLayout struct {
	decl       *Container
	whole      off
	name       off
	typeParams []off
	locals     []localLayout
}

type localLayout struct {
	decl       *Local
	whole      off
	name       off
	mods       []off
	typeParams []off
	tpClause   off
	ret        off
	params     []paramLayout
	paramsSpan off
}

type paramLayout struct {
	decl  *Param
	whole off
	name  off
	typ   off
	mods  []off
}

func render(f *File) ([]byte, []methodLayout) {
	w := &writer{}
	layouts := make([]methodLayout, 0, len(f.Containers))
	for ci := range f.Containers {
		if ci > 0 {
			w.emit("\n")
		}
		layouts = append(layouts, renderContainer(w, &f.Containers[ci]))
	}
	return w.buf.Bytes(), layouts
}

func renderContainer(w *writer, c *Container) methodLayout {
	ml := methodLayout{decl: c}
	start := w.pos()
	if c.Static {
		w.emit("static ")
	}
	w.emit("method ")
	ml.name = w.emit(c.Name)
	ml.typeParams, _ = renderTypeParams(w, c.TypeParams)
	w.emit("() {")
	ml.whole = off{start: start, end: w.pos()}
	w.emit("\n")
	for li := range c.Locals {
		w.emit("    ")
		ml.locals = append(ml.locals, renderLocal(w, &c.Locals[li]))
		w.emit("\n")
	}
	ml.whole.end = w.emit("}").end
	w.emit("\n")
	return ml
}

func renderTypeParams(w *writer, names []string) ([]off, off) {
	if len(names) == 0 {
		return nil, off{}
	}
	offs := make([]off, 0, len(names))
	clause := w.emit("<")
	for i, name := range names {
		if i > 0 {
			w.emit(", ")
		}
		offs = append(offs, w.emit(name))
	}
	clause.end = w.emit(">").end
	return offs, clause
}

func renderLocal(w *writer, l *Local) localLayout {
	ll := localLayout{decl: l}
	start := w.pos()
	for _, m := range l.Modifiers {
		ll.mods = append(ll.mods, w.emit(strings.TrimSpace(m)))
		w.emit(" ")
	}
	if l.Returns != "" {
		ll.ret = w.emit(strings.TrimSpace(l.Returns))
		w.emit(" ")
	}
	ll.name = w.emit(l.Name)
	ll.typeParams, ll.tpClause = renderTypeParams(w, l.TypeParams)
	ll.paramsSpan = w.emit("(")
	for pi := range l.Params {
		if pi > 0 {
			w.emit(", ")
		}
		ll.params = append(ll.params, renderParam(w, &l.Params[pi]))
	}
	ll.paramsSpan.end = w.emit(")").end
	ll.whole = off{start: start, end: w.emit(";").end}
	return ll
}

func renderParam(w *writer, p *Param) paramLayout {
	pl := paramLayout{decl: p}
	start := w.pos()
	if p.ArgList {
		pl.whole = w.emit("__arglist")
		return pl
	}
	for _, m := range p.Modifiers {
		pl.mods = append(pl.mods, w.emit(strings.TrimSpace(m)))
		w.emit(" ")
	}
	pl.typ = w.emit(strings.TrimSpace(p.Type))
	w.emit(" ")
	pl.name = w.emit(p.Name)
	pl.whole = off{start: start, end: pl.name.end}
	return pl
}

// build allocates the rendered declarations in b and returns the method items.
func build(b *ast.Builder, file source.FileID, astFile ast.FileID, layouts []methodLayout) []ast.ItemID {
	intern := b.StringsInterner.Intern
	methods := make([]ast.ItemID, 0, len(layouts))
	for _, ml := range layouts {
		methodID := b.Items.NewMethod(ast.MethodSpec{
			Name:            intern(ml.decl.Name),
			NameSpan:        ml.name.span(file),
			Static:          ml.decl.Static,
			OuterTypeParams: typeParamSpecs(b, file, ml.decl.TypeParams, ml.typeParams),
			Span:            ml.whole.span(file),
		})
		for _, ll := range ml.locals {
			spec := ast.LocalFnSpec{
				Name:           intern(ll.decl.Name),
				NameSpan:       ll.name.span(file),
				TypeParams:     typeParamSpecs(b, file, ll.decl.TypeParams, ll.typeParams),
				TypeParamsSpan: ll.tpClause.span(file),
				ParamsSpan:     ll.paramsSpan.span(file),
				Span:           ll.whole.span(file),
			}
			for i, m := range ll.decl.Modifiers {
				kind, _ := ast.ParseModifier(m)
				spec.Modifiers = append(spec.Modifiers, ast.Modifier{Kind: kind, Span: ll.mods[i].span(file)})
			}
			if ll.decl.Returns != "" {
				spec.ReturnType = buildType(b, file, ll.decl.Returns, ll.ret)
			}
			for _, pl := range ll.params {
				spec.Params = append(spec.Params, buildParam(b, file, pl))
			}
			b.Items.NewLocalFn(methodID, spec)
		}
		b.PushItem(astFile, methodID)
		methods = append(methods, methodID)
	}
	return methods
}

func typeParamSpecs(b *ast.Builder, file source.FileID, names []string, offs []off) []ast.TypeParamSpec {
	if len(names) == 0 {
		return nil
	}
	specs := make([]ast.TypeParamSpec, 0, len(names))
	for i, name := range names {
		sp := offs[i].span(file)
		specs = append(specs, ast.TypeParamSpec{
			Name:     b.StringsInterner.Intern(name),
			NameSpan: sp,
			Span:     sp,
		})
	}
	return specs
}

func buildParam(b *ast.Builder, file source.FileID, pl paramLayout) ast.FnParam {
	if pl.decl.ArgList {
		return ast.FnParam{ArgList: true, Span: pl.whole.span(file)}
	}
	p := ast.FnParam{
		Name:     b.StringsInterner.Intern(pl.decl.Name),
		NameSpan: pl.name.span(file),
		Type:     buildType(b, file, pl.decl.Type, pl.typ),
		Span:     pl.whole.span(file),
	}
	for i, m := range pl.decl.Modifiers {
		kind, _ := ast.ParseParamModifier(m)
		p.Modifiers = append(p.Modifiers, ast.ParamModifier{Kind: kind, Span: pl.mods[i].span(file)})
	}
	return p
}

func buildType(b *ast.Builder, file source.FileID, text string, at off) ast.TypeID {
	tt, err := parseTypeText(text)
	if err != nil {
		return ast.NoTypeID
	}
	return allocType(b, file, tt, at)
}

func allocType(b *ast.Builder, file source.FileID, tt *typeText, at off) ast.TypeID {
	sp := at.span(file)
	switch {
	case tt.inferred:
		return b.Types.NewInferred(sp)
	case tt.suffix == '?':
		return b.Types.NewNullable(allocType(b, file, tt.elem, off{start: at.start, end: at.end - 1}), sp)
	case tt.suffix == '[':
		return b.Types.NewArray(allocType(b, file, tt.elem, off{start: at.start, end: at.end - 2}), sp)
	default:
		return b.Types.NewPath(b.StringsInterner.Intern(tt.name), sp)
	}
}
