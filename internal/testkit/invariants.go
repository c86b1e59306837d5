package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"localfn/internal/ast"
	"localfn/internal/source"
)

// CheckSpanInvariants runs span invariants on a rendered declaration file:
// 1) file.Span is non-empty and within file content bounds
// 2) every method span is non-empty and fully contained in file.Span
// 3) file.Span covers the union of method spans (if any methods exist)
// 4) local functions nest inside their method, in order and without overlap
// 5) every part of a local function (modifiers, return type, name, type
// parameters, parameters) lies inside its declaration
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	// 1) file span sanity
	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	// 2) method spans within file span; 3) file covers union
	var union source.Span
	var haveItem bool
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if err := nonEmptyIn(sp, f.Span, sf.ID, "item"); err != nil {
			return err
		}
		if !haveItem {
			union = sp
			haveItem = true
		} else {
			union = union.Cover(sp)
		}
		m, ok := b.Items.Method(it)
		if !ok {
			return fmt.Errorf("item %d is %s, want method", it, item.Kind)
		}
		if err := checkMethod(b, m, sf.ID); err != nil {
			return fmt.Errorf("method %q: %w", b.Name(m.Name), err)
		}
	}

	if haveItem && !f.Span.Contains(union) {
		return fmt.Errorf("file span %v does not cover union of items %v", f.Span, union)
	}
	return nil
}

func checkMethod(b *ast.Builder, m *ast.MethodItem, file source.FileID) error {
	if err := nonEmptyIn(m.NameSpan, m.Span, file, "method name"); err != nil {
		return err
	}
	for _, id := range b.Items.GetTypeParamIDs(m.OuterTypeParams, m.OuterTypeNum) {
		tp := b.Items.TypeParam(id)
		if tp == nil {
			return fmt.Errorf("nil outer type parameter %d", id)
		}
		if err := nonEmptyIn(tp.Span, m.Span, file, "outer type parameter"); err != nil {
			return err
		}
	}

	var prevEnd uint32
	for i, local := range m.Locals {
		fn, ok := b.Items.LocalFn(local)
		if !ok {
			return fmt.Errorf("local #%d (item %d) is not a local function", i, local)
		}
		if err := nonEmptyIn(fn.Span, m.Span, file, "local function"); err != nil {
			return err
		}
		if fn.Span.Start < prevEnd {
			return fmt.Errorf("local function %q overlaps its predecessor", b.Name(fn.Name))
		}
		prevEnd = fn.Span.End
		if err := checkLocalFn(b, fn, file); err != nil {
			return fmt.Errorf("local function %q: %w", b.Name(fn.Name), err)
		}
	}
	return nil
}

func checkLocalFn(b *ast.Builder, fn *ast.LocalFnItem, file source.FileID) error {
	if err := nonEmptyIn(fn.NameSpan, fn.Span, file, "name"); err != nil {
		return err
	}
	for _, mod := range fn.Modifiers {
		if err := nonEmptyIn(mod.Span, fn.Span, file, "modifier"); err != nil {
			return err
		}
		if mod.Span.End > fn.NameSpan.Start {
			return fmt.Errorf("modifier %s after the name", mod.Kind)
		}
	}
	if fn.ReturnType.IsValid() {
		if err := checkType(b, fn.ReturnType, fn.Span, file, "return type"); err != nil {
			return err
		}
		if ret := b.Types.Get(fn.ReturnType); ret.Span.End > fn.NameSpan.Start {
			return fmt.Errorf("return type after the name")
		}
	}

	if fn.TypeParamsNum > 0 {
		if err := nonEmptyIn(fn.TypeParamsSpan, fn.Span, file, "type parameter clause"); err != nil {
			return err
		}
		for _, id := range b.Items.GetLocalFnTypeParamIDs(fn) {
			tp := b.Items.TypeParam(id)
			if tp == nil {
				return fmt.Errorf("nil type parameter %d", id)
			}
			if err := nonEmptyIn(tp.Span, fn.TypeParamsSpan, file, "type parameter"); err != nil {
				return err
			}
		}
	}

	if err := nonEmptyIn(fn.ParamsSpan, fn.Span, file, "parameter list"); err != nil {
		return err
	}
	for i, id := range b.Items.GetFnParamIDs(fn) {
		p := b.Items.FnParam(id)
		if p == nil {
			return fmt.Errorf("nil parameter #%d", i)
		}
		if err := nonEmptyIn(p.Span, fn.ParamsSpan, file, "parameter"); err != nil {
			return err
		}
		if p.ArgList {
			continue
		}
		if err := nonEmptyIn(p.NameSpan, p.Span, file, "parameter name"); err != nil {
			return err
		}
		if err := checkType(b, p.Type, p.Span, file, "parameter type"); err != nil {
			return err
		}
	}
	return nil
}

// checkType verifies a type expression and its element chain lie inside outer.
func checkType(b *ast.Builder, id ast.TypeID, outer source.Span, file source.FileID, what string) error {
	for id.IsValid() {
		te := b.Types.Get(id)
		if te == nil {
			return fmt.Errorf("%s: nil type expression %d", what, id)
		}
		if err := nonEmptyIn(te.Span, outer, file, what); err != nil {
			return err
		}
		outer = te.Span
		id = te.Elem
	}
	return nil
}

func nonEmptyIn(sp, outer source.Span, file source.FileID, what string) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if sp.File != file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, file)
	}
	if !outer.Contains(sp) {
		return fmt.Errorf("%s span %v is outside %v", what, sp, outer)
	}
	return nil
}
